package cli

import (
	"fmt"

	"github.com/alexanderramin/crudforge/internal/cli/formatter"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/spf13/cobra"
)

var kindArgs = []string{"menu", "feature", "column"}

func newTreeCmd(app *App) *cobra.Command {
	var (
		scope      string
		trash, all bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:       "tree KIND",
		Short:     "Show the menu, feature or column tree",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			req := contract.NewTreeRequest(kind)
			req.ScopeID = scope
			req.View = viewFlag(trash, all)

			res, err := app.Trees.Tree(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res.Roots)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTree(res, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "CRUD module id (column trees)")
	cmd.Flags().BoolVar(&trash, "trash", false, "show soft-deleted nodes only")
	cmd.Flags().BoolVar(&all, "all", false, "show active and deleted nodes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the nodes as JSON")
	cmd.MarkFlagsMutuallyExclusive("trash", "all")

	return cmd
}

func viewFlag(trash, all bool) domain.TreeView {
	switch {
	case trash:
		return domain.ViewTrash
	case all:
		return domain.ViewAll
	}
	return domain.ViewActive
}

type searchHitJSON struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Kind  domain.NodeKind `json:"type"`
	Path  []string        `json:"path"`
	Score int             `json:"score"`
}

func newSearchCmd(app *App) *cobra.Command {
	var (
		scope  string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search KIND QUERY",
		Short: "Fuzzy-find nodes of a tree by name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			req := contract.NewTreeRequest(kind)
			req.ScopeID = scope

			hits, err := app.Trees.Search(cmd.Context(), req, args[1], limit)
			if err != nil {
				return err
			}
			if asJSON {
				out := make([]searchHitJSON, 0, len(hits))
				for _, h := range hits {
					out = append(out, searchHitJSON{ID: h.Node.ID, Name: h.Node.Name, Kind: h.Node.Kind, Path: h.Path, Score: h.Score})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSearch(kind, args[1], hits))
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "CRUD module id (column trees)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the matches as JSON")

	return cmd
}
