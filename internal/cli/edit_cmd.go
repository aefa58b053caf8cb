package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/alexanderramin/crudforge/internal/cli/formatter"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/payload"
	"github.com/alexanderramin/crudforge/internal/tree"
	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	var (
		sets    []string
		file    string
		scope   string
		useForm bool
		dryRun  bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "edit KIND ID",
		Short: "Update a menu, feature or column node",
		Long: "Update a node. Fields come from --file, then --form, then --set, " +
			"later sources winning. Values given to --set are parsed as JSON " +
			"and fall back to plain strings.",
		Example: "  crudforge edit menu 21 --set title=Users --set is_active=false\n" +
			"  crudforge edit column 7 --form --scope 3",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			id := args[1]

			form := map[string]any{}
			if file != "" {
				fromFile, err := readObject(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				maps.Copy(form, fromFile)
			}
			if useForm {
				if !app.interactive() {
					return errors.New("--form needs an interactive terminal")
				}
				values := editValuesFrom(app.findNode(cmd, kind, scope, id))
				if err := editForm(kind, id, &values).Run(); err != nil {
					return err
				}
				maps.Copy(form, values.toForm(kind))
			}
			assigned, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			maps.Copy(form, assigned)
			if len(form) == 0 {
				return errors.New("nothing to update: pass --set, --file or --form")
			}

			res, err := app.Edit.Update(cmd.Context(), contract.EditRequest{
				Kind:   kind,
				ID:     id,
				Form:   form,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res.Payload)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEdit(res))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment key=value (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "JSON object with fields to update (- for stdin)")
	cmd.Flags().StringVar(&scope, "scope", "", "CRUD module id, used to prefill --form for columns")
	cmd.Flags().BoolVar(&useForm, "form", false, "edit common fields in an interactive form")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the normalized payload without sending it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the normalized payload as JSON")

	return cmd
}

// findNode looks the node up to prefill the edit form. Lookup failures
// give an empty form rather than an error.
func (a *App) findNode(cmd *cobra.Command, kind domain.TreeKind, scope, id string) *domain.Node {
	req := contract.NewTreeRequest(kind)
	req.ScopeID = scope
	req.View = domain.ViewAll
	res, err := a.Trees.Tree(cmd.Context(), req)
	if err != nil {
		return nil
	}
	return tree.FindByID(res.Roots, id)
}

// parseAssignments turns key=value pairs into form fields. Values that
// parse as JSON keep their JSON type.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, raw, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", p)
		}
		out[k] = jsonOrString(raw)
	}
	return out, nil
}

func jsonOrString(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

// readObject decodes a JSON object from path, or from stdin for "-".
func readObject(stdin io.Reader, path string) (map[string]any, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("reading %s: want a JSON object: %w", path, err)
	}
	return obj, nil
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [FILE|-]",
		Short: "Print the backend payload for a JSON form without sending it",
		Args:  cobra.MaximumNArgs(1),
		// Normalizing is local; skip building the app.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			form, err := readObject(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), payload.Normalize(form))
		},
	}
}
