package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/crudforge/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPackageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Inspect and change the features enabled for a package",
	}

	cmd.AddCommand(
		newPackageShowCmd(app),
		newPackageSetCmd(app),
		newPackagePickCmd(app),
	)

	return cmd
}

func newPackageShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show PACKAGE_ID",
		Short: "Show the feature tree with the package's enabled features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Selection.Marked(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res.EnabledIDs)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSelection(res, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the enabled ids as JSON")
	return cmd
}

func newPackageSetCmd(app *App) *cobra.Command {
	var (
		ids      []string
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "set PACKAGE_ID --ids 1,2,3",
		Short: "Replace the package's enabled features",
		Long: "Replace the package's enabled features with the given ids. " +
			"Ids that are not in the feature tree are dropped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearAll && !cmd.Flags().Changed("ids") {
				return errors.New("pass --ids, or --clear to disable every feature")
			}
			values := make([]any, 0, len(ids))
			if !clearAll {
				for _, id := range ids {
					values = append(values, id)
				}
			}
			res, err := app.Selection.SetIDs(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSave(res))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ids, "ids", nil, "feature ids to enable")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "disable every feature")
	cmd.MarkFlagsMutuallyExclusive("ids", "clear")

	return cmd
}

func newPackagePickCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pick PACKAGE_ID",
		Short: "Toggle the package's features in an interactive tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("package pick needs an interactive terminal; use package set")
			}
			res, err := app.Selection.Marked(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			final, err := app.runPicker(newPickerModel(res))
			if err != nil {
				return err
			}
			picked, ok := final.(pickerModel)
			if !ok || !picked.saved {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled, nothing saved."))
				return nil
			}

			saved, err := app.Selection.Save(cmd.Context(), args[0], picked.Result())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSave(saved))
			return nil
		},
	}
}
