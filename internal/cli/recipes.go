package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantrykit/pantry/internal/reconcile"
	"github.com/pantrykit/pantry/internal/render"
)

// NewRecipesCommand creates the recipes command group.
func NewRecipesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List and manage recipes",
	}

	cmd.AddCommand(newRecipesListCommand(rootOpts))
	cmd.AddCommand(newRecipesAddCommand(rootOpts))
	cmd.AddCommand(newRecipesUpdateCommand(rootOpts))
	cmd.AddCommand(newRecipesDeleteCommand(rootOpts))
	cmd.AddCommand(newRecipesSearchCommand(rootOpts))

	return cmd
}

func newRecipesListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List all recipes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if _, err := app.Recipes.Refresh(cmd.Context()); err != nil {
				return reportError(formatter, err)
			}
			return writeRecipes(formatter, app.Recipes.Items())
		},
	}
}

func newRecipesAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <instructions>",
		Short: "Add a recipe",
		Long: `Add a recipe with a name and its instructions.

Example:
  pantry recipes add "Olive Oil Cake" "Mix and bake."`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if err := app.Recipes.Create(cmd.Context(), args[0], args[1]); err != nil {
				return reportError(formatter, err)
			}
			return formatter.Success(fmt.Sprintf("Recipe %q added.", args[0]))
		},
	}
}

func newRecipesUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "update <name> <instructions>",
		Short:         "Replace a recipe's instructions",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if err := app.Recipes.UpdateByName(cmd.Context(), args[0], args[1]); err != nil {
				return reportError(formatter, err)
			}
			return formatter.Success(fmt.Sprintf("Recipe %q updated.", args[0]))
		},
	}
}

func newRecipesDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a recipe (admin only)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if err := app.Recipes.DeleteByName(cmd.Context(), args[0]); err != nil {
				return reportError(formatter, err)
			}
			return formatter.Success(fmt.Sprintf("Recipe %q deleted.", args[0]))
		},
	}
}

func newRecipesSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "search <term>",
		Short:         "Search recipes by name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if _, err := app.Recipes.Refresh(cmd.Context()); err != nil {
				return reportError(formatter, err)
			}
			return writeRecipes(formatter, app.Recipes.Search(args[0]))
		},
	}
}

func newFormatter(rootOpts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
}

func writeRecipes(f *OutputFormatter, items []reconcile.Recipe) error {
	if f.Format == "json" {
		return f.Success(items)
	}
	_, err := fmt.Fprint(f.Writer, render.Recipes(items))
	return err
}
