package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantrykit/pantry/internal/reconcile"
	"github.com/pantrykit/pantry/internal/render"
)

// NewIngredientsCommand creates the ingredients command group.
func NewIngredientsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "List and manage ingredients",
	}

	cmd.AddCommand(newIngredientsListCommand(rootOpts))
	cmd.AddCommand(newIngredientsAddCommand(rootOpts))
	cmd.AddCommand(newIngredientsDeleteCommand(rootOpts))
	cmd.AddCommand(newIngredientsSearchCommand(rootOpts))

	return cmd
}

func newIngredientsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List all ingredients",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if _, err := app.Ingredients.Refresh(cmd.Context()); err != nil {
				return reportError(formatter, err)
			}
			return writeIngredients(formatter, app.Ingredients.Items())
		},
	}
}

func newIngredientsAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add <name>",
		Short:         "Add an ingredient",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if err := app.Ingredients.Create(cmd.Context(), args[0]); err != nil {
				return reportError(formatter, err)
			}
			return formatter.Success(fmt.Sprintf("Ingredient %q added.", args[0]))
		},
	}
}

func newIngredientsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete an ingredient",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if err := app.Ingredients.DeleteByName(cmd.Context(), args[0]); err != nil {
				return reportError(formatter, err)
			}
			return formatter.Success(fmt.Sprintf("Ingredient %q deleted.", args[0]))
		},
	}
}

func newIngredientsSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "search <term>",
		Short:         "Search ingredients by name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if _, err := app.Ingredients.Refresh(cmd.Context()); err != nil {
				return reportError(formatter, err)
			}
			return writeIngredients(formatter, app.Ingredients.Search(args[0]))
		},
	}
}

func writeIngredients(f *OutputFormatter, items []reconcile.Ingredient) error {
	if f.Format == "json" {
		return f.Success(items)
	}
	_, err := fmt.Fprint(f.Writer, render.Ingredients(items))
	return err
}
