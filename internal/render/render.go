// Package render formats entity lists and status lines for the
// terminal. The layout mirrors what the service's web pages show: each
// recipe as "Recipe ID <id>: <name>" with its instructions underneath,
// ingredients as a plain name list, and a fixed phrase for an empty
// collection.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pantrykit/pantry/internal/reconcile"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	bodyStyle    = lipgloss.NewStyle().PaddingLeft(2)
	emptyStyle   = lipgloss.NewStyle().Italic(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Recipes renders the recipe list in server order.
func Recipes(list []reconcile.Recipe) string {
	if len(list) == 0 {
		return emptyStyle.Render("No recipes found.") + "\n"
	}

	var b strings.Builder
	for _, r := range list {
		b.WriteString(headingStyle.Render(fmt.Sprintf("Recipe ID %d: %s", r.ID, r.Name)))
		b.WriteString("\n")
		if r.Instructions != "" {
			b.WriteString(bodyStyle.Render(r.Instructions))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Ingredients renders the ingredient list in server order.
func Ingredients(list []reconcile.Ingredient) string {
	if len(list) == 0 {
		return emptyStyle.Render("No ingredients found.") + "\n"
	}

	var b strings.Builder
	for _, i := range list {
		b.WriteString(fmt.Sprintf("- %s\n", i.Name))
	}
	return b.String()
}

// Error renders a single-line error message.
func Error(msg string) string {
	return errorStyle.Render("Error: "+msg) + "\n"
}

// Notice renders a single-line confirmation message.
func Notice(msg string) string {
	return noticeStyle.Render(msg) + "\n"
}
