package recipe

import (
	"strings"

	"github.com/use-agent/recipe-scraper/models"
)

// Validate reports every required field the record is missing. An empty
// result means the record is usable.
func Validate(r *models.Recipe) []string {
	var problems []string
	if strings.TrimSpace(r.Title) == "" {
		problems = append(problems, "title is missing")
	}
	if len(r.Ingredients) == 0 {
		problems = append(problems, "no ingredients found")
	}
	if len(r.Instructions) == 0 {
		problems = append(problems, "no instructions found")
	}
	return problems
}
