package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/use-agent/recipe-scraper/models"
)

func TestValidate(t *testing.T) {
	ok := models.NewRecipe()
	ok.Title = "Soup"
	ok.Ingredients = []string{"water"}
	ok.Instructions = []string{"Boil."}
	assert.Empty(t, Validate(ok))

	empty := models.NewRecipe()
	assert.Equal(t, []string{"title is missing", "no ingredients found", "no instructions found"}, Validate(empty))

	blankTitle := models.NewRecipe()
	blankTitle.Title = "   "
	blankTitle.Ingredients = []string{"water"}
	assert.Equal(t, []string{"title is missing", "no instructions found"}, Validate(blankTitle))
}

func TestCheckURL(t *testing.T) {
	tests := []struct {
		url          string
		allowPrivate bool
		wantErr      bool
	}{
		{"https://www.allrecipes.com/recipe/1/", false, false},
		{"http://example.com/soup", false, false},
		{"example.com/soup", false, true},
		{"ftp://example.com/soup", false, true},
		{"javascript:alert(1)", false, true},
		{"http://localhost:8000/", false, true},
		{"http://127.0.0.1:1/", false, true},
		{"http://10.1.2.3/", false, true},
		{"http://192.168.0.10/", false, true},
		{"http://172.20.0.1/", false, true},
		{"http://[::1]/", false, true},
		{"http://169.254.169.254/latest/meta-data", false, true},
		{"http://0.0.0.0/", false, true},
		{"http://172.32.0.1/", false, false},
		{"http://127.0.0.1:1/", true, false},
		{"http://localhost/", true, false},
	}
	for _, tt := range tests {
		err := CheckURL(tt.url, tt.allowPrivate)
		if !tt.wantErr {
			assert.NoError(t, err, tt.url)
			continue
		}
		var se *models.ScrapeError
		if assert.ErrorAs(t, err, &se, tt.url) {
			assert.Equal(t, models.ErrCodeInvalidInput, se.Code, tt.url)
		}
	}
}
