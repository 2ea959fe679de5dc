package recipe

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/use-agent/recipe-scraper/models"
)

// Accessor capabilities a library page may offer. Each is optional.
type (
	titler         interface{ Title() (string, error) }
	ingredientser  interface{ Ingredients() ([]string, error) }
	instructionser interface{ Instructions() (any, error) }
	yielder        interface{ Yields() (string, error) }
	totalTimer     interface{ TotalTime() (string, error) }
	imager         interface{ Image() (string, error) }
	hoster         interface{ Host() (string, error) }
	canonicalURLer interface{ CanonicalURL() (string, error) }
	languager      interface{ Language() (string, error) }
	authorer       interface{ Author() (string, error) }
	ratingser      interface{ Ratings() (float64, error) }
	reviewsCounter interface{ ReviewsCount() (int, error) }
	nutrientser    interface {
		Nutrients() (map[string]string, error)
	}
	difficultier interface{ Difficulty() (string, error) }
	prepTimer    interface{ PrepTime() (string, error) }
	cookTimer    interface{ CookTime() (string, error) }
	describer    interface{ Description() (string, error) }
	categorizer  interface{ Category() (string, error) }
	cuisiner     interface{ Cuisine() (string, error) }
	tagger       interface{ Tags() ([]string, error) }
)

// get reads one field off page through capability C. A page lacking the
// capability, an accessor error and an accessor panic all yield def.
func get[C any, T any](page any, field string, def T, read func(C) (T, error)) (v T) {
	c, ok := page.(C)
	if !ok {
		return def
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("recipe field accessor panicked",
				"field", field,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			v = def
		}
	}()

	got, err := read(c)
	if err != nil {
		slog.Debug("recipe field unavailable", "field", field, "error", err)
		return def
	}
	return got
}

// Extract builds a record from a library page. It never fails: every field
// the page cannot supply keeps its default.
func Extract(page any) *models.Recipe {
	rec := models.NewRecipe()

	rec.Title = get(page, "title", "", titler.Title)
	rec.Ingredients = orEmpty(get(page, "ingredients", []string{}, ingredientser.Ingredients))
	rec.Instructions = NormalizeInstructions(get(page, "instructions", any(nil), instructionser.Instructions))
	rec.Yields = get(page, "yields", "", yielder.Yields)
	rec.TotalTime = get(page, "total_time", "", totalTimer.TotalTime)
	rec.Image = get(page, "image", "", imager.Image)
	rec.Host = get(page, "host", "", hoster.Host)
	rec.CanonicalURL = get(page, "canonical_url", "", canonicalURLer.CanonicalURL)
	rec.Language = get(page, "language", "", languager.Language)
	rec.Author = get(page, "author", "", authorer.Author)
	rec.Ratings = get(page, "ratings", (*float64)(nil), func(p ratingser) (*float64, error) {
		v, err := p.Ratings()
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
	rec.ReviewsCount = get(page, "reviews_count", (*int)(nil), func(p reviewsCounter) (*int, error) {
		v, err := p.ReviewsCount()
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
	if nutrients := get(page, "nutrients", map[string]string(nil), nutrientser.Nutrients); nutrients != nil {
		rec.Nutrients = nutrients
	}
	rec.Difficulty = get(page, "difficulty", "", difficultier.Difficulty)
	rec.PrepTime = get(page, "prep_time", "", prepTimer.PrepTime)
	rec.CookTime = get(page, "cook_time", "", cookTimer.CookTime)
	rec.Description = get(page, "description", "", describer.Description)
	rec.Category = get(page, "category", "", categorizer.Category)
	rec.Cuisine = get(page, "cuisine", "", cuisiner.Cuisine)
	rec.Tags = orEmpty(get(page, "tags", []string{}, tagger.Tags))

	return rec
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
