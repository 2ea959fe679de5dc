package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/use-agent/recipe-scraper/api"
	"github.com/use-agent/recipe-scraper/config"
	"github.com/use-agent/recipe-scraper/recipe"
	"github.com/use-agent/recipe-scraper/scraper"
	"github.com/use-agent/recipe-scraper/serverless"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(cfg.Log.NewLogger(os.Stdout))

	sc := scraper.New(cfg.Fetch, cfg.Browser)
	adapter := recipe.NewAdapter(sc, recipe.Options{
		Validate:          cfg.Scrape.Validate,
		AllowPrivateHosts: cfg.Scrape.AllowPrivateHosts,
	})
	router := api.NewRouter(adapter, cfg, sc.BrowserEnabled(), time.Now())

	slog.Info("recipe-scraper lambda starting", "browser", cfg.Browser.Enabled)
	lambda.Start(serverless.NewHandler(router).Handle)
}
