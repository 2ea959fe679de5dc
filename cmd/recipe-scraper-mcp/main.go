package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/recipe-scraper/api/handler"
	"github.com/use-agent/recipe-scraper/config"
	"github.com/use-agent/recipe-scraper/models"
	"github.com/use-agent/recipe-scraper/recipe"
	"github.com/use-agent/recipe-scraper/scraper"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	// stdout carries the MCP protocol.
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	sc := scraper.New(cfg.Fetch, cfg.Browser)
	defer sc.Close()

	adapter := recipe.NewAdapter(sc, recipe.Options{
		Validate:          cfg.Scrape.Validate,
		AllowPrivateHosts: cfg.Scrape.AllowPrivateHosts,
	})

	s := newServer(adapter)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(sc handler.Scraper) *server.MCPServer {
	s := server.NewMCPServer(
		"recipe-scraper",
		handler.Version,
		server.WithToolCapabilities(false),
	)

	scrapeRecipeTool := mcp.NewTool("scrape_recipe",
		mcp.WithDescription("Scrape a recipe web page and return a normalized recipe record (title, ingredients, step-by-step instructions, times, yields, nutrition, ...) as JSON. Works on any site publishing schema.org Recipe markup."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the recipe page to scrape"),
		),
	)
	s.AddTool(scrapeRecipeTool, handleScrapeRecipe(sc))

	return s
}

func handleScrapeRecipe(sc handler.Scraper) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		rec, err := sc.Scrape(ctx, url)
		if err != nil {
			se := models.AsScrapeError(err)
			slog.Warn("scrape_recipe failed", "url", url, "code", se.Code, "error", err)
			resp := se.ToResponse()
			return mcp.NewToolResultError(fmt.Sprintf("%s: %s", resp.Code, resp.Error)), nil
		}

		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode recipe: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}
