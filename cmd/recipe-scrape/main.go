package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/use-agent/recipe-scraper/config"
	"github.com/use-agent/recipe-scraper/models"
	"github.com/use-agent/recipe-scraper/recipe"
	"github.com/use-agent/recipe-scraper/scraper"
)

var (
	outFile    string
	noValidate bool
)

var rootCmd = &cobra.Command{
	Use:   "recipe-scrape <url>",
	Short: "Scrape a single recipe page and print it as JSON",
	Long: `recipe-scrape fetches one recipe page, extracts the structured recipe
it publishes and prints the normalized record as indented JSON.

Configuration is read from the environment (and a .env file when present),
the same way the HTTP server reads it.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the record to this file instead of stdout")
	rootCmd.Flags().BoolVar(&noValidate, "no-validate", false, "print records even when title, ingredients or instructions are missing")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	sc := scraper.New(cfg.Fetch, cfg.Browser)
	defer sc.Close()

	adapter := recipe.NewAdapter(sc, recipe.Options{
		Validate:          cfg.Scrape.Validate && !noValidate,
		AllowPrivateHosts: cfg.Scrape.AllowPrivateHosts,
	})

	rec, err := adapter.Scrape(cmd.Context(), args[0])
	if err != nil {
		resp := models.AsScrapeError(err).ToResponse()
		return fmt.Errorf("%s: %s", resp.Code, resp.Error)
	}

	if outFile != "" {
		return writeRecordFile(outFile, rec)
	}
	return writeRecord(cmd.OutOrStdout(), rec)
}

// writeRecordFile writes rec to path. A failed close is a failed write.
func writeRecordFile(path string, rec *models.Recipe) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	if err := writeRecord(f, rec); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeRecord(w io.Writer, rec *models.Recipe) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
