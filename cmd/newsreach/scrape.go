package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsreach/newsreach/internal/app"
	"github.com/newsreach/newsreach/internal/export"
	"github.com/newsreach/newsreach/internal/scraper"
)

// newScrapeCmd creates the 'scrape' subcommand: a one-shot run that writes
// the enriched result set to CSV and JSON files.
func newScrapeCmd() *cobra.Command {
	var (
		urls      string
		urlsFile  string
		keyword   string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs one scrape-and-enrich job and writes the results to disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = cfg.Export.OutputDir
			}

			input := scraper.TriggerInput{Keyword: keyword}
			switch {
			case urls != "":
				input.URLs = splitURLs(urls)
			case urlsFile != "":
				loaded, err := loadURLsFile(urlsFile)
				if err != nil {
					return err
				}
				input.URLs = loaded
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}
			defer a.Close()

			if err := a.Runner.Trigger(cmd.Context(), input); err != nil {
				return fmt.Errorf("trigger run: %w", err)
			}
			for a.Runner.Status().State == scraper.RunStateRunning {
				time.Sleep(200 * time.Millisecond)
			}

			status := a.Runner.Status()
			if status.State == scraper.RunStateError {
				return fmt.Errorf("run failed: %s", status.ErrorMessage)
			}

			records, err := a.Runner.Results(cmd.Context())
			if err != nil {
				return fmt.Errorf("read results: %w", err)
			}
			if err := writeExports(outputDir, records); err != nil {
				return err
			}
			for _, rec := range records {
				fmt.Println(recordSummary(rec))
			}
			fmt.Printf("processed %d record(s), wrote exports to %s\n", len(records), outputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&urls, "urls", "", "comma-separated article URLs")
	cmd.Flags().StringVar(&urlsFile, "urls-file", "", "file containing one URL per line")
	cmd.Flags().StringVar(&keyword, "keyword", "", "keyword seed for URL discovery")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for CSV/JSON exports")
	return cmd
}

func splitURLs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadURLsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open urls file: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read urls file: %w", err)
	}
	return urls, nil
}

// recordSummary renders one result line for the terminal, with the confidence
// shown as a whole percentage.
func recordSummary(rec scraper.Record) string {
	if rec.Email == nil {
		return rec.URL + ": no contact"
	}
	line := rec.URL + ": " + *rec.Email
	if pct := export.FormatConfidence(rec.Confidence); pct != "" {
		line += " (" + pct + ")"
	}
	return line
}

func writeExports(dir string, records []scraper.Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(dir, "enriched_articles.csv"))
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer csvFile.Close()
	if err := export.WriteCSV(csvFile, records); err != nil {
		return err
	}

	jsonFile, err := os.Create(filepath.Join(dir, "enriched_articles.json"))
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer jsonFile.Close()
	return export.WriteJSON(jsonFile, records)
}
