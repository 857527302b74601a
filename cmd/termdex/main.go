// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/termdex"
	"github.com/poiesic/termdex/ai"
	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	databaseFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}

	app := &cli.App{
		Name:   "termdex",
		Usage:  "Terminology registry with hybrid search for transcription correction",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Ingest a JSON term list ([{name, category, aliases}])",
				ArgsUsage: "FILE",
				Action:    uploadCommand,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "rebuild-db",
						Usage: "Rebuild the index after merging",
						Value: true,
					},
				}, databaseFlags...),
			},
			{
				Name:      "extract",
				Usage:     "List the registry terms found in a text file",
				ArgsUsage: "FILE",
				Action:    extractCommand,
				Flags:     databaseFlags,
			},
			{
				Name:      "batch",
				Usage:     "Extract and ingest every text document in a folder",
				ArgsUsage: "FOLDER",
				Action:    batchCommand,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "rebuild-db",
						Usage: "Rebuild the index after merging",
						Value: true,
					},
				}, databaseFlags...),
			},
			{
				Name:      "search",
				Usage:     "Run a ranked terminology lookup",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Query mode (exact, fuzzy, semantic, hybrid)",
						Value:   "hybrid",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				}, databaseFlags...),
			},
			{
				Name:   "stats",
				Usage:  "Show registry statistics",
				Action: statsCommand,
				Flags:  databaseFlags,
			},
			{
				Name:      "add",
				Usage:     "Add a custom term",
				ArgsUsage: "NAME",
				Action:    addCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Term category",
					},
					&cli.StringSliceFlag{
						Name:  "alias",
						Usage: "Alias for the term (repeatable)",
					},
				}, databaseFlags...),
			},
			{
				Name:      "delete",
				Usage:     "Delete a custom term",
				ArgsUsage: "NAME",
				Action:    deleteCommand,
				Flags:     databaseFlags,
			},
			{
				Name:      "correct",
				Usage:     "Correct a window of transcript tokens",
				ArgsUsage: "TOKEN...",
				Action:    correctCommand,
				Flags:     databaseFlags,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*termdex.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := termdex.NewDatabase(c.String("db"), termdex.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func uploadCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one term list file")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	var records []ingestion.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse term list: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := db.IngestRecords(context.Background(), records, &ingestion.IngestOptions{
		DeferRebuild: !c.Bool("rebuild-db"),
	})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func extractCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one text file")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	terms, err := db.ExtractTerms(context.Background(), string(data))
	if err != nil {
		return err
	}

	for _, term := range terms {
		fmt.Printf("%s\t%s\t%s\n", term.Name, term.Category, strings.Join(term.Aliases, ","))
	}
	return nil
}

func batchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document folder")
	}
	folder := c.Args().First()

	entries, err := os.ReadDir(folder)
	if err != nil {
		return err
	}

	var documents []ingestion.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".txt", ".md":
		default:
			continue
		}
		data, err := os.ReadFile(filepath.Join(folder, entry.Name()))
		if err != nil {
			return err
		}
		documents = append(documents, ingestion.Document{Name: entry.Name(), Text: string(data)})
	}
	if len(documents) == 0 {
		return fmt.Errorf("no text documents found in %s", folder)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := db.IngestDocuments(context.Background(), documents, &ingestion.IngestOptions{
		DeferRebuild: !c.Bool("rebuild-db"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Documents: %d\n", len(documents))
	printReport(report)
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.Search(context.Background(), c.Args().First(), c.String("mode"), c.Int("limit"))
	if err != nil {
		return err
	}

	if result.Stale {
		fmt.Fprintln(os.Stderr, "warning: index is stale, results predate the latest registry change")
	}
	for _, match := range result.Matches {
		fmt.Printf("%.4f\t%s\t%s\t%s\n",
			match.Score, match.Term.Name, match.Term.Category, strings.Join(match.Term.Aliases, ","))
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats := db.Stats()
	fmt.Printf("Total terms:    %d\n", stats.TotalTerms)
	fmt.Printf("Built-in terms: %d\n", stats.BuiltinTerms)
	fmt.Printf("Custom terms:   %d\n", stats.CustomTerms)

	categories := make([]string, 0, len(stats.Categories))
	for category := range stats.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Printf("  %s: %d\n", category, stats.Categories[category])
	}
	return nil
}

func addCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one term name")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	term := &core.Term{
		Name:     c.Args().First(),
		Category: c.String("category"),
		Aliases:  c.StringSlice("alias"),
		Origin:   core.OriginCustom,
	}
	if err := db.AddTerm(context.Background(), term); err != nil {
		return err
	}

	fmt.Printf("added %s\n", core.NormalizeKey(term.Name))
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one term name")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	name := c.Args().First()
	if err := db.DeleteTerm(context.Background(), name); err != nil {
		return err
	}

	fmt.Printf("deleted %s\n", core.NormalizeKey(name))
	return nil
}

func correctCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("expected at least one token")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	corrected, audit, err := db.Correct(context.Background(), c.Args().Slice())
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(corrected, " "))
	for _, change := range audit {
		fmt.Fprintf(os.Stderr, "%s -> %s (%.4f)\n", change.Original, change.Replacement, change.Score)
	}
	return nil
}

func printReport(report *ingestion.IngestReport) {
	fmt.Printf("Processed: %d\n", report.ProcessedCount)
	fmt.Printf("Added:     %d\n", len(report.AddedTerms))
	for _, name := range report.AddedTerms {
		fmt.Printf("  + %s\n", name)
	}
	fmt.Printf("Skipped:   %d\n", len(report.SkippedTerms))
	for _, name := range report.SkippedTerms {
		fmt.Printf("  = %s\n", name)
	}
	if len(report.Malformed) > 0 {
		fmt.Printf("Malformed: %d\n", len(report.Malformed))
		for _, bad := range report.Malformed {
			fmt.Printf("  ! %q: %v\n", bad.Name, bad.Err)
		}
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
