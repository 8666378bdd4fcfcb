package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"reelsearch/backend/internal/ai"
	"reelsearch/backend/internal/app"
	"reelsearch/backend/internal/config"
	"reelsearch/backend/internal/database"
	"reelsearch/backend/internal/ingest"
	"reelsearch/backend/internal/repository"
	"reelsearch/backend/internal/tmdb"
	"reelsearch/backend/internal/vector"
)

func main() {
	cliApp := &cli.App{
		Name:  "indexer",
		Usage: "fetch the movie catalog and build the similarity index",
		Commands: []*cli.Command{
			fetchCommand(),
			indexCommand(),
			setupCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		slog.Error("Indexer failed", "error", err)
		os.Exit(1)
	}
}

func pagesFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "pages",
		Usage: "number of TMDB discover pages to fetch",
		Value: 0,
	}
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "download movie metadata from TMDB into the local catalog",
		Flags: []cli.Flag{pagesFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runFetch(c, cfg)
		},
	}
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "embed the catalog and upsert it into the vector index",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runIndex(c, cfg)
		},
	}
}

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "fetch the catalog and build the index in one go",
		Flags: []cli.Flag{pagesFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := runFetch(c, cfg); err != nil {
				return err
			}
			return runIndex(c, cfg)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	app.SetupLogger(cfg.LogLevel)
	return cfg, nil
}

func runFetch(c *cli.Context, cfg *config.Config) error {
	if cfg.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is not set")
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := repository.NewSQLiteRepository(db)
	client := tmdb.NewClient(cfg.TMDBAPIKey)

	fetcher := ingest.NewFetcher(client, repo)
	if pages := c.Int("pages"); pages > 0 {
		fetcher = ingest.NewFetcherWithPages(client, repo, pages, 300*time.Millisecond)
	}

	count, err := fetcher.Fetch(c.Context)
	if err != nil {
		return err
	}

	total, err := repo.CountMovies(c.Context)
	if err != nil {
		return fmt.Errorf("could not count catalog records: %w", err)
	}
	slog.Info("Fetch completed", "staged", count, "catalog_total", total)
	return nil
}

func runIndex(c *cli.Context, cfg *config.Config) error {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	embedder, err := ai.NewOpenAIEmbedder(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}

	index, err := vector.NewIndex(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection)
	if err != nil {
		return err
	}
	defer index.Close()

	repo := repository.NewSQLiteRepository(db)
	indexer := ingest.NewIndexer(repo, embedder, index)

	count, err := indexer.BuildIndex(c.Context)
	if err != nil {
		return err
	}
	slog.Info("Index build completed", "movies", count)
	return nil
}
