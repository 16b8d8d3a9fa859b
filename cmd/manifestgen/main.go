// Command manifestgen writes config.json for a vocabulary directory and
// optionally imports every topic into PostgreSQL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/infra/postgres"
	pgrepo "github.com/myfrench/myfrench-bot/internal/infra/postgres/repository"
	"github.com/myfrench/myfrench-bot/internal/repository"
)

func main() {
	var (
		dir         = flag.StringP("dir", "d", "vocabulary", "directory with topic files")
		sourceField = flag.String("source-field", "french", "word key holding the learned term")
		importDB    = flag.Bool("import", false, "import topics into PostgreSQL (DATABASE_URL)")
		dryRun      = flag.Bool("dry-run", false, "print the manifest instead of writing it")
		verbose     = flag.BoolP("verbose", "v", false, "debug logging")
	)
	flag.Parse()

	lg := zap.Must(newLogger(*verbose))
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, lg, *dir, *sourceField, *importDB, *dryRun); err != nil {
		lg.Error("manifestgen failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func run(ctx context.Context, lg *zap.Logger, dir, sourceField string, importDB, dryRun bool) error {
	if dryRun {
		ids, err := repository.ListTopicFiles(dir)
		if err != nil {
			return fmt.Errorf("list topics: %w", err)
		}
		data, err := repository.EncodeManifest(repository.OrderTopics(ids))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	ordered, err := repository.WriteManifest(dir)
	if err != nil {
		return err
	}
	lg.Info("manifest written",
		zap.String("dir", dir),
		zap.Int("topics", len(ordered)),
	)

	if !importDB {
		return nil
	}
	return importTopics(ctx, lg, dir, sourceField)
}

// importTopics loads every manifest topic from dir and upserts it with its words.
func importTopics(ctx context.Context, lg *zap.Logger, dir, sourceField string) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{})
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	repo := pgrepo.NewVocabularyRepository(pool, postgres.NewTransactor(pool))
	src := repository.NewDirSource(dir, sourceField)

	metas, err := src.LoadManifest(ctx)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	for i, meta := range metas {
		data, err := src.LoadTopicWords(ctx, meta.SourceFile)
		if err != nil {
			return fmt.Errorf("read topic %s: %w", meta.ID, err)
		}
		if err := repo.ImportTopic(ctx, i, meta, data); err != nil {
			return err
		}
		lg.Debug("topic imported",
			zap.String("topic_id", meta.ID),
			zap.Int("words", len(data.Words)),
		)
	}

	lg.Info("topics imported", zap.Int("topics", len(metas)))
	return nil
}
