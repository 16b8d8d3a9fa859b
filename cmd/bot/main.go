package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/myfrench/myfrench-bot/internal/config"
	"github.com/myfrench/myfrench-bot/internal/delivery/telegram"
	"github.com/myfrench/myfrench-bot/internal/infra/postgres"
	pgrepo "github.com/myfrench/myfrench-bot/internal/infra/postgres/repository"
	"github.com/myfrench/myfrench-bot/internal/infra/redis"
	"github.com/myfrench/myfrench-bot/internal/logger"
	"github.com/myfrench/myfrench-bot/internal/media"
	"github.com/myfrench/myfrench-bot/internal/repository"
	"github.com/myfrench/myfrench-bot/internal/service"
	"github.com/myfrench/myfrench-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}
	bot.Debug = cfg.Telegram.Debug

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, cleanup, err := newSource(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to init vocabulary source", zap.Error(err))
	}
	defer cleanup()

	mediaBase := cfg.Media.BaseURL
	if mediaBase == "" {
		mediaBase = cfg.Vocabulary.BaseURL
	}
	resolver := media.NewResolver(mediaBase, cfg.Media.AudioLang, cfg.Media.Images)
	store := storage.NewTopicStore(source, resolver, lg)

	loop := service.NewLoop(64)
	defer loop.Close()

	quizCfg := service.QuizConfig{
		Rounds:       cfg.Quiz.Rounds,
		Countdown:    cfg.Quiz.Countdown,
		Tick:         cfg.Quiz.Tick,
		CorrectDelay: cfg.Quiz.CorrectDelay,
		WrongDelay:   cfg.Quiz.WrongDelay,
	}

	renderer := telegram.NewRenderer(bot, cfg.Telegram.ChatID, lg)
	controller := service.NewController(
		store,
		renderer,
		loop,
		quizCfg,
		service.NewOptionGenerator(nil),
		cfg.UILanguage(),
		lg,
	)

	refresher := service.NewManifestRefresher(store, cfg.Vocabulary.ManifestRefresh, lg)
	handler := telegram.NewHandler(bot, lg, controller, renderer, loop.Events())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return refresher.Start(gctx) })
	g.Go(func() error { return handler.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("bot stopped", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}

// newSource builds the configured vocabulary source, cached in Redis when enabled.
func newSource(ctx context.Context, cfg *config.Config, lg *zap.Logger) (storage.VocabularySource, func(), error) {
	var (
		source  storage.VocabularySource
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Vocabulary.Source {
	case config.SourceFS:
		source = repository.NewDirSource(cfg.Vocabulary.Dir, cfg.Vocabulary.SourceField)
	case config.SourcePostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, cleanup, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		source = pgrepo.NewVocabularyRepository(pool, postgres.NewTransactor(pool))
	default:
		source = repository.NewHTTPSource(cfg.Vocabulary.BaseURL, cfg.Vocabulary.SourceField, cfg.HTTP.Timeout)
	}

	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		source = redis.NewCachedSource(source, rdb, cfg.Redis.TTL, lg)
	}

	lg.Info("vocabulary source ready",
		zap.String("source", cfg.Vocabulary.Source),
		zap.Bool("cache", cfg.Redis.Enabled()),
	)
	return source, cleanup, nil
}
