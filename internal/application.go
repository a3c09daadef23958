package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/multigame-backend/internal/agent"
	"github.com/rocketscienceinc/multigame-backend/internal/config"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
	"github.com/rocketscienceinc/multigame-backend/internal/notifier"
	"github.com/rocketscienceinc/multigame-backend/internal/repository"
	"github.com/rocketscienceinc/multigame-backend/internal/repository/storage"
	"github.com/rocketscienceinc/multigame-backend/internal/rules"
	"github.com/rocketscienceinc/multigame-backend/internal/service"
	"github.com/rocketscienceinc/multigame-backend/internal/usecase"
	"github.com/rocketscienceinc/multigame-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	archive, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open archive: %w", err)
	}

	defer func() {
		if err = archive.Close(); err != nil {
			log.Error("could not close archive", "error", err)
		}
	}()

	if err = archive.Init(ctx); err != nil {
		return fmt.Errorf("could not initialize archive: %w", err)
	}

	mode, err := entity.ParseMode(conf.Engine.PenteMode)
	if err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	variants := entity.DefaultVariants().WithMode(mode)
	ruleBook := rules.NewRegistry(variants)

	events := notifier.NewRedis(logger, redisStorage.Connection, conf.Engine.EventChannel, conf.Engine.EventBuffer)
	locker := service.NewLocker(conf.Engine.LockTimeout)

	gameService := service.NewGameService(logger,
		repository.NewGameRepository(redisStorage.Connection),
		repository.NewArchiveRepository(archive.Connection),
		conf.Engine.FinishedGameTTL,
	)
	playerService := service.NewPlayerService(repository.NewPlayerRepository(redisStorage.Connection))
	matchmaker := service.NewMatchmaker(logger, gameService, playerService, ruleBook, events, locker, variants)
	gamePlayService := service.NewGamePlayService(logger, gameService, playerService, ruleBook, events, locker, variants)
	gameUseCase := usecase.NewGameUseCase(logger, matchmaker, gameService, gamePlayService)

	bots := agent.New(logger, gameService, gamePlayService, conf.Engine.AgentDelay, conf.Engine.EventBuffer)

	subscription, err := events.Subscribe(ctx, bots.Handle)
	if err != nil {
		return fmt.Errorf("could not subscribe agent to events: %w", err)
	}
	defer subscription.Close()

	health := func(ctx context.Context) error {
		return redisStorage.Connection.Ping(ctx).Err()
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return events.Run(groupCtx)
	})

	group.Go(func() error {
		return bots.Run(groupCtx)
	})

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(groupCtx, conf.HTTPPort, rest.NewRouter(logger, gameUseCase, health)); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
