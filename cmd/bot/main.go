package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hvaldez/triviabot/internal/apiclient"
	"github.com/hvaldez/triviabot/internal/chat"
	discordAdapter "github.com/hvaldez/triviabot/internal/chat/discord"
	"github.com/hvaldez/triviabot/internal/config"
	"github.com/hvaldez/triviabot/internal/handlers/commands"
	"github.com/hvaldez/triviabot/internal/repositories/playergame"
	sessionRepo "github.com/hvaldez/triviabot/internal/repositories/session"
	"github.com/hvaldez/triviabot/internal/services/creator"
	"github.com/hvaldez/triviabot/internal/services/game"
	"github.com/hvaldez/triviabot/internal/services/updater"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session repository")
	}

	games, err := playergame.NewRedis(&playergame.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create player game repository")
	}

	api, err := apiclient.New(&apiclient.Config{
		BaseURL:        cfg.API.BaseURL,
		RequestTimeout: cfg.API.RequestTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create API client")
	}

	adapter, err := discordAdapter.New(&discordAdapter.Config{
		Token:  cfg.Discord.Token,
		Logger: log.With().Str("component", "discord").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord adapter")
	}

	gameSvc, err := game.NewService(&game.Config{
		StepTimeout:   cfg.Game.StepTimeout,
		RetryCount:    cfg.API.RetryCount,
		CommandPrefix: cfg.Discord.CommandPrefix,
	}, api, adapter, sessions, games)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game service")
	}

	creatorSvc, err := creator.NewService(&creator.Config{
		StepTimeout:  cfg.Game.WizardTimeout,
		MinQuestions: cfg.Game.MinQuestions,
		MaxQuestions: cfg.Game.MaxQuestions,
		MinAnswers:   cfg.Game.MinAnswers,
		MaxAnswers:   cfg.Game.MaxAnswers,
		RetryCount:   cfg.API.RetryCount,
	}, api, adapter, sessions)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create creator service")
	}

	updaterSvc, err := updater.NewService(&updater.Config{
		StepTimeout: cfg.Game.WizardTimeout,
		RetryCount:  cfg.API.RetryCount,
	}, api, adapter, sessions)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create updater service")
	}

	router, err := commands.NewRouter(&commands.Config{
		Prefix: cfg.Discord.CommandPrefix,
	}, sessions, gameSvc, creatorSvc, updaterSvc, adapter)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create command router")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adapter.OnMessage(func(m *chat.Message) {
		router.Handle(ctx, m)
	})

	if err := adapter.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start Discord adapter")
	}

	log.Info().Msg("bot is running, press CTRL-C to exit")
	<-ctx.Done()

	if err := adapter.Stop(); err != nil {
		log.Error().Err(err).Msg("error stopping Discord adapter")
	}

	log.Info().Msg("bot has been shut down")
}
