package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/vuminh/eduai-server/pkg/api"
	"github.com/vuminh/eduai-server/pkg/audio"
	"github.com/vuminh/eduai-server/pkg/catalog"
	"github.com/vuminh/eduai-server/pkg/logger"
	"github.com/vuminh/eduai-server/pkg/openai"
	"github.com/vuminh/eduai-server/pkg/recorder"
	"github.com/vuminh/eduai-server/pkg/repository"
	"github.com/vuminh/eduai-server/pkg/services"
	"github.com/vuminh/eduai-server/pkg/storage"
	"github.com/vuminh/eduai-server/pkg/workers"
)

type Config struct {
	OpenAIToken string `env:"OPENAI_API_KEY,required"`
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":8080"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"eduai.db"`
	AudioOutDir string `env:"AUDIO_OUT_DIR" envDefault:"speech"`
	ChatModel   string `env:"CHAT_MODEL" envDefault:"gpt-4o-search-preview"`
	QuizModel   string `env:"QUIZ_MODEL" envDefault:"gpt-4o-mini"`
	TTSModel    string `env:"TTS_MODEL" envDefault:"tts-1"`
	TTSVoice    string `env:"TTS_VOICE" envDefault:"nova"`
	MicDevice   string `env:"MIC_DEVICE" envDefault:"default"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, slog.LevelDebug)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, cleanup, err := setupWorkers()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Run(ctx)
}

func setupWorkers() (workers.Group, func(), error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing env config: %w", err)
	}

	store, err := storage.NewSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session storage: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Error("closing session storage", logger.Err(err))
		}
	}

	chatClient, err := openai.NewChatClient(cfg.OpenAIToken, cfg.ChatModel)
	if err != nil {
		return nil, nil, fmt.Errorf("creating chat client: %w", err)
	}
	quizClient, err := openai.NewQuizClient(cfg.OpenAIToken, cfg.QuizModel)
	if err != nil {
		return nil, nil, fmt.Errorf("creating quiz client: %w", err)
	}
	speechClient, err := openai.NewSpeechClient(cfg.OpenAIToken, cfg.TTSModel, cfg.TTSVoice)
	if err != nil {
		return nil, nil, fmt.Errorf("creating speech client: %w", err)
	}

	courseCatalog := catalog.New()

	sessionRepository := repository.NewSessionRepository()
	sessionService := services.NewSessionService(sessionRepository, store, courseCatalog)
	sessionService.Restore(context.Background())

	chatService := services.NewChatService(sessionService, courseCatalog, chatClient)
	quizService := services.NewQuizService(quizClient)
	speechService := services.NewSpeechService(speechClient, audio.NewFileOutput(cfg.AudioOutDir))

	recorderController := recorder.NewController(recorder.NewFFmpegMicrophone(cfg.MicDevice))

	router := api.NewRouter(
		courseCatalog,
		sessionService,
		chatService,
		quizService,
		speechService,
		recorderController,
	)

	var workerGroup workers.Group

	apiServer, err := workers.NewAPIServer(cfg.ServerAddr, router)
	if err != nil {
		return nil, nil, fmt.Errorf("creating api server: %w", err)
	}
	workerGroup = append(workerGroup, apiServer)

	return workerGroup, cleanup, nil
}
