package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"

	"github.com/blackpirateapps/reader/internal/config"
	"github.com/blackpirateapps/reader/internal/fetcher"
	"github.com/blackpirateapps/reader/internal/hackernews"
	"github.com/blackpirateapps/reader/internal/reporter"
	"github.com/blackpirateapps/reader/internal/scraper"
	"github.com/blackpirateapps/reader/internal/server"
	"github.com/blackpirateapps/reader/internal/storage"
	"github.com/blackpirateapps/reader/internal/summary"
)

func main() {
	if config.Get().AuthKey == "" {
		log.Printf("[ERROR] auth_key is required")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := sqlx.Connect("postgres", config.Get().DatabaseDSN)
	if err != nil {
		log.Printf("[ERROR] failed to connect to db: %v", err)
		return
	}
	defer db.Close()

	if err := storage.EnsureSchema(ctx, db); err != nil {
		log.Printf("[ERROR] failed to ensure schema: %v", err)
		return
	}

	var rep *reporter.Reporter
	if config.Get().TelegramBotToken != "" {
		botAPI, err := tgbotapi.NewBotAPI(config.Get().TelegramBotToken)
		if err != nil {
			log.Printf("[ERROR] failed to create botAPI: %v", err)
			return
		}
		rep = reporter.New(botAPI, config.Get().TelegramAdminChatID)
		log.Printf("[INFO] telegram failure reports enabled")
	}

	var (
		articleStorage   = storage.NewArticleStore(db)
		highlightStorage = storage.NewHighlightStore(db)
		feedStorage      = storage.NewFeedStore(db)
		scr              = scraper.New(config.Get().ScrapeTimeout, config.Get().UserAgent)
		refresher        = fetcher.New(
			feedStorage,
			feedStorage,
			config.Get().ScrapeTimeout,
			config.Get().UserAgent,
			rep,
		)
		news = hackernews.NewClient(config.Get().HNBaseURL, &http.Client{Timeout: config.Get().ScrapeTimeout})
	)

	var summarizer summary.Summarizer
	switch config.Get().AIType {
	case "openai":
		if config.Get().AIKey == "" {
			log.Printf("[ERROR] ai_key is required when ai_type is \"openai\"")
			return
		}
		summarizer = summary.NewOpenAISummarizer(
			config.Get().AIBaseURL,
			config.Get().AIKey,
			config.Get().AIPrompt,
			config.Get().AIModel,
			config.Get().AITimeout,
		)
		log.Printf("[INFO] using OpenAI-compatible summarizer (model: %s)", config.Get().AIModel)
	case "ollama":
		if config.Get().AIBaseURL == "" {
			log.Printf("[ERROR] ai_base_url is required when ai_type is \"ollama\"")
			return
		}
		summarizer = summary.NewOllamaSummarizer(
			config.Get().AIBaseURL,
			config.Get().AIPrompt,
			config.Get().AIModel,
			config.Get().AITimeout,
		)
		log.Printf("[INFO] using Ollama summarizer (model: %s)", config.Get().AIModel)
	default:
		log.Printf("[INFO] no summarizer configured")
	}

	srv := server.New(
		config.Get().AuthKey,
		articleStorage,
		highlightStorage,
		feedStorage,
		scr,
		refresher,
		news,
		summarizer,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	srv.Register(e)

	go func() {
		if err := e.Start(config.Get().ListenAddr); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[ERROR] failed to run http server: %v", err)
				cancel()
				return
			}

			log.Printf("[INFO] http server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] failed to shut down http server: %v", err)
	}
}
