package main // Entry point package

import (
	"log" // Logging library
	"os"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework
	openai "github.com/sashabaranov/go-openai"

	"github.com/iliyamo/pdf-chat/internal/config"
	"github.com/iliyamo/pdf-chat/internal/database"
	"github.com/iliyamo/pdf-chat/internal/handler"
	"github.com/iliyamo/pdf-chat/internal/mail"
	"github.com/iliyamo/pdf-chat/internal/middleware"
	"github.com/iliyamo/pdf-chat/internal/queue"
	"github.com/iliyamo/pdf-chat/internal/rag"
	"github.com/iliyamo/pdf-chat/internal/repository"
	"github.com/iliyamo/pdf-chat/internal/router"
	queue_publisher "github.com/iliyamo/pdf-chat/internal/service"
	"github.com/iliyamo/pdf-chat/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environment wins
	cfg := config.Load()

	// Mail + notification dispatch.  The consumer goroutine only runs when
	// a broker is configured; without one the dispatcher sends directly.
	mailer, err := mail.NewMailer(config.LoadMailConfig())
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}
	dispatcher := queue_publisher.NewDispatcher(mailer)
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		go func() {
			if err := queue.StartNotificationConsumer(mailer); err != nil {
				log.Printf("notification consumer stopped: %v", err)
			}
		}()
	}

	// Model collaborators share one API client.
	client := openai.NewClient(cfg.OpenAIAPIKey)
	embedder := rag.NewOpenAIEmbedder(client, cfg.EmbedModel)
	llm := rag.NewOpenAIChat(client, cfg.ChatModel)

	sessions := session.NewStore()

	e := echo.New()
	e.Use(middleware.Session(sessions)) // every visitor gets a workspace

	router.RegisterRoutes(e)
	if cfg.AuthMode != config.ModeNone {
		var accounts repository.AccountStore
		switch cfg.AccountDriver {
		case "mysql":
			db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				log.Fatalf("open account database: %v", err)
			}
			accounts = repository.NewMySQLStore(db)
		default:
			fileStore, err := repository.NewFileStore(cfg.AccountFile)
			if err != nil {
				log.Fatalf("open account file store: %v", err)
			}
			accounts = fileStore
		}

		confirmLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())
		router.RegisterAuth(e, handler.NewAuthHandler(cfg, accounts, dispatcher), cfg, confirmLimiter)
	}
	router.RegisterChat(e, handler.NewChatHandler(embedder, llm), cfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s mode=%s)", addr, cfg.Env, cfg.AuthMode)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
