package bootstrap

import (
	"context"
	"log"

	"wspace-be/internal/config"
	"wspace-be/internal/controller"
	"wspace-be/internal/pkg/logger"
	"wspace-be/internal/pkg/serverutils"
	"wspace-be/internal/repository/memory"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/internal/service"
	"wspace-be/pkg/analysis"
	"wspace-be/pkg/events"
	"wspace-be/pkg/i18n"
	"wspace-be/pkg/llm"
	"wspace-be/pkg/llm/factory"
	pktNats "wspace-be/pkg/nats"
	"wspace-be/pkg/notion"
	"wspace-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	SessionController  controller.ISessionController
	ChatController     controller.IChatController
	NoteController     controller.INoteController
	DocumentController controller.IDocumentController
	HealthController   controller.Controller

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger  logger.ILogger
	closers []func()
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	llmLogger := logger.NewIsolatedLogger("logs/llm.log")
	clock := service.Clock(service.SystemClock)
	var closers []func()

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	closers = append(closers, func() { _ = pubSub.Close() })

	// 3. AI
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OpenAIAPIKey:  cfg.Ai.OpenAIAPIKey,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		sysLogger.Error("BOOTSTRAP", "LLM provider unavailable, chat will answer 500", map[string]interface{}{"error": err.Error()})
		llmProvider = llm.Unavailable(err)
	} else {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}
	llmProvider = llm.WithLogging(llmProvider, llmLogger, cfg.Ai.LLMProvider)

	var searcher websearch.Searcher
	if client := websearch.NewClient(cfg.WebSearch.Endpoint, cfg.WebSearch.APIKey); client != nil {
		searcher = websearch.NewCachedSearcher(client, memory.NewSearchCache(cfg.WebSearch.CacheTTL))
	} else {
		log.Printf("[INFO] Web search disabled (SERPER_API_KEY not set)")
	}

	// 4. Infrastructure
	// NATS
	var eventPublisher events.Publisher = events.Discard
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			closers = append(closers, natsPub.Close)
		}
	}

	// Redis
	chatLimiter := serverutils.RateLimiter(serverutils.NewLocalRateLimiter(cfg.RateLimit.ChatPerMinute))
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		chatLimiter = serverutils.NewFallbackRateLimiter(
			serverutils.NewRedisRateLimiter(rdb, cfg.RateLimit.ChatPerMinute),
			chatLimiter,
			sysLogger,
		)
	}

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.AnalysisTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.AnalysisTopic,
		uowFactory,
		analysis.NewAnalyzer(llmProvider),
		notion.NewClient(cfg.Notion.BaseURL, cfg.Notion.Version),
		eventPublisher,
		sysLogger,
		clock,
	)

	authService := service.NewAuthService(uowFactory, cfg.Auth.JwtSecret, cfg.Auth.TokenTTL, eventPublisher, sysLogger, clock)
	userService := service.NewUserService(uowFactory)
	sessionService := service.NewSessionService(uowFactory, i18n.NewResolver(cfg.App.DefaultLocale), eventPublisher, sysLogger, clock)
	chatService := service.NewChatService(uowFactory, sessionService, llmProvider, searcher, eventPublisher, sysLogger, clock)
	noteService := service.NewNoteService(uowFactory, publisherService, clock)
	documentService := service.NewDocumentService(uowFactory, publisherService, clock)

	// 6. Controllers
	auth := serverutils.JwtMiddleware(cfg.Auth.JwtSecret)
	rateLimit := serverutils.RateLimitMiddleware(chatLimiter, sysLogger)
	authRateLimit := serverutils.RateLimitMiddleware(serverutils.NewLocalRateLimiter(cfg.RateLimit.AuthPerMinute), sysLogger)

	checks := map[string]controller.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if natsPub != nil {
		checks["nats"] = func(context.Context) error { return natsPub.Ping() }
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	return &Container{
		AuthController:     controller.NewAuthController(authService, authRateLimit),
		UserController:     controller.NewUserController(userService, auth),
		SessionController:  controller.NewSessionController(sessionService, auth),
		ChatController:     controller.NewChatController(chatService, auth, rateLimit),
		NoteController:     controller.NewNoteController(noteService, auth),
		DocumentController: controller.NewDocumentController(documentService, auth),
		HealthController:   controller.NewHealthController(checks),

		ConsumerService: consumerService,
		Logger:          sysLogger,
		closers:         closers,
	}
}
