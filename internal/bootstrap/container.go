package bootstrap

import (
	"context"
	"fmt"
	"log"

	"pdf-toolbox-bot/internal/config"
	"pdf-toolbox-bot/internal/controller"
	"pdf-toolbox-bot/internal/handler"
	"pdf-toolbox-bot/internal/messenger"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/pkg/mailer"
	"pdf-toolbox-bot/internal/repository/contract"
	"pdf-toolbox-bot/internal/repository/implementation"
	"pdf-toolbox-bot/internal/repository/memory"
	"pdf-toolbox-bot/internal/service"
	"pdf-toolbox-bot/internal/websocket"
	"pdf-toolbox-bot/pkg/convert"
	"pdf-toolbox-bot/pkg/convert/tesseract"
	pktNats "pdf-toolbox-bot/pkg/nats"
	"pdf-toolbox-bot/pkg/session"
	"pdf-toolbox-bot/pkg/tempfs"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	operationsTopic  = "operations"
	recentOperations = 1000
)

type Container struct {
	Bot             *bot.Bot
	Dispatcher      *handler.Dispatcher
	Logger          *logger.ZapLogger
	AdminController controller.IAdminController

	// Background work, run from main.go.
	ConsumerService service.IConsumerService
	StatsService    service.IStatsService
	WebSocketHub    *websocket.Hub
	Workspace       *tempfs.Workspace
	Sessions        *memory.SessionRepository

	closers []func()
}

// Close releases broker connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

type repositories struct {
	prefs       contract.UserPreferenceRepository
	subscribers contract.SubscriberRepository
	operations  contract.OperationLogRepository
}

func newRepositories(db *gorm.DB) repositories {
	if db == nil {
		return repositories{
			prefs:       memory.NewUserPreferenceRepository(),
			subscribers: memory.NewSubscriberRepository(),
			operations:  memory.NewOperationLogRepository(recentOperations),
		}
	}
	return repositories{
		prefs:       implementation.NewUserPreferenceRepository(db),
		subscribers: implementation.NewSubscriberRepository(db),
		operations:  implementation.NewOperationLogRepository(db),
	}
}

// NewContainer wires the bot. db may be nil, in which case state lives in
// memory and is lost on restart.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	c.Logger = sysLogger

	alerts := mailer.NewAlertMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.AlertTo,
	)

	workspace, err := tempfs.New(cfg.Files.TempDir, cfg.MaxFileSize())
	if err != nil {
		return nil, err
	}
	c.Workspace = workspace

	// 2. Job queue
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Optional infrastructure
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.Infra.NatsURL != "" {
		if natsPub, err = pktNats.NewPublisher(cfg.Infra.NatsURL); err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
		if natsSub, err = pktNats.NewSubscriber(cfg.Infra.NatsURL); err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.Infra.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.Infra.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Infra.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	// 4. Sessions
	c.Sessions = memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.PurgeInterval, func(s *session.Session) {
		workspace.Cleanup(inputPaths(s.Inputs)...)
		sysLogger.Debug("Session", "Session expired", map[string]interface{}{
			"user_id": s.UserID,
			"state":   s.State(),
		})
	})
	tracker := session.NewTracker(c.Sessions,
		session.WithMaxInputs(session.FeatureMerge, cfg.Files.MaxPDFsToMerge),
		session.WithMaxInputs(session.FeatureImagesToPDF, cfg.Files.MaxImagesPerPDF),
		session.WithDiscardFunc(func(_ int64, inputs []session.Input) {
			workspace.Cleanup(inputPaths(inputs)...)
		}),
	)

	// 5. Telegram. Updates go through a per-user queue to the bot handler,
	// which is bound once it exists.
	var botHandler *handler.BotHandler
	dispatcher := handler.NewDispatcher(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		botHandler.Handle(ctx, b, update)
	})
	c.Dispatcher = dispatcher
	opts := dispatcher.Options()
	if cfg.Bot.WebhookSecret != "" {
		opts = append(opts, bot.WithWebhookSecretToken(cfg.Bot.WebhookSecret))
	}
	b, err := bot.New(cfg.Bot.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	c.Bot = b
	out := messenger.NewTelegram(b)

	// 6. Services
	repos := newRepositories(db)
	preferenceService := service.NewPreferenceService(repos.prefs, cfg.App.DefaultLanguage, sysLogger)
	subscriberService := service.NewSubscriberService(repos.subscribers, out, sysLogger)
	statsService := service.NewStatsService(repos.operations, repos.prefs, repos.subscribers, c.Sessions, natsSub, sysLogger)
	rateLimiter := service.NewRateLimiter(cfg.RateLimit.Enabled, cfg.RateLimit.MaxOperationsPerHour, rdb, sysLogger)
	publisherService := service.NewPublisherService(operationsTopic, pubSub)
	operationService := service.NewOperationService(publisherService, sysLogger)
	c.StatsService = statsService

	wsHub := websocket.NewHub(rdb, feedLogger)
	c.WebSocketHub = wsHub

	engine := convert.NewEngine(convert.Config{
		OCRLanguage:     cfg.Tools.OCRLanguage,
		OCRTimeout:      cfg.Tools.OCRTimeout,
		ToolTimeout:     cfg.Tools.ToolTimeout,
		SofficePath:     cfg.Tools.SofficePath,
		WkhtmltopdfPath: cfg.Tools.WkhtmltopdfPath,
		PdftoppmPath:    cfg.Tools.PdftoppmPath,
		GhostscriptPath: cfg.Tools.GhostscriptPath,
		JPGDPI:          cfg.Tools.JPGDPI,
	}, workspace, tesseract.New())

	deps := service.ConsumerDeps{
		Subscriber: pubSub,
		TopicName:  operationsTopic,
		Workers:    cfg.Tools.Workers,
		Engine:     engine,
		Workspace:  workspace,
		Out:        out,
		Operations: operationService,
		Stats:      statsService,
		Feed:       wsHub,
		Mailer:     alerts,
		Menu:       handler.MainMenu,
		Logger:     sysLogger,
	}
	if natsPub != nil {
		deps.Events = natsPub
	}
	c.ConsumerService = service.NewConsumerService(deps)

	botHandler = handler.NewBotHandler(
		handler.BotConfig{
			MaxFileSize:     cfg.MaxFileSize(),
			AdminIDs:        cfg.Bot.AdminIDs,
			SupportUsername: cfg.Bot.SupportUsername,
			Disabled:        disabledFeatures(cfg.Features),
			ComingSoon:      cfg.Features.ComingSoon,
		},
		tracker,
		operationService,
		preferenceService,
		subscriberService,
		statsService,
		rateLimiter,
		workspace,
		out,
		sysLogger,
	)

	// 7. Admin API
	adminService := service.NewAdminService(
		cfg.Admin.PasswordHash,
		cfg.Admin.JWTSecret,
		statsService,
		subscriberService,
		sysLogger,
		sysLogger,
	)
	c.AdminController = controller.NewAdminController(adminService, wsHub, cfg.Admin.JWTSecret)

	return c, nil
}

func disabledFeatures(f config.FeatureFlags) map[session.Feature]bool {
	return map[session.Feature]bool{
		session.FeatureOCR:       !f.OCR,
		session.FeaturePDFToWord: !f.PDFToWord,
		session.FeatureHTMLToPDF: !f.HTMLToPDF,
	}
}

func inputPaths(inputs []session.Input) []string {
	paths := make([]string, 0, len(inputs))
	for _, in := range inputs {
		paths = append(paths, in.Path)
	}
	return paths
}
