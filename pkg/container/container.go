package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"quilltips-backend/internal/config"
	infraCache "quilltips-backend/internal/infrastructure/cache"
	"quilltips-backend/internal/infrastructure/database"
	"quilltips-backend/internal/infrastructure/email"
	"quilltips-backend/internal/infrastructure/storage"
	"quilltips-backend/pkg/cache"
	"quilltips-backend/pkg/jwt"

	accountHandler "quilltips-backend/internal/domains/account/handler"
	accountRepo "quilltips-backend/internal/domains/account/repository"
	accountService "quilltips-backend/internal/domains/account/service"
	"quilltips-backend/internal/domains/account/session"
	analyticsHandler "quilltips-backend/internal/domains/analytics/handler"
	analyticsRepo "quilltips-backend/internal/domains/analytics/repository"
	analyticsService "quilltips-backend/internal/domains/analytics/service"
	"quilltips-backend/internal/domains/author/draft"
	authorHandler "quilltips-backend/internal/domains/author/handler"
	authorRepo "quilltips-backend/internal/domains/author/repository"
	authorService "quilltips-backend/internal/domains/author/service"
	bookHandler "quilltips-backend/internal/domains/book/handler"
	bookRepo "quilltips-backend/internal/domains/book/repository"
	bookService "quilltips-backend/internal/domains/book/service"
	checkoutHandler "quilltips-backend/internal/domains/checkout/handler"
	checkoutService "quilltips-backend/internal/domains/checkout/service"
	checkoutStripe "quilltips-backend/internal/domains/checkout/stripe"
	qrHandler "quilltips-backend/internal/domains/qrcode/handler"
	qrRepo "quilltips-backend/internal/domains/qrcode/repository"
	qrService "quilltips-backend/internal/domains/qrcode/service"
	tipHandler "quilltips-backend/internal/domains/tip/handler"
	tipRepo "quilltips-backend/internal/domains/tip/repository"
	tipService "quilltips-backend/internal/domains/tip/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	Sessions session.Store
	Notifier *session.Notifier

	Storage   *storage.MinIOStorage
	Processor *storage.ImageProcessor
	Email     email.EmailService

	AccountRepo   accountRepo.Repository
	AuthorRepo    authorRepo.Repository
	BookRepo      bookRepo.Repository
	QRCodeRepo    qrRepo.Repository
	TipRepo       tipRepo.Repository
	AnalyticsRepo analyticsRepo.Repository

	AccountService   accountService.Service
	AuthorService    authorService.Service
	DraftService     draft.Service
	BookService      bookService.Service
	QRCodeService    qrService.Service
	TipService       tipService.Service
	AnalyticsService analyticsService.Service
	CheckoutService  checkoutService.Service

	AccountHandler   *accountHandler.Handler
	AuthorHandler    *authorHandler.Handler
	AvatarHandler    *authorHandler.AvatarHandler
	DraftHandler     *authorHandler.DraftHandler
	BookHandler      *bookHandler.Handler
	QRCodeHandler    *qrHandler.Handler
	TipHandler       *tipHandler.Handler
	AnalyticsHandler *analyticsHandler.Handler
	CheckoutHandler  *checkoutHandler.Handler
}

// NewContainer builds the full graph in dependency order: config, then
// infrastructure, then repositories, services, handlers. A failure at any
// stage aborts startup.
func NewContainer() (*Container, error) {
	c := &Container{}

	log.Println("loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg

	log.Println("connecting to postgres...")
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	log.Println("connecting to redis...")
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.Sessions = session.NewStore(c.Cache)
	c.Notifier = session.NewNotifier()

	log.Println("connecting to object storage...")
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	c.Processor = storage.NewImageProcessor()
	c.Email = email.NewSMTPEmailService(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AccountRepo = accountRepo.NewPostgresRepository(pool)
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool, c.Cache)
	c.BookRepo = bookRepo.NewPostgresRepository(pool, c.Cache)
	c.QRCodeRepo = qrRepo.NewPostgresRepository(pool)
	c.TipRepo = tipRepo.NewPostgresRepository(pool)
	c.AnalyticsRepo = analyticsRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewService(c.AuthorRepo)
	c.DraftService = draft.NewService(c.AuthorRepo, c.Cache)
	c.BookService = bookService.NewService(c.BookRepo)
	c.QRCodeService = qrService.NewService(c.QRCodeRepo, c.BookService, c.Config.Public.Origin)
	c.TipService = tipService.NewService(c.TipRepo, c.AuthorService, c.BookService, c.AsynqClient)
	c.AnalyticsService = analyticsService.NewService(c.AnalyticsRepo)

	c.AccountService = accountService.NewService(
		c.AccountRepo,
		c.AuthorService,
		c.DraftService,
		c.Sessions,
		c.Notifier,
		c.JWTManager,
		c.AsynqClient,
	)

	stripeClient := checkoutStripe.NewClient(checkoutStripe.Config{
		SecretKey:     c.Config.Stripe.SecretKey,
		WebhookSecret: c.Config.Stripe.WebhookSecret,
		SuccessURL:    c.Config.Stripe.SuccessURL,
		CancelURL:     c.Config.Stripe.CancelURL,
	})
	c.CheckoutService = checkoutService.NewService(
		stripeClient,
		c.TipService,
		c.QRCodeService,
		c.BookService,
		c.AuthorService,
		c.Cache,
	)
}

func (c *Container) initHandlers() {
	c.AccountHandler = accountHandler.NewHandler(c.AccountService, c.Notifier)
	c.AuthorHandler = authorHandler.NewHandler(c.AuthorService)
	c.AvatarHandler = authorHandler.NewAvatarHandler(c.AuthorService, c.Storage, c.Processor)
	c.DraftHandler = authorHandler.NewDraftHandler(c.DraftService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.QRCodeHandler = qrHandler.NewHandler(c.QRCodeService)
	c.TipHandler = tipHandler.NewHandler(c.TipService)
	c.AnalyticsHandler = analyticsHandler.NewHandler(c.AnalyticsService)
	c.CheckoutHandler = checkoutHandler.NewHandler(c.CheckoutService)
}

// Cleanup closes external connections in reverse init order.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("failed to close asynq client: %v", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
