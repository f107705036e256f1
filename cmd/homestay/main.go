package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"homestay/internal/app/commands"
	bookingapp "homestay/internal/app/handlers/booking"
	chatapp "homestay/internal/app/handlers/chat"
	listingapp "homestay/internal/app/handlers/listings"
	reviewapp "homestay/internal/app/handlers/reviews"
	viewerapp "homestay/internal/app/handlers/viewer"
	"homestay/internal/app/locks"
	"homestay/internal/app/middleware"
	"homestay/internal/app/policies"
	domainbooking "homestay/internal/domain/booking"
	domainlistings "homestay/internal/domain/listings"
	"homestay/internal/domain/users"
	"homestay/internal/infra/assets"
	"homestay/internal/infra/auth"
	"homestay/internal/infra/broker/kafka"
	"homestay/internal/infra/config"
	appmongo "homestay/internal/infra/db/mongo"
	"homestay/internal/infra/geo"
	ginserver "homestay/internal/infra/http/gin"
	"homestay/internal/infra/identity"
	redislock "homestay/internal/infra/locks/redis"
	"homestay/internal/infra/obs"
	"homestay/internal/infra/payments"
	"homestay/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	cleanups := make([]func(), 0, 4)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		listingsRepo domainlistings.Repository
		bookingsRepo domainbooking.Repository
		usersRepo    users.Repository
		idemStore    middleware.IdempotencyStore
		ready        = func() error { return nil }
	)
	if cfg.MongoURI != "" {
		client, err := appmongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanups = append(cleanups, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		})
		listingsRepo = appmongo.NewListingRepository(client.DB)
		bookingsRepo = appmongo.NewBookingRepository(client.DB)
		usersRepo = appmongo.NewUserRepository(client.DB)
		idemStore = appmongo.NewIdempotencyStore(client.DB, 7*24*time.Hour)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("storage attached", "kind", "mongo", "db", cfg.MongoDB)
	} else {
		listingsRepo = memory.NewListingRepository()
		bookingsRepo = memory.NewBookingRepository()
		usersRepo = memory.NewUserRepository()
		idemStore = memory.NewIdempotencyStore()
		logger.Warn("MONGO_URI not set, using in-memory storage")
	}

	var locker locks.Locker
	if cfg.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
		locker = redislock.New(redisClient, cfg.LockTTL)
		logger.Info("commit locking attached", "kind", "redis", "addr", cfg.RedisAddr)
	} else {
		locker = locks.NewKeyedMutex()
	}

	var notifier policies.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanups = append(cleanups, func() { _ = producer.Close() })
		notifier = &kafka.Notifier{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}
		logger.Info("notifications attached", "kind", "kafka", "brokers", cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS not set, notifications disabled")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)

	var paymentsPort policies.PaymentsPort
	if cfg.StripeSecretKey != "" {
		paymentsPort = payments.New(cfg.StripeSecretKey, cfg.StripeClientID)
	} else {
		paymentsPort = devPayments{}
		logger.Warn("STRIPE_SECRET_KEY not set, using dev payments stub")
	}

	var identityPort policies.IdentityPort
	if cfg.IdentityClientID != "" {
		identityPort = identity.New(cfg.IdentityClientID, cfg.IdentitySecret, cfg.IdentityRedirect)
	} else {
		identityPort = devIdentity{}
		logger.Warn("IDENTITY_CLIENT_ID not set, using dev identity stub")
	}

	var geocoderPort policies.GeocoderPort
	if cfg.MapboxToken != "" {
		geocoderPort = geo.New(cfg.MapboxToken)
	} else {
		geocoderPort = devGeocoder{}
		logger.Warn("MAPBOX_TOKEN not set, using dev geocoder stub")
	}

	var assetsPort policies.AssetsPort
	if cfg.S3Endpoint != "" {
		s3Client, err := assets.New(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicBaseURL)
		if err != nil {
			return application{}, cleanup, err
		}
		assetsPort = s3Client
		logger.Info("asset storage attached", "kind", "s3", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		assetsPort = devAssets{}
		logger.Warn("S3_ENDPOINT not set, using dev assets stub")
	}

	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, bookingapp.CommitBookingCommand{}.Key(), &bookingapp.CommitBookingHandler{
		Listings: listingsRepo,
		Bookings: bookingsRepo,
		Users:    usersRepo,
		Payments: paymentsPort,
		Locks:    locker,
		Notifier: notifier,
		Logger:   logger,
	})
	commands.RegisterHandler(bus, reviewapp.AddReviewCommand{}.Key(), &reviewapp.AddReviewHandler{
		Listings: listingsRepo,
		Locks:    locker,
		Notifier: notifier,
	})
	commands.RegisterHandler(bus, reviewapp.DeleteReviewCommand{}.Key(), &reviewapp.DeleteReviewHandler{
		Listings: listingsRepo,
		Locks:    locker,
		Notifier: notifier,
	})
	commands.RegisterHandler(bus, listingapp.CreateListingCommand{}.Key(), &listingapp.CreateListingHandler{
		Listings: listingsRepo,
		Users:    usersRepo,
		Geocoder: geocoderPort,
		Assets:   assetsPort,
		Notifier: notifier,
	})
	commands.RegisterHandler(bus, viewerapp.SignInCommand{}.Key(), &viewerapp.SignInHandler{
		Users:    usersRepo,
		Identity: identityPort,
		Tokens:   tokens,
	})
	wallet := &viewerapp.WalletHandler{Users: usersRepo, Payments: paymentsPort}
	commands.RegisterHandler(bus, viewerapp.ConnectWalletCommand{}.Key(), wallet.ConnectHandler())
	commands.RegisterHandler(bus, viewerapp.DisconnectWalletCommand{}.Key(), wallet.DisconnectHandler())
	commands.RegisterHandler(bus, chatapp.SendMessageCommand{}.Key(), &chatapp.SendMessageHandler{
		Users:    usersRepo,
		Notifier: notifier,
	})

	pipeline := middleware.Chain(bus,
		middleware.Logging(logger),
		middleware.Idempotency(idemStore),
	)

	catalog := &listingapp.CatalogHandler{Listings: listingsRepo, Geocoder: geocoderPort}
	handlers := ginserver.Handlers{
		Viewer:         ginserver.ViewerHandler{Commands: pipeline, CookieTTL: int(cfg.SessionTTL.Seconds()), SecureCook: cfg.Env != "dev" && cfg.Env != "local"},
		Listing:        ginserver.ListingHandler{Commands: pipeline, Catalogs: catalog, Listings: listingsRepo},
		Booking:        ginserver.BookingHandler{Commands: pipeline, Bookings: bookingsRepo},
		Review:         ginserver.ReviewHandler{Commands: pipeline},
		Message:        ginserver.MessageHandler{Commands: pipeline},
		AuthMiddleware: ginserver.Authentication(tokens),
	}

	return application{handlers: handlers, ready: ready}, cleanup, nil
}
