package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creator-hub/domain/repository"
	"creator-hub/infrastructure/cache"
	tiktokclient "creator-hub/infrastructure/clients/tiktok"
	videoapiclient "creator-hub/infrastructure/clients/videoapi"
	"creator-hub/infrastructure/configuration"
	"creator-hub/infrastructure/logger"
	"creator-hub/infrastructure/persistence"
	"creator-hub/infrastructure/pubsub"
	"creator-hub/infrastructure/realtime"
	"creator-hub/infrastructure/servicebus"
	httpHandler "creator-hub/interfaces/http"
	"creator-hub/server"
	"creator-hub/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	db, vendor, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	logger.GetLogger().
		WithField("vendor", vendor).
		WithField("ping", db.Ping()).
		Info("Database connected.")

	if vendor == "mssql" {
		if err := persistence.EnsureTikTokSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed ensuring tiktok_accounts schema")
		}
	} else {
		if err := persistence.EnsureTikTokSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed ensuring tiktok_accounts schema")
		}
	}

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID, configuration.C.Pubsub.CredentialsFile)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without Pub/Sub events")
		pubSubClient = nil
	}

	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus events")
		azServiceBusClient = nil
	}

	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)

	var userRepository repository.IUser
	var accountRepository repository.ITikTokAccount
	if vendor == "mssql" {
		userRepository = persistence.NewUserRepositoryMSSQL(db)
		accountRepository = persistence.NewTikTokAccountRepositoryMSSQL(db)
	} else {
		userRepository = persistence.NewUserRepository(db)
		accountRepository = persistence.NewTikTokAccountRepository(db)
	}

	tiktokPlatform := tiktokclient.NewClient(
		configuration.C.TikTok.APIBase,
		configuration.C.TikTok.ClientKey,
		configuration.C.TikTok.ClientSecret,
		configuration.C.TikTok.RedirectURI,
	)
	videoAPI := videoapiclient.NewClient(configuration.C.VideoAPI.Host)
	creatorInfoCache := cache.NewCreatorInfoCache(redisClient)

	publishEventsPubSub := pubsub.NewPublishEvents(pubSubClient, configuration.C.Pubsub.Topic)
	publishEventsServiceBus := servicebus.NewPublishEvents(azServiceBusClient, configuration.C.ServiceBus.Queue)

	userUsecase := usecase.NewUserUsecase(userRepository)
	accountUsecase := usecase.NewTikTokAccountUsecase(accountRepository, tiktokPlatform, creatorInfoCache)
	publishUsecase := usecase.NewPublishUsecase(videoAPI, publishEventsPubSub, publishEventsServiceBus)
	aiVideoUsecase := usecase.NewAiVideoUsecase(videoAPI)

	publishHub := realtime.NewPublishHub()

	userHandler := httpHandler.NewUserHandler(userUsecase)
	tiktokAuthHandler := httpHandler.NewTikTokAuthHandler(accountUsecase)
	tiktokAccountHandler := httpHandler.NewTikTokAccountHandler(accountUsecase)
	publishHandler := httpHandler.NewPublishHandler(accountUsecase, publishUsecase, publishHub)
	aiVideoHandler := httpHandler.NewAiVideoHandler(aiVideoUsecase)
	pricingHandler := httpHandler.NewPricingHandler()

	router := server.InitiateRouter(
		userHandler,
		tiktokAuthHandler,
		tiktokAccountHandler,
		publishHandler,
		aiVideoHandler,
		pricingHandler,
		userRepository,
		publishHub,
	)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
			logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
			if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase picks the SQL vendor: MSSQL in production (or when
// DB_VENDOR=mssql), PostgreSQL otherwise.
func InitiateDatabase() (*sql.DB, string, error) {
	env := os.Getenv("ENV")
	if v := os.Getenv("DB_VENDOR"); v == "mssql" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL (DB_VENDOR=mssql)")
			return nil, "", err
		}
		return db, "mssql", nil
	}
	if env == "production" || env == "prod" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL (production)")
			return nil, "", err
		}
		return db, "mssql", nil
	}

	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		return nil, "", err
	}
	return db, "psql", nil
}
