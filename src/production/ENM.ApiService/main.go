package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/controllers"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/health"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/ai"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/chatwoot"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/consumption"
	container "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Container"
	implementation "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Repository/Implementation"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting Energy API Service")

	config := ctr.GetConfig()

	// Connect to MongoDB
	db, err := ctr.GetDatabase()
	if err != nil {
		logger.FatalWithError(err, "Failed to connect to database")
	}
	client, _ := ctr.GetMongoClient()

	// Create repositories
	deviceRepo := implementation.NewMongoDeviceRepository(db)
	readingRepo := implementation.NewMongoReadingRepository(db)
	powerRepo := implementation.NewMongoPowerRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := deviceRepo.EnsureIndexes(ctx); err != nil {
		logger.FatalWithError(err, "Failed to create device indexes")
	}
	if err := readingRepo.EnsureIndexes(ctx); err != nil {
		logger.FatalWithError(err, "Failed to create reading indexes")
	}
	if err := powerRepo.EnsureIndexes(ctx); err != nil {
		logger.FatalWithError(err, "Failed to create power reading indexes")
	}

	// The AI provider is a startup-time decision; an unknown name fails here
	agent, err := ai.NewAgent(&config.AI, logger)
	if err != nil {
		logger.FatalWithError(err, "Failed to create AI agent")
	}
	if !agent.Validate(ctx) {
		logger.Warn("AI provider validation failed; answer generation may be unavailable")
	}

	// Core services
	chatwootService := chatwoot.NewService(&config.Chatwoot, logger)
	consumptionService := consumption.NewService(deviceRepo, readingRepo, config.Tariff.CostPerKWh, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORS.AllowedOrigins,
		AllowMethods:     config.CORS.AllowedMethods,
		AllowHeaders:     config.CORS.AllowedHeaders,
		ExposeHeaders:    config.CORS.ExposedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           time.Duration(config.CORS.MaxAge) * time.Second,
	}))

	// Controllers
	controllers.NewWebhookController(chatwootService, consumptionService, agent, logger).RegisterRoutes(router)
	controllers.NewConsumptionController(consumptionService, logger).RegisterRoutes(router)
	controllers.NewTestController(consumptionService, agent, deviceRepo, readingRepo, logger).RegisterRoutes(router)
	controllers.NewDeviceController(deviceRepo, readingRepo, config.Tariff.CostPerKWh, logger).RegisterRoutes(router)
	controllers.NewReadingController(deviceRepo, readingRepo, logger).RegisterRoutes(router)
	controllers.NewPowerController(deviceRepo, powerRepo, logger).RegisterRoutes(router)
	controllers.NewHealthController(health.NewHealthChecker(client)).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         ":" + config.Server.Port,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	go func() {
		logger.WithField("port", config.Server.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "HTTP server failed")
		}
	}()

	// Wait for interrupt signal and shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "HTTP server shutdown failed")
	}
}
