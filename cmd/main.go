package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/alioucisse7/truck-management/internal/api"
	"github.com/alioucisse7/truck-management/internal/auth"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/telemetry"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "truck_management"
	}
	store := db.NewStore(client.Database(dbName))

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize auth service")
	}

	// Telemetry ingest is optional; without a broker the API still serves
	if brokerURL := os.Getenv("MQTT_BROKER_URL"); brokerURL != "" {
		ingestor := telemetry.NewIngestor(brokerURL, "truck-management-api", store.Trucks)
		if err := ingestor.Start(); err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		defer ingestor.Stop()
		log.WithField("broker", brokerURL).Info("Telemetry ingest started")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      api.NewRouter(store, authService),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.WithField("port", port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Shutdown failed")
	}
}
