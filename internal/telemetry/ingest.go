// Package telemetry subscribes to the MQTT topics trucks publish their
// position and fuel level on, and writes the readings back onto the fleet.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/models"
)

// TopicPattern matches the per-truck telemetry topics.
const TopicPattern = "fleet/trucks/+/telemetry"

// Topic returns the publish topic for one truck.
func Topic(truckID string) string {
	return fmt.Sprintf("fleet/trucks/%s/telemetry", truckID)
}

// Ingestor consumes truck telemetry from an MQTT broker.
type Ingestor struct {
	trucks db.TruckCollection
	client mqtt.Client
}

// NewIngestor creates an ingestor connected to brokerURL.
func NewIngestor(brokerURL, clientID string, trucks db.TruckCollection) *Ingestor {
	ingestor := &Ingestor{trucks: trucks}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(func(client mqtt.Client) {
			token := client.Subscribe(TopicPattern, 1, ingestor.handleMessage)
			token.Wait()
			if err := token.Error(); err != nil {
				log.WithError(err).Error("Telemetry subscribe failed")
				return
			}
			log.WithField("topic", TopicPattern).Info("Telemetry ingest subscribed")
		})

	ingestor.client = mqtt.NewClient(opts)
	return ingestor
}

// Start connects to the broker. The subscription is re-established on every
// reconnect by the connect handler.
func (i *Ingestor) Start() error {
	token := i.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect error: %w", err)
	}
	return nil
}

// Stop disconnects from the broker, allowing in-flight work to finish.
func (i *Ingestor) Stop() {
	i.client.Disconnect(250)
}

func (i *Ingestor) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var reading models.TruckTelemetry
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.WithFields(log.Fields{"topic": msg.Topic()}).WithError(err).Warn("Dropping malformed telemetry")
		return
	}

	truckID, err := primitive.ObjectIDFromHex(reading.TruckID)
	if err != nil {
		log.WithFields(log.Fields{"topic": msg.Topic(), "truck_id": reading.TruckID}).Warn("Dropping telemetry with invalid truck ID")
		return
	}

	fuel := reading.FuelLevel
	if fuel < 0 {
		fuel = 0
	}
	if fuel > 100 {
		fuel = 100
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := i.trucks.ApplyTelemetry(ctx, truckID, fuel, reading.Location); err != nil {
		log.WithFields(log.Fields{"truck_id": reading.TruckID}).WithError(err).Warn("Failed to apply telemetry")
		return
	}

	log.WithFields(log.Fields{
		"truck_id":   reading.TruckID,
		"fuel_level": fuel,
		"speed":      reading.Speed,
	}).Debug("Applied telemetry")
}
