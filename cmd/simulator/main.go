// Command simulator publishes synthetic truck telemetry over MQTT, moving a
// fleet of trucks along straight-line routes between Guinean cities.
package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alioucisse7/truck-management/internal/models"
	"github.com/alioucisse7/truck-management/internal/telemetry"
)

// Haul endpoints across Guinea
var cities = []models.Location{
	{Lat: 9.6412, Lng: -13.5784}, // Conakry
	{Lat: 10.3854, Lng: -9.3057}, // Kankan
	{Lat: 10.0559, Lng: -12.8658}, // Kindia
	{Lat: 11.3182, Lng: -12.2886}, // Labé
	{Lat: 10.7464, Lng: -10.7708}, // Dabola
	{Lat: 7.7562, Lng: -8.8179},  // Nzérékoré
	{Lat: 11.4197, Lng: -9.1709}, // Siguiri
	{Lat: 10.3756, Lng: -13.5562}, // Boké (approx.)
}

func jitterLocation(base models.Location, meters float64) models.Location {
	latMetersPerDeg := 111320.0
	lngMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLng := (rand.Float64()*2 - 1) * (meters / lngMetersPerDeg)
	return models.Location{Lat: base.Lat + dLat, Lng: base.Lng + dLng}
}

func haversineKm(a, b models.Location) float64 {
	R := 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return R * c
}

func lerp(a, b models.Location, t float64) models.Location {
	return models.Location{Lat: a.Lat + (b.Lat-a.Lat)*t, Lng: a.Lng + (b.Lng-a.Lng)*t}
}

// truckState tracks one simulated truck on its way to a destination city.
type truckState struct {
	TruckID    string
	Position   models.Location
	Target     models.Location
	SpeedKmh   float64
	FuelPct    float64
	RouteKm    float64
	TravelledKm float64
}

func (s *truckState) pickNewTarget() {
	for i := 0; i < 10; i++ {
		candidate := cities[rand.Intn(len(cities))]
		if haversineKm(s.Position, candidate) > 50 {
			s.Target = jitterLocation(candidate, 500)
			break
		}
	}
	s.RouteKm = haversineKm(s.Position, s.Target)
	s.TravelledKm = 0
}

func (s *truckState) step(tickSec float64) {
	if s.RouteKm <= 0 {
		s.pickNewTarget()
	}

	// small speed noise, bounded to plausible haul speeds
	s.SpeedKmh += (rand.Float64()*2 - 1) * 1.5
	if s.SpeedKmh < 15 {
		s.SpeedKmh = 15
	}
	if s.SpeedKmh > 90 {
		s.SpeedKmh = 90
	}

	km := s.SpeedKmh * (tickSec / 3600.0)
	s.TravelledKm += km
	if s.TravelledKm >= s.RouteKm {
		s.Position = s.Target
		s.pickNewTarget()
	} else {
		s.Position = lerp(s.Position, s.Target, s.TravelledKm/s.RouteKm)
	}

	s.FuelPct -= km * 0.4
	if s.FuelPct < 5 {
		s.FuelPct = 100 // refuelled
	}
}

func (s *truckState) reading() models.TruckTelemetry {
	return models.TruckTelemetry{
		TruckID:   s.TruckID,
		Timestamp: time.Now(),
		Location:  s.Position,
		FuelLevel: s.FuelPct,
		Speed:     s.SpeedKmh,
	}
}

// truckIDs reads TRUCK_IDS (comma-separated hex ObjectIDs) or fabricates a
// fleet of the requested size.
func truckIDs() []string {
	if raw := os.Getenv("TRUCK_IDS"); raw != "" {
		ids := []string{}
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if _, err := primitive.ObjectIDFromHex(id); err != nil {
				log.WithField("truck_id", id).Warn("Skipping invalid truck ID")
				continue
			}
			ids = append(ids, id)
		}
		return ids
	}

	fleetSize := 10
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			fleetSize = n
		}
	}
	ids := make([]string, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		ids = append(ids, primitive.NewObjectID().Hex())
	}
	return ids
}

func simulateTruck(client mqtt.Client, s *truckState, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		s.step(interval.Seconds())

		payload, err := json.Marshal(s.reading())
		if err != nil {
			log.WithError(err).Error("Failed to marshal telemetry")
			continue
		}

		token := client.Publish(telemetry.Topic(s.TruckID), 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			log.WithFields(log.Fields{"truck_id": s.TruckID}).WithError(err).Error("Failed to publish telemetry")
			continue
		}
		log.WithFields(log.Fields{
			"truck_id":   s.TruckID,
			"speed":      s.SpeedKmh,
			"fuel_level": s.FuelPct,
		}).Info("Published telemetry")
	}
}

func main() {
	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		brokerURL = "tcp://localhost:1883"
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	ids := truckIDs()
	if len(ids) == 0 {
		log.Fatal("No valid truck IDs to simulate")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID("truck-telemetry-simulator").
		SetAutoReconnect(true).
		SetConnectRetry(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	defer client.Disconnect(250)

	log.WithFields(log.Fields{
		"broker":     brokerURL,
		"fleet_size": len(ids),
		"interval":   interval,
	}).Info("Starting truck telemetry simulation")

	for _, id := range ids {
		start := jitterLocation(cities[rand.Intn(len(cities))], 500)
		state := &truckState{
			TruckID:  id,
			Position: start,
			SpeedKmh: 30 + rand.Float64()*30,
			FuelPct:  50 + rand.Float64()*50,
		}
		state.pickNewTarget()
		go simulateTruck(client, state, interval)
	}

	select {} // Block forever
}
