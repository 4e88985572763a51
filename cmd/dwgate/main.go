// dwgate - UWB radio gateway
//
// This is the main entry point for the dwgate application. dwgate bridges
// a DW1000-class UWB modem onto an MQTT bus: it drives the modem's receive
// path, validates and decodes incoming radio frames, and republishes the
// decoded events for downstream consumers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openduro/dwgate/internal/gateway"
	"github.com/openduro/dwgate/internal/infrastructure/config"
	"github.com/openduro/dwgate/internal/infrastructure/logging"
	"github.com/openduro/dwgate/internal/infrastructure/mqtt"
	"github.com/openduro/dwgate/internal/modem"
	"github.com/openduro/dwgate/internal/telemetry"
	"github.com/openduro/dwgate/internal/uwb"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting dwgate",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Open the UWB modem
	dev, err := modem.Open(modem.Config{
		Port:       cfg.Modem.Port,
		BaudRate:   cfg.Modem.BaudRate,
		AckTimeout: cfg.GetAckTimeout(),
	})
	if err != nil {
		return fmt.Errorf("opening modem: %w", err)
	}
	defer func() {
		log.Info("closing modem")
		if closeErr := dev.Close(); closeErr != nil {
			log.Error("error closing modem", "error", closeErr)
		}
	}()
	log.Info("modem opened",
		"port", cfg.Modem.Port,
		"baud_rate", cfg.Modem.BaudRate,
	)

	// Verify the broker connection is healthy before starting the loop
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	// Build the receive pipeline
	identity := uwb.Identity{
		PanID:     cfg.Modem.PanID,
		ShortAddr: cfg.Modem.ShortAddr,
	}
	sink := telemetry.NewEventSink(mqttClient, byte(cfg.MQTT.QoS))

	gw, err := gateway.New(gateway.Options{
		Identity:    identity,
		Transceiver: &modemTransceiver{dev: dev},
		Sink:        sink,
		Logger:      log,
		Config: gateway.Config{
			ReceiveTimeout: cfg.GetReceiveTimeout(),
			StartBackoff:   cfg.GetStartBackoff(),
		},
	})
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}
	log.Info("gateway initialised", "identity", identity.String())

	// Run the receive loop until shutdown
	if err := gw.Run(ctx); err != nil {
		return fmt.Errorf("receive loop: %w", err)
	}

	log.Info("shutdown signal received, cleaning up",
		"frames_received", gw.Stats().FramesReceived,
		"events_published", gw.Stats().EventsPublished,
	)

	// Deferred Close() calls will run in reverse order:
	// 1. Modem
	// 2. MQTT

	log.Info("dwgate stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses DWGATE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("DWGATE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// modemTransceiver adapts the modem driver to the gateway's Transceiver
// interface. The adapter is needed because Go interfaces are not covariant:
// modem.BeginReceive returns a *modem.Receive, not a gateway.ReceiveHandle.
type modemTransceiver struct {
	dev *modem.Modem
}

// BeginReceive implements gateway.Transceiver.
func (t *modemTransceiver) BeginReceive() (gateway.ReceiveHandle, error) {
	rx, err := t.dev.BeginReceive()
	if err != nil {
		return nil, err
	}
	return rx, nil
}
