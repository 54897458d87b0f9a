// Command gcsd is the ground-control-station daemon: it owns the vehicle
// link, aggregates telemetry, and exposes a diagnostics HTTP/WebSocket
// surface for a frontend dashboard to consume.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/config"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/diagnostics"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/metrics"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/session"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/telemetry"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/transport"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, cfg.Logging.Prefix, log.LstdFlags|log.Lmicroseconds)

	bus := events.NewBus()
	reg := metrics.New()

	aggregator := telemetry.NewAggregator(bus, telemetry.ByAutopilot)

	sess := session.New(cfg.Link, bus, reg, logger)

	dialer, err := buildDialer(cfg.Link)
	if err != nil {
		log.Fatalf("gcsd: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		err := sess.Run(ctx, dialer, func(f *mavlink.Frame) {
			aggregator.HandleFrame(f)
		})
		if err != nil && ctx.Err() == nil {
			logger.Printf("gcsd: session exited: %v", err)
		}
	}()

	diag := diagnostics.New(cfg.DaemonAddr(), cfg.Daemon.CORSOrigins, sess, bus, reg, logger)
	go func() {
		logger.Printf("gcsd: diagnostics listening on %s", cfg.DaemonAddr())
		if err := diag.ListenAndServe(); err != nil {
			logger.Printf("gcsd: diagnostics server stopped: %v", err)
		}
	}()

	handleShutdown(cancel, sess, diag, logger)
}

// buildDialer selects the configured transport's Dialer.
func buildDialer(lc config.LinkConfig) (transport.Dialer, error) {
	switch lc.Transport {
	case "serial":
		return transport.NewSerialDialer(lc.SerialPort, lc.SerialBaud), nil
	case "tcp":
		return transport.NewTCPDialer(lc.TCPHost, lc.TCPPort), nil
	case "udp":
		return transport.NewUDPDialer(lc.UDPLocalPort, lc.UDPRemoteHost, lc.UDPRemotePort), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", lc.Transport)
	}
}

// handleShutdown blocks until SIGINT/SIGTERM, then stops the session and
// diagnostics server in order before returning.
func handleShutdown(cancel context.CancelFunc, sess *session.Session, diag *diagnostics.Server, logger *log.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Println("gcsd: shutting down")

	sess.Stop()
	cancel()
	if err := diag.Shutdown(); err != nil {
		logger.Printf("gcsd: diagnostics shutdown: %v", err)
	}
}
