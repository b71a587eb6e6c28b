// simdevice emulates a GPS tracker: it opens a realtime connection and
// streams hardware fixes for one device serial on a fixed interval. Useful
// for exercising the device ingestion path against a running server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet/internal/rtclient"
)

func main() {
	var (
		wsURL    = flag.String("url", "ws://localhost:8080/ws", "realtime endpoint")
		token    = flag.String("token", "", "access token of a fleet account")
		serial   = flag.String("serial", "SIM-0001", "device serial number")
		lat      = flag.Float64("lat", 25.0330, "starting latitude")
		lng      = flag.Float64("lng", 121.5654, "starting longitude")
		interval = flag.Duration("interval", 5*time.Second, "time between fixes")
		count    = flag.Int("count", 0, "number of fixes to send, 0 for unlimited")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *token == "" {
		logger.Error("a token is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := rtclient.Dial(ctx, *wsURL, *token, logger)
	if err != nil {
		logger.Error("dial failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = session.Close() }()

	logger.Info("streaming fixes",
		slog.String("serial", *serial),
		slog.Duration("interval", *interval))

	curLat, curLng := *lat, *lng
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for sent := 0; *count == 0 || sent < *count; sent++ {
		if err := session.ReportDeviceFix(*serial, curLat, curLng); err != nil {
			logger.Error("send fix failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Debug("fix sent",
			slog.Float64("lat", curLat),
			slog.Float64("lng", curLng))

		// Random walk of roughly a city block per tick.
		curLat += (rand.Float64() - 0.5) * 0.002
		curLng += (rand.Float64() - 0.5) * 0.002

		select {
		case <-ctx.Done():
			logger.Info("shutting down")

			return
		case <-ticker.C:
		}
	}
}
