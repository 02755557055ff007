package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tinytelemetry/dronepanel/internal/devicesim"
	"github.com/tinytelemetry/dronepanel/internal/model"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	var addr string
	var scenarioPath string
	var showVersion bool

	flag.StringVar(&addr, "addr", model.DefaultSimulatorAddr, "listen address")
	flag.StringVar(&scenarioPath, "scenario", "", "YAML scenario file (default: video on, empty photo slots)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("dronesim %s\n", version)
		return
	}

	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(addr, scenarioPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, scenarioPath string) error {
	sc := devicesim.DefaultScenario()
	if scenarioPath != "" {
		var err error
		sc, err = devicesim.LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
	}

	dev, err := devicesim.NewDevice(sc)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := devicesim.NewServer(addr, dev)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start simulator: %w", err)
	}
	defer srv.Stop()

	slog.Info("dronesim: listening",
		"addr", srv.Addr(),
		"video_on", sc.VideoOn,
		"slots", sc.Slots,
		"frame_interval", sc.FrameInterval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dev.Run(gctx)
	})

	err = g.Wait()
	slog.Info("dronesim: shutting down")
	return err
}
