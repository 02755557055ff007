package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/tinytelemetry/dronepanel/internal/device"
	"github.com/tinytelemetry/dronepanel/internal/httpserver"
	"github.com/tinytelemetry/dronepanel/internal/panel"
	"github.com/tinytelemetry/dronepanel/internal/tui"
	"golang.org/x/sync/errgroup"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var baseURL string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/dronepanel/config.yml)")
	flag.StringVar(&baseURL, "base-url", "", "override the device base URL")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("dronepanel - Device Control Panel\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	// A missing .env is fine; settings then come from the environment and config file.
	_ = godotenv.Load()

	cfg, err := loadPanelConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runPanel(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// programSelector forwards API selection requests into the running program.
type programSelector struct {
	program *tea.Program
}

func (s programSelector) SelectLive() {
	s.program.Send(tui.SelectLiveMsg{})
}

func (s programSelector) SelectPhoto(ctx context.Context, index int) (bool, error) {
	return sendSelectPhoto(ctx, s.program.Send, index)
}

// sendSelectPhoto delivers a pin request through send and waits for the
// panel loop to report the outcome.
func sendSelectPhoto(ctx context.Context, send func(tea.Msg), index int) (bool, error) {
	result := make(chan bool, 1)
	go send(tui.SelectPhotoMsg{Index: index, Result: result})
	select {
	case ok := <-result:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func runPanel(cfg panelConfig) error {
	logPath, cleanupLogger, err := configureRuntimeLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer cleanupLogger()

	polling, err := cfg.polling()
	if err != nil {
		return err
	}

	client, err := device.NewClient(cfg.BaseURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	mirror := panel.NewMirror()
	panelModel := tui.NewPanelModel(ctx, client, tui.Options{
		Polling: polling,
		Slots:   cfg.PhotoSlots,
		Mirror:  mirror,
		Source:  client.BaseURL(),
	})
	app := tui.NewApp(
		tui.NewPanelPage(panelModel),
		tui.NewHelpPage(tui.DefaultKeyMap(), tui.PanelPageID),
	)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, mirror, programSelector{program: p})
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	slog.Info("dronepanel: starting",
		"version", version,
		"base_url", client.BaseURL(),
		"polling", polling,
		"api_enabled", cfg.APIEnabled,
		"log_file", logPath,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer stop()
		if _, err := p.Run(); err != nil {
			if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
				return fmt.Errorf("TUI requires a real terminal")
			}
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	})

	// SIGTERM, or the program exiting on its own, ends the run.
	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	err = g.Wait()
	slog.Info("dronepanel: stopped", "err", err)
	return err
}
