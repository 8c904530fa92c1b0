package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	cameraID := flag.Int("camera", -1, "Camera device id (overrides config)")
	driver := flag.String("driver", "", "Input backend: robotgo, exec or dry-run (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
	withTray := flag.Bool("tray", false, "Show a system tray menu")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}

	if *cameraID >= 0 {
		cfg.Camera.DeviceID = *cameraID
	}
	if *driver != "" {
		cfg.Driver.Backend = *driver
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := config.Validate(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.LogLevel)

	a, err := app.New(app.Options{Config: cfg})
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting mudra", "config", *configPath, "camera", cfg.Camera.DeviceID, "driver", cfg.Driver.Backend)

	if !*withTray {
		err = a.Run(ctx)
	} else {
		err = runWithTray(ctx, stop, a)
	}
	if err != nil {
		log.Error("mudra stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("mudra stopped")
}

// runWithTray runs the pipeline in the background while the tray owns the
// main goroutine.
func runWithTray(ctx context.Context, stop context.CancelFunc, a *app.App) error {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnQuit(stop)

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		t.Quit()
	}()

	go func() {
		for ctx.Err() == nil {
			if st, ok := a.NextStatus(ctx, 500*time.Millisecond); ok {
				t.SetStatus(st.Mode.String(), st.Label.String())
			}
		}
	}()

	t.Run()
	stop()
	return <-done
}
