package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run(ctx context.Context) error {
	a.eng.Start(ctx)

	if err := a.metricsServer.Start(ctx); err != nil {
		return err
	}

	a.startThresholdLoop(ctx)

	logrus.Info("application started successfully")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// startThresholdLoop polls the threshold-triggered rules at the
// configured interval.
func (a *App) startThresholdLoop(ctx context.Context) {
	a.thresholdStop = make(chan struct{})
	a.thresholdDone = make(chan struct{})

	interval := time.Duration(a.cfg.ThresholdIntervalSeconds) * time.Second

	go func() {
		defer close(a.thresholdDone)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-a.thresholdStop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.eng.CheckThresholds(ctx)
			}
		}
	}()

	logrus.Infof("threshold monitor polling every %v", interval)
}

// Shutdown gracefully shuts down all application components in reverse
// dependency order: engine loops first, then servers, then external
// connections, then telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down application...")

	if a.thresholdStop != nil {
		close(a.thresholdStop)
		<-a.thresholdDone
	}

	a.eng.Stop()

	if err := a.metricsServer.Shutdown(ctx); err != nil {
		logrus.Errorf("metrics server shutdown error: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logrus.Errorf("Redis close error: %v", err)
		}
	}

	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
	return nil
}
