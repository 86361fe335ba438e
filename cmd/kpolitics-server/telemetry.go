package main

import (
	"context"
	"log/slog"
	"os"

	"kpolitics-backend/lib/serviceutil"
	"kpolitics-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "kpolitics-server")
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "no telemetry.json5 found, exporting disabled")
		return
	}
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		telemetry.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)
}
