package main

import (
	"context"
	"os"

	"kbuassist-backend/cmd/kbulib-cli/commands"
	"kbuassist-backend/lib/osutil"
	"kbuassist-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(os.Getenv("DEBUG") != "")

	tel, err := telemetry.SetupFromEnv(context.Background(), "kbulib-cli")
	if err == nil {
		defer tel.Shutdown(context.Background())
	} else if !os.IsNotExist(err) {
		osutil.Fatal("failed to setup telemetry", err)
	}

	ctx := osutil.SignalContext()
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
