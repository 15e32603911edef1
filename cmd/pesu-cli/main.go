package main

import (
	"pesuslides/cmd/pesu-cli/commands"
	"pesuslides/lib/telemetry"
	"pesuslides/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "pesu-cli")
	telemetry.InstrumentPerfStats(ctx)
	telemetry.InitSlog(false)
	commands.ExecuteContext(ctx)
}
