package pesu

import (
	"pesuslides/lib/restyutil"
	"pesuslides/lib/telemetry"
)

var tracer = telemetry.Tracer("pesuslides.lib.scrapers.pesu")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput enables request/response transcript dumping for
// clients created after the call.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
