package oursg

import "grantsync-backend/lib/telemetry"

var tracer = telemetry.Tracer("grantsync.lib.scrapers.oursg")
