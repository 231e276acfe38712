package scraper

import "grantsync-backend/lib/telemetry"

var tracer = telemetry.Tracer("grantsync.services.grants.scraper")
