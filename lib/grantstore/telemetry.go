package grantstore

import "grantsync-backend/lib/telemetry"

var tracer = telemetry.Tracer("grantsync.lib.grantstore")
