package notify

import "grantsync-backend/lib/telemetry"

var tracer = telemetry.Tracer("grantsync.lib.notify")
