// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trellis.sh/taskrun/internal/adapters/cache"
	_ "go.trellis.sh/taskrun/internal/adapters/config"
	_ "go.trellis.sh/taskrun/internal/adapters/httpfetch"
	_ "go.trellis.sh/taskrun/internal/adapters/launcher"
	_ "go.trellis.sh/taskrun/internal/adapters/logger"
	_ "go.trellis.sh/taskrun/internal/adapters/planner"
	_ "go.trellis.sh/taskrun/internal/adapters/puppet"
	_ "go.trellis.sh/taskrun/internal/adapters/spool"
	_ "go.trellis.sh/taskrun/internal/adapters/telemetry"
	_ "go.trellis.sh/taskrun/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trellis.sh/taskrun/internal/app"
)
