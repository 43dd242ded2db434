// Package logging provides structured logging with per-module log levels.
//
// The terminal belongs to the mixer view while it runs, so logs never go to
// stdout. They are written to a file (by default under $XDG_STATE_HOME) or to
// stderr, and additionally to the systemd journal when enabled and available.
//
// Initialize once at startup, then ask for module loggers:
//
//	if err := logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		File:    "/home/me/.local/state/mixerctl/mixerctl.log",
//		Modules: map[string]string{"bridge": "debug"},
//	}); err != nil {
//		return err
//	}
//	defer logging.Close()
//
//	log := logging.GetLogger("bridge")
//	log.Info("mixer view ready", "device", "default")
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	file = "/tmp/mixerctl.log"
//	journal = true
//
//	[logging.modules]
//	bridge = "debug"
//	loop = "warn"
package logging
