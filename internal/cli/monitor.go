package cli

import (
	"context"
	"io"
	"os"

	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/engine"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/monitor"
	"golang.org/x/term"
)

// monitorCommand starts the TUI dashboard, or prints one snapshot when out
// is not a terminal.
func monitorCommand(ctx context.Context, out io.Writer, intervalFlag string) error {
	interval, err := ParseInterval(intervalFlag)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if interval > 0 {
		cfg.Refresh.Interval = interval
	}

	if !isTerminal(out) {
		return runSnapshot(ctx, out, cfg, snapshotOptions{Sample: defaultSample})
	}

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	bridge := monitor.NewBridge()
	eng := engine.New(engine.FromConfig(cfg),
		engine.WithSink(bridge),
		engine.WithLogger(log),
		engine.WithTerminator(bridge.Terminator(os.Exit)),
	)
	log.Info("dashboard starting",
		"run_id", eng.RunID(),
		"interval", cfg.Refresh.Interval.String(),
		"config", cfgFile)

	return monitor.Run(ctx, eng, bridge, monitor.OptionsFromConfig(cfg))
}

// openLogger opens the log file from cfg and makes it the package default.
func openLogger(cfg *config.Config) (logger.Logger, io.Closer, error) {
	log, closer, err := logger.New(logger.Config{
		File:   cfg.Logging.File,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open the log file "+cfg.Logging.File,
			`Point logging.file at a writable path, or set it to "" to disable logging`)
	}
	logger.SetDefault(log)
	return log, closer, nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
