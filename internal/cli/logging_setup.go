package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/cintel/internal/logging"
	"github.com/rshade/cintel/internal/tui"
)

// setupLogging configures logging from the effective config and flags. While the interactive
// dashboard owns the terminal, logs go to the configured file.
func setupLogging(cmd *cobra.Command, st *appState) logging.LogPathResult {
	toFile := st.mode == tui.OutputModeInteractive && cmd == cmd.Root()

	result := logging.NewLoggerWithPath(st.cfg.Logging.ToLoggingConfig(toFile), cmd.ErrOrStderr())
	base := result.Logger.With().Str("session_id", logging.NewSessionID()).Logger()
	logger = logging.ComponentLogger(base, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	cmd.SetContext(base.WithContext(cmd.Context()))
	logger.Debug().
		Str("command", cmd.Name()).
		Str("dashboard", st.cfg.Dashboard).
		Stringer("mode", st.mode).
		Msg("command started")
	return result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
