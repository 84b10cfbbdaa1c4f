// Package logging configures structured logging for odatamock.
//
// It wraps log/slog so every component logs the same way. Components accept a
// *slog.Logger through a constructor option and default to Nop().
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	logger.Info("server started", "port", 8000)
//
// Setting Config.Mirror tees every record as JSON to a second writer, for
// example a log file kept next to human-readable console output.
package logging
