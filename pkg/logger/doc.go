// Package logger provides a thin factory around log/slog with
// functional options for format, level, output, and static attributes,
// plus typed attribute constructors for the identifiers that recur
// across the delivery pipeline (notification ID, user ID, channel).
//
//	log := logger.New(logger.WithProduction("notifier"))
//	logger.SetAsDefault(log)
//
// Components in this module accept a *slog.Logger through their own
// options and default to slog.Default().
package logger
