// Package logging is the zap-based logger used by providerscan.
//
// Every method takes a context; the run id and scan phase stored in it are
// added to each entry:
//
//	logger, err := logging.NewLogger(logging.NewDefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRunID(ctx, logging.NewRunID())
//	ctx = logging.WithPhase(ctx, "credentials")
//	logger.Warn(ctx, "unreadable source file", zap.String("path", p), zap.Error(err))
//
// Entries go to stderr by default so stdout carries only the scan summary.
// A Trace level sits below Debug for per-record output.
//
// Sensitive keys (token, api_key, ...) are replaced by [REDACTED] and string
// values or error messages matching the redaction patterns are masked.
// Sampling, when enabled, thins entries below Error only.
//
// Tests observe entries through NewTestLogger:
//
//	tl := logging.NewTestLogger()
//	svc, _ := scanner.NewService(opts, scanner.Deps{Logger: tl.Logger})
//	...
//	tl.AssertLogged(t, zapcore.WarnLevel, "unreadable")
package logging
