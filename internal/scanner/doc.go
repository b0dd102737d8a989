// Package scanner walks an n8n-style checkout and turns provider source files
// into records.
//
// Credential files are listed from one directory; node files are found by a
// recursive walk that skips only VCS metadata directories. Hidden files are
// scanned like any other. Paths of either kind matched by the ignore file are
// skipped. Both lists are sorted, so two scans of the same tree produce the
// same records in the same order. Each file whose stem
// passes the provider filter is handed to the builder for its kind.
//
// A missing or non-directory source root is an error (ErrRootNotFound,
// ErrRootNotDir). Everything below the root is best-effort: a missing
// subdirectory or an unreadable file is logged at warn and the scan goes on.
//
// # Usage
//
//	svc, err := scanner.NewService(scanner.OptionsFromConfig(cfg), scanner.Deps{})
//	if err != nil {
//	    return err
//	}
//	result, err := svc.Scan(logging.WithLogger(ctx, logger))
//
// Without Deps.Logger the logger stored in the Scan context is used.
package scanner
