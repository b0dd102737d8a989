package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/providerscan/internal/extraction"
	"github.com/fyrsmithlabs/providerscan/internal/icon"
	"github.com/fyrsmithlabs/providerscan/internal/ignore"
	"github.com/fyrsmithlabs/providerscan/internal/logging"
	"github.com/fyrsmithlabs/providerscan/internal/provider"
)

// vcsDirs are never descended into during the node walk.
var vcsDirs = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
}

// Deps are the collaborators of a Service. Nil fields get defaults; a nil
// Logger means the logger stored in the Scan context is used.
type Deps struct {
	Extractor *extraction.Extractor
	Filter    *provider.Filter
	Icons     provider.IconResolver
	Logger    *logging.Logger
}

// Service scans a source tree for provider files.
type Service struct {
	opts        Options
	filter      *provider.Filter
	credentials provider.Builder
	nodes       provider.Builder
	logger      *logging.Logger
}

// NewService creates a scanner for opts.
func NewService(opts Options, deps Deps) (*Service, error) {
	if !validSuffix(opts.CredentialSuffix) || !validSuffix(opts.NodeSuffix) {
		return nil, fmt.Errorf("invalid file suffixes %q, %q", opts.CredentialSuffix, opts.NodeSuffix)
	}

	ex := deps.Extractor
	if ex == nil {
		var err error
		if ex, err = extraction.NewExtractor(extraction.DefaultConfig()); err != nil {
			return nil, fmt.Errorf("creating extractor: %w", err)
		}
	}
	filter := deps.Filter
	if filter == nil {
		filter = provider.NewFilter(nil, nil)
	}
	icons := deps.Icons
	if icons == nil {
		icons = icon.NewResolver(nil, "")
	}
	var logger *logging.Logger
	if deps.Logger != nil {
		logger = deps.Logger.Named("scanner")
	}

	return &Service{
		opts:        opts,
		filter:      filter,
		credentials: provider.NewCredentialBuilder(ex, opts.MaxFileSize),
		nodes:       provider.NewNodeBuilder(ex, icons, opts.MaxFileSize),
		logger:      logger,
	}, nil
}

// loggerFor returns the configured logger, else the one carried by ctx.
func (s *Service) loggerFor(ctx context.Context) *logging.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.FromContext(ctx).Named("scanner")
}

func validSuffix(s string) bool {
	return len(s) > 1 && strings.HasPrefix(s, ".")
}

// Scan lists credential and node files, filters them by name and builds a
// record for each match. Per-file problems are logged, never returned.
func (s *Service) Scan(ctx context.Context) (*Result, error) {
	logger := s.loggerFor(ctx)
	start := time.Now()

	root, err := validateRoot(s.opts.SourceRoot)
	if err != nil {
		return nil, err
	}

	matcher, err := s.loadIgnore(ctx, root)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "scanning source tree", zap.String("root", root))

	result := &Result{Root: root, Records: []provider.Record{}}

	credCtx := logging.WithPhase(ctx, "credentials")
	credPaths, err := s.listCredentials(credCtx, root)
	if err != nil {
		return nil, err
	}
	if err := s.process(credCtx, root, credPaths, s.credentials, matcher, result); err != nil {
		return nil, err
	}

	nodeCtx := logging.WithPhase(ctx, "nodes")
	nodePaths, err := s.walkNodes(nodeCtx, root)
	if err != nil {
		return nil, err
	}
	if err := s.process(nodeCtx, root, nodePaths, s.nodes, matcher, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)

	logger.Info(ctx, "scan complete",
		zap.Int("records", len(result.Records)),
		zap.Int("files_seen", result.Stats.FilesSeen),
		zap.Int("unreadable", result.Stats.Unreadable),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// process filters and builds the files of one kind, appending to result.
func (s *Service) process(ctx context.Context, root string, paths []string, b provider.Builder, matcher *ignore.Matcher, result *Result) error {
	logger := s.loggerFor(ctx)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scan cancelled: %w", err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}
		rel = filepath.ToSlash(rel)

		result.Stats.FilesSeen++

		if matcher.Excluded(rel) {
			result.Stats.FilesIgnored++
			logger.Debug(ctx, "ignored by pattern", zap.String("file", rel))
			continue
		}

		category, ok := s.filter.Match(provider.Stem(path))
		if !ok {
			continue
		}

		rec, err := b.Build(path, rel)
		if err != nil {
			result.Stats.Unreadable++
			logger.Warn(ctx, "unreadable source file", zap.String("path", path), zap.Error(err))
		}

		result.Records = append(result.Records, rec)
		result.Stats.FilesMatched++
		switch rec.Kind {
		case provider.KindCredential:
			result.Stats.Credentials++
		case provider.KindNode:
			result.Stats.Nodes++
		}

		if logger.Enabled(logging.TraceLevel) {
			logger.Trace(ctx, "record built",
				zap.String("file", rel),
				zap.String("category", string(category)),
				zap.String("label", rec.Label()),
			)
		}
	}
	return nil
}

// listCredentials returns the credential files directly inside the
// credentials directory, sorted by name.
func (s *Service) listCredentials(ctx context.Context, root string) ([]string, error) {
	logger := s.loggerFor(ctx)
	dir := filepath.Join(root, filepath.FromSlash(s.opts.CredentialsDir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn(ctx, "skipping credentials directory", zap.String("dir", dir), zap.Error(err))
		return nil, nil
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, s.opts.CredentialSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	// ReadDir already sorts by name
	return paths, nil
}

// walkNodes returns every node file below the nodes directory, sorted by path.
func (s *Service) walkNodes(ctx context.Context, root string) ([]string, error) {
	logger := s.loggerFor(ctx)
	dir := filepath.Join(root, filepath.FromSlash(s.opts.NodesDir))

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		logger.Warn(ctx, "skipping nodes directory", zap.String("dir", dir), zap.Error(err))
		return nil, nil
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Warn(ctx, "skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != dir && vcsDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if !strings.HasSuffix(d.Name(), s.opts.NodeSuffix) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("scan cancelled: %w", ctxErr)
		}
		logger.Warn(ctx, "skipping nodes directory", zap.String("dir", dir), zap.Error(err))
		return nil, nil
	}

	sort.Strings(paths)
	return paths, nil
}

// loadIgnore builds the exclude matcher from the ignore file and options.
func (s *Service) loadIgnore(ctx context.Context, root string) (*ignore.Matcher, error) {
	logger := s.loggerFor(ctx)
	var patterns []string
	if s.opts.IgnoreFile != "" {
		parser := ignore.NewParser([]string{s.opts.IgnoreFile}, nil)
		filePatterns, err := parser.ParseProject(root)
		if err != nil {
			return nil, fmt.Errorf("reading ignore file: %w", err)
		}
		if len(filePatterns) > 0 {
			logger.Debug(ctx, "loaded ignore patterns",
				zap.String("file", s.opts.IgnoreFile),
				zap.Strings("patterns", filePatterns),
			)
		}
		patterns = append(patterns, filePatterns...)
	}
	patterns = append(patterns, s.opts.ExcludePatterns...)

	matcher, err := ignore.NewMatcher(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return matcher, nil
}

// validateRoot cleans the source root and checks it is an existing directory.
func validateRoot(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrRootNotFound)
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrRootNotFound, cleanPath)
		}
		return "", fmt.Errorf("stat source root: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDir, cleanPath)
	}

	return cleanPath, nil
}
