package playlist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"lplmaker/internal/config"
	"lplmaker/internal/logging"
	"lplmaker/internal/scanner"
	"lplmaker/internal/services"
)

// StagingPattern names the staging files Generate creates.
const StagingPattern = "lplmaker-*.lpl"

// TitleResolver maps an entry stem to the title written into its record.
type TitleResolver interface {
	Resolve(ctx context.Context, stem string, lookup bool) string
}

// Confirmer asks whether an existing playlist may be replaced. Returning
// false leaves the destination untouched.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Result summarizes one Generate call.
type Result struct {
	Catalog         string
	OutputPath      string
	State           State
	Entries         int
	Archives        int
	ArchivesSkipped int
	Replaced        bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithProgress installs the factory used to report progress per catalog.
func WithProgress(factory ProgressFactory) Option {
	return func(g *Generator) {
		if factory != nil {
			g.progress = factory
		}
	}
}

// WithLogger sets the generator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithStagingDir sets the directory that holds staging files. An empty value
// selects the OS temp dir.
func WithStagingDir(dir string) Option {
	return func(g *Generator) {
		g.stagingDir = dir
	}
}

// Generator writes catalogs one at a time.
type Generator struct {
	titles     TitleResolver
	confirm    Confirmer
	progress   ProgressFactory
	stagingDir string
	logger     *slog.Logger
}

// NewGenerator constructs a generator. A nil confirmer declines every
// replacement of an existing playlist.
func NewGenerator(titles TitleResolver, confirm Confirmer, opts ...Option) *Generator {
	g := &Generator{
		titles:   titles,
		confirm:  confirm,
		progress: func(string) Progress { return nopProgress{} },
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.confirm == nil {
		g.confirm = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
	}
	g.logger = logging.NewComponentLogger(g.logger, "writer")
	return g
}

// Generate scans the catalog source, stages every record and commits the
// staged file to catalog.OutputPath. An Aborted result carries a nil error.
func (g *Generator) Generate(ctx context.Context, catalog config.Catalog) (Result, error) {
	ctx = services.WithCatalog(ctx, catalog.Name)
	result := Result{
		Catalog:    catalog.Name,
		OutputPath: catalog.OutputPath,
		State:      StateScanning,
	}
	fail := func(err error) (Result, error) {
		result.State = StateFailed
		return result, err
	}

	matcher, err := scanner.NewMatcher(catalog.Extensions, catalog.Exclude)
	if err != nil {
		return fail(err)
	}
	scan, err := scanner.Scan(catalog.SourceDir, matcher, catalog.ScanArchives)
	if err != nil {
		return fail(err)
	}
	logging.WithContext(services.WithStage(ctx, "scan"), g.logger).Debug("source scanned",
		logging.String("dir", catalog.SourceDir),
		logging.Int("plain", len(scan.Plain)),
		logging.Int("archives", len(scan.Archives)),
	)

	progress := &stopOnce{Progress: g.progress(catalog.Name)}
	defer progress.Stop()
	progress.Start(len(scan.Plain) + len(scan.Archives))

	result.State = StateWriting
	staged, err := g.stage(services.WithStage(ctx, "write"), catalog, matcher, scan, progress, &result)
	if staged != "" {
		defer os.Remove(staged)
	}
	if err != nil {
		return fail(err)
	}
	progress.Stop()

	ctx = services.WithStage(ctx, "commit")
	logger := logging.WithContext(ctx, g.logger)
	exists, err := destinationExists(catalog.OutputPath)
	if err != nil {
		return fail(err)
	}
	if exists {
		result.State = StatePendingCommit
		logger.Warn("about to overwrite playlist file", logging.String("path", catalog.OutputPath))
		ok, err := g.confirm.Confirm(ctx, fmt.Sprintf("About to overwrite playlist file %s", catalog.FileName()))
		if err != nil {
			return fail(err)
		}
		if !ok {
			result.State = StateAborted
			logger.Info("kept existing playlist", logging.String("path", catalog.OutputPath))
			return result, nil
		}
		result.Replaced = true
	}

	if err := commit(staged, catalog.OutputPath); err != nil {
		return fail(err)
	}
	result.State = StateCommitted
	logger.Info("playlist written",
		logging.String("path", catalog.OutputPath),
		logging.Int("entries", result.Entries),
		logging.Int("archives_skipped", result.ArchivesSkipped),
	)
	return result, nil
}

// stage writes every record into a fresh staging file and returns its path.
// The path is returned even on failure so the caller can remove it.
func (g *Generator) stage(ctx context.Context, catalog config.Catalog, matcher *scanner.Matcher, scan scanner.Result, progress Progress, result *Result) (string, error) {
	logger := logging.WithContext(ctx, g.logger)
	file, err := os.CreateTemp(g.stagingDir, StagingPattern)
	if err != nil {
		return "", services.Wrap(services.ErrDestinationUnwritable, "write", "create staging file", g.stagingDir, err)
	}
	name := file.Name()
	closed := false
	defer func() {
		if !closed {
			_ = file.Close()
		}
	}()

	w := bufio.NewWriter(file)
	write := func(entry scanner.Entry) error {
		title := g.resolveTitle(ctx, entry.Stem(), catalog.LookupTitles)
		record := FormatRecord(entry.Path(), title, catalog.CoreLibrary, catalog.CoreName, catalog.Name)
		if _, err := w.WriteString(record); err != nil {
			return services.Wrap(services.ErrDestinationUnwritable, "write", "write record", name, err)
		}
		result.Entries++
		progress.Step(progressLabel(entry))
		return nil
	}

	for _, entry := range scan.Plain {
		if err := ctx.Err(); err != nil {
			return name, err
		}
		if err := write(entry); err != nil {
			return name, err
		}
	}

	for _, archive := range scan.Archives {
		if err := ctx.Err(); err != nil {
			return name, err
		}
		progress.Step(progressLabel(archive))
		result.Archives++
		members, err := scanner.ExpandArchive(archive.ContainerPath, matcher)
		if err != nil {
			result.ArchivesSkipped++
			logger.Warn("skipping unreadable archive",
				logging.String("archive", archive.ContainerPath),
				logging.Error(err),
			)
			continue
		}
		progress.Grow(len(members))
		for _, member := range members {
			if err := ctx.Err(); err != nil {
				return name, err
			}
			if err := write(member); err != nil {
				return name, err
			}
		}
	}

	if err := w.Flush(); err != nil {
		return name, services.Wrap(services.ErrDestinationUnwritable, "write", "flush staging file", name, err)
	}
	if err := file.Sync(); err != nil {
		return name, services.Wrap(services.ErrDestinationUnwritable, "write", "sync staging file", name, err)
	}
	closed = true
	if err := file.Close(); err != nil {
		return name, services.Wrap(services.ErrDestinationUnwritable, "write", "close staging file", name, err)
	}
	return name, nil
}

// progressLabel names the entry the way the progress display shows it: the
// member path for archive members, the file name otherwise.
func progressLabel(entry scanner.Entry) string {
	if entry.IsArchiveMember() {
		return entry.Member
	}
	return entry.BaseName
}

func (g *Generator) resolveTitle(ctx context.Context, stem string, lookup bool) string {
	if g.titles == nil {
		return stem
	}
	return g.titles.Resolve(ctx, stem, lookup)
}

func destinationExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return false, services.Wrap(services.ErrDestinationUnwritable, "commit", "inspect destination", path+" is a directory", nil)
		}
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, services.Wrap(services.ErrDestinationUnwritable, "commit", "inspect destination", path, err)
	}
}
