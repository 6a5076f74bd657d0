package title

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"lplmaker/internal/logging"
	"lplmaker/internal/services"
)

// ListFullFlag is the MAME option that prints a driver's full description.
const ListFullFlag = "-listfull"

var errNoQuotedTitle = errors.New("no quoted title in output")

// Cache remembers titles returned by successful lookups. Entries are keyed by
// the lookup tool as well as the name so a different or upgraded MAME never
// sees titles cached from another one.
type Cache interface {
	LookupTitle(ctx context.Context, tool, name string) (string, bool, error)
	StoreTitle(ctx context.Context, tool, name, title string) error
}

// Option configures the resolver.
type Option func(*Resolver)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Resolver) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithCache enables the lookup cache.
func WithCache(cache Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver maps entry stems to display titles.
type Resolver struct {
	binary string
	tool   string
	exec   Executor
	cache  Cache
	logger *slog.Logger
}

// New constructs a resolver that uses binary for lookups.
func New(binary string, opts ...Option) *Resolver {
	r := &Resolver{
		binary: strings.TrimSpace(binary),
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "title")
	r.tool = toolKey(r.binary)
	return r
}

// toolKey identifies the lookup executable for the cache: its resolved path
// and modification time, so replacing or upgrading the binary starts a fresh
// set of cached titles.
func toolKey(binary string) string {
	if binary == "" {
		return ""
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return binary
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return path + "@" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
}

// Resolve returns the display title for stem. When lookup is false, or the
// lookup fails in any way, stem is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, stem string, lookup bool) string {
	if !lookup || stem == "" {
		return stem
	}
	logger := logging.WithContext(ctx, r.logger)

	if r.cache != nil {
		cached, ok, err := r.cache.LookupTitle(ctx, r.tool, stem)
		if err != nil {
			logger.Debug("title cache read failed", logging.String("name", stem), logging.Error(err))
		} else if ok {
			return cached
		}
	}

	title, err := r.lookup(ctx, stem)
	if err != nil {
		logger.Debug("title lookup fell back to file name", logging.String("name", stem), logging.Error(err))
		return stem
	}

	if r.cache != nil {
		if err := r.cache.StoreTitle(ctx, r.tool, stem, title); err != nil {
			logger.Debug("title cache write failed", logging.String("name", stem), logging.Error(err))
		}
	}
	return title
}

func (r *Resolver) lookup(ctx context.Context, stem string) (string, error) {
	if r.binary == "" {
		return "", services.Wrap(services.ErrExternalTool, "title", "lookup", "no lookup executable configured", nil)
	}
	out, err := r.exec.Output(ctx, r.binary, ListFullFlag, stem)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "title", "lookup", r.binary, err)
	}
	title, ok := ParseListFull(out)
	if !ok {
		return "", services.Wrap(services.ErrExternalTool, "title", "parse", stem, errNoQuotedTitle)
	}
	return title, nil
}

// ParseListFull extracts the description from "-listfull" output: on the
// first line holding a quoted span, the text between the first and the last
// double quote. Output that is not valid UTF-8 is read as ISO-8859-1.
func ParseListFull(output []byte) (string, bool) {
	if !utf8.Valid(output) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(output)
		if err != nil {
			return "", false
		}
		output = decoded
	}
	for _, line := range bytes.Split(output, []byte("\n")) {
		open := bytes.IndexByte(line, '"')
		if open < 0 {
			continue
		}
		closing := bytes.LastIndexByte(line, '"')
		if closing <= open {
			continue
		}
		title := string(line[open+1 : closing])
		if strings.TrimSpace(title) == "" {
			return "", false
		}
		return title, true
	}
	return "", false
}
