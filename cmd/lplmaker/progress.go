package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"lplmaker/internal/logging"
	"lplmaker/internal/playlist"
)

// newProgressFactory draws a progress bar on interactive terminals and falls
// back to sampled log lines everywhere else.
func newProgressFactory(w io.Writer, logger *slog.Logger) playlist.ProgressFactory {
	if isTerminal(w) {
		return func(catalog string) playlist.Progress {
			return &barProgress{w: w, catalog: catalog}
		}
	}
	return func(catalog string) playlist.Progress {
		return &logProgress{
			logger:  logging.NewComponentLogger(logger, "progress").With(logging.String(logging.FieldCatalog, catalog)),
			sampler: logging.NewProgressSampler(25),
		}
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barProgress struct {
	w       io.Writer
	catalog string
	bar     *progressbar.ProgressBar
	done    int
}

func (p *barProgress) Start(total int) {
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(p.catalog),
		progressbar.OptionShowCount(),
	)
}

func (p *barProgress) Grow(n int) {
	if p.bar == nil || n <= 0 {
		return
	}
	p.bar.ChangeMax(p.bar.GetMax() + n)
}

func (p *barProgress) Step(label string) {
	if p.bar == nil {
		return
	}
	p.done++
	_ = p.bar.Add(1)
}

func (p *barProgress) Stop() {
	if p.bar == nil {
		return
	}
	if p.done >= p.bar.GetMax() {
		_ = p.bar.Finish()
	}
	fmt.Fprintln(p.w)
}

type logProgress struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	total   int
	done    int
}

func (p *logProgress) Start(total int) {
	p.total = total
	p.sampler.Reset()
	p.logger.Debug("writing playlist", logging.Int("total", total))
}

func (p *logProgress) Grow(n int) {
	p.total += n
}

func (p *logProgress) Step(label string) {
	p.done++
	if p.sampler.ShouldLog(p.done, p.total) {
		p.logger.Info("progress",
			logging.Int("done", p.done),
			logging.Int("total", p.total),
			logging.String("current", label),
		)
	}
}

func (p *logProgress) Stop() {
	p.logger.Debug("progress finished", logging.Int("done", p.done), logging.Int("total", p.total))
}
