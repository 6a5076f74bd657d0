package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"lplmaker/internal/logging"
	"lplmaker/internal/playlist"
)

// interruptGuard routes interrupts for one run. While a confirmation prompt
// is open an interrupt declines that prompt; at any other time it cancels the
// run.
type interruptGuard struct {
	mu     sync.Mutex
	prompt chan struct{}
	cancel context.CancelFunc
}

func newInterruptGuard(cancel context.CancelFunc) *interruptGuard {
	return &interruptGuard{cancel: cancel}
}

// watch consumes signals until ctx is done or an interrupt cancels the run.
func (g *interruptGuard) watch(ctx context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			if g.declinePrompt() {
				continue
			}
			g.cancel()
			return
		}
	}
}

func (g *interruptGuard) declinePrompt() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.prompt == nil {
		return false
	}
	close(g.prompt)
	g.prompt = nil
	return true
}

// beginPrompt marks a prompt as open. The returned channel closes when an
// interrupt declines it.
func (g *interruptGuard) beginPrompt() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompt = make(chan struct{})
	return g.prompt
}

func (g *interruptGuard) endPrompt() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompt = nil
}

type lineResult struct {
	err error
}

// promptConfirmer asks on the terminal before an existing playlist is
// replaced. Any input line confirms; end of input or an interrupt declines.
type promptConfirmer struct {
	in    io.Reader
	out   io.Writer
	guard *interruptGuard

	readOnce sync.Once
	lines    chan lineResult
}

func newPromptConfirmer(in io.Reader, out io.Writer, guard *interruptGuard) *promptConfirmer {
	return &promptConfirmer{in: in, out: out, guard: guard}
}

func (p *promptConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprintf(p.out, "!! WARNING: %s\n", message)
	fmt.Fprint(p.out, "Press [ENTER] key to continue or CTRL+C to abort...")

	var interrupted <-chan struct{}
	if p.guard != nil {
		interrupted = p.guard.beginPrompt()
		defer p.guard.endPrompt()
	}

	select {
	case res, ok := <-p.input():
		fmt.Fprintln(p.out)
		if !ok || res.err != nil {
			return false, nil
		}
		return true, nil
	case <-interrupted:
		fmt.Fprintln(p.out)
		return false, nil
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	}
}

// input starts a single reader goroutine; the channel closes at end of input.
// A prompt declined by an interrupt leaves the reader blocked on its read, so
// the next line typed answers the next prompt. On a terminal Ctrl+C discards
// pending input, so no stale line survives.
func (p *promptConfirmer) input() <-chan lineResult {
	p.readOnce.Do(func() {
		p.lines = make(chan lineResult)
		go func() {
			defer close(p.lines)
			scanner := bufio.NewScanner(p.in)
			for scanner.Scan() {
				p.lines <- lineResult{}
			}
			if err := scanner.Err(); err != nil {
				p.lines <- lineResult{err: err}
			}
		}()
	})
	return p.lines
}

// autoConfirmer approves every replacement, for --yes.
func autoConfirmer(logger *slog.Logger) playlist.Confirmer {
	return playlist.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
		logging.WithContext(ctx, logger).Info("replacing existing playlist without prompting")
		return true, nil
	})
}
