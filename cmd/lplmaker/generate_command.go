package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lplmaker/internal/config"
	"lplmaker/internal/history"
	"lplmaker/internal/logging"
	"lplmaker/internal/playlist"
	"lplmaker/internal/services"
	"lplmaker/internal/staging"
	"lplmaker/internal/title"
)

// staleStagingAge is how old a leftover staging file must be before a new run
// removes it.
const staleStagingAge = time.Hour

// errRunLocked reports that another generation run holds the state lock.
var errRunLocked = errors.New("another lplmaker run is in progress")

type generateOptions struct {
	only []string
	yes  bool
}

func (o *generateOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&o.only, "only", nil, "Generate only the named playlists (PlaylistName or table key)")
	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Replace existing playlists without asking")
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Scan ROM directories and write playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// catalogOutcome pairs a generation result with its error for the summary.
type catalogOutcome struct {
	result   playlist.Result
	err      error
	duration time.Duration
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, opts generateOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger(cmd)
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (lock held at %s)", errRunLocked, cfg.LockPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	staging.CleanStale(cmd.Context(), cfg.StagingDir(), playlist.StagingPattern, staleStagingAge, logger)

	catalogs, problems := cfg.Catalogs()
	for _, problem := range problems {
		logger.Error("playlist skipped", logging.Error(problem))
	}
	catalogs, err = selectCatalogs(catalogs, opts.only)
	if err != nil {
		return err
	}
	if len(catalogs) == 0 {
		logger.Warn("no playlists to generate")
		return nil
	}

	runID := uuid.NewString()
	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	runCtx = services.WithRunID(runCtx, runID)

	guard := newInterruptGuard(cancel)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	go guard.watch(runCtx, signals)

	store := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	var confirmer playlist.Confirmer
	if opts.yes {
		confirmer = autoConfirmer(logger)
	} else {
		confirmer = newPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), guard)
	}
	gen := playlist.NewGenerator(newTitleResolver(cfg, store, logger), confirmer,
		playlist.WithLogger(logger),
		playlist.WithStagingDir(cfg.StagingDir()),
		playlist.WithProgress(newProgressFactory(cmd.ErrOrStderr(), logger)),
	)

	logging.WithContext(runCtx, logger).Info("generation started",
		logging.Int("playlists", len(catalogs)),
	)

	outcomes := make([]catalogOutcome, 0, len(catalogs))
	for _, catalog := range catalogs {
		started := time.Now()
		result, genErr := gen.Generate(runCtx, catalog)
		outcome := catalogOutcome{result: result, err: genErr, duration: time.Since(started)}
		outcomes = append(outcomes, outcome)

		catalogLogger := logging.WithContext(services.WithCatalog(runCtx, catalog.Name), logger)
		stop := false
		if genErr != nil && runCtx.Err() == nil {
			stop = logCatalogFailure(catalogLogger, genErr)
		}
		recordOutcome(context.WithoutCancel(runCtx), store, runID, started, outcome, catalogLogger)

		if stop {
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(runID, outcomes))
			return genErr
		}
		if runCtx.Err() != nil {
			break
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(runID, outcomes))

	if err := runCtx.Err(); err != nil {
		logger.Warn("generation interrupted")
		return err
	}
	return nil
}

// selectCatalogs keeps the catalogs named in only, matching PlaylistName or
// table key. An unknown name is a configuration error.
func selectCatalogs(catalogs []config.Catalog, only []string) ([]config.Catalog, error) {
	if len(only) == 0 {
		return catalogs, nil
	}
	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = false
		}
	}
	var selected []config.Catalog
	for _, catalog := range catalogs {
		for _, name := range []string{catalog.Name, catalog.Key} {
			if _, ok := wanted[name]; ok {
				wanted[name] = true
				selected = append(selected, catalog)
				break
			}
		}
	}
	var unknown []string
	for _, name := range only {
		name = strings.TrimSpace(name)
		if matched, ok := wanted[name]; ok && !matched {
			unknown = append(unknown, strconv.Quote(name))
		}
	}
	if len(unknown) > 0 {
		return nil, services.Wrap(services.ErrConfiguration, "generate", "select playlists",
			"unknown playlist "+strings.Join(unknown, ", "), nil)
	}
	return selected, nil
}

func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("history unavailable; runs will not be recorded", logging.Error(err))
		return nil
	}
	return store
}

func newTitleResolver(cfg *config.Config, store *history.Store, logger *slog.Logger) *title.Resolver {
	opts := []title.Option{title.WithLogger(logger)}
	if cfg.TitleCache && store != nil {
		opts = append(opts, title.WithCache(store))
	}
	return title.New(cfg.Mame, opts...)
}

// logCatalogFailure logs why a catalog was not written and reports whether
// the error must end the whole run.
func logCatalogFailure(logger *slog.Logger, err error) bool {
	switch {
	case services.IsRunFatal(err):
		logger.Error("run aborted", logging.Error(err))
		return true
	case services.IsCatalogFatal(err):
		logger.Error("playlist not written", logging.Error(err))
	default:
		logger.Error("playlist generation failed unexpectedly", logging.Error(err))
	}
	return false
}

func recordOutcome(ctx context.Context, store *history.Store, runID string, started time.Time, outcome catalogOutcome, logger *slog.Logger) {
	if store == nil {
		return
	}
	state := outcome.result.State
	if !state.Terminal() {
		state = playlist.StateFailed
	}
	gen := history.Generation{
		RunID:           runID,
		Catalog:         outcome.result.Catalog,
		OutputPath:      outcome.result.OutputPath,
		State:           state.String(),
		Entries:         outcome.result.Entries,
		ArchivesSkipped: outcome.result.ArchivesSkipped,
		StartedAt:       started,
		FinishedAt:      started.Add(outcome.duration),
	}
	if outcome.err != nil {
		gen.ErrorMessage = outcome.err.Error()
	}
	if _, err := store.RecordGeneration(ctx, gen); err != nil {
		logger.Warn("failed to record generation", logging.Error(err))
	}
}

func renderSummary(runID string, outcomes []catalogOutcome) string {
	rows := make([][]string, 0, len(outcomes))
	var entries, skipped, committed int
	for _, o := range outcomes {
		note := ""
		switch {
		case o.err != nil:
			note = summarizeError(o.err)
		case o.result.State == playlist.StateAborted:
			note = "existing playlist kept"
		case o.result.Replaced:
			note = "replaced"
		}
		if o.result.State == playlist.StateCommitted {
			committed++
		}
		entries += o.result.Entries
		skipped += o.result.ArchivesSkipped
		rows = append(rows, []string{
			o.result.Catalog,
			o.result.State.String(),
			strconv.Itoa(o.result.Entries),
			strconv.Itoa(o.result.ArchivesSkipped),
			o.duration.Round(time.Millisecond).String(),
			note,
		})
	}
	return tableView{
		Title:   "Run " + runID,
		Headers: []string{"Playlist", "State", "Entries", "Skipped archives", "Duration", "Note"},
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		Rows:    rows,
		Footer: []string{
			fmt.Sprintf("%d/%d written", committed, len(outcomes)),
			"",
			strconv.Itoa(entries),
			strconv.Itoa(skipped),
			"",
			"",
		},
	}.render()
}

func summarizeError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, services.ErrSourceUnreadable):
		return "source unreadable"
	case errors.Is(err, services.ErrDestinationUnwritable):
		return "destination unwritable"
	case errors.Is(err, services.ErrConfiguration):
		return "configuration error"
	default:
		return err.Error()
	}
}
