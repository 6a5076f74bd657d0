package playlist_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lplmaker/internal/config"
	"lplmaker/internal/playlist"
	"lplmaker/internal/services"
	"lplmaker/internal/testsupport"
)

type stubConfirmer struct {
	answer   bool
	err      error
	calls    int
	messages []string
}

func (s *stubConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	s.calls++
	s.messages = append(s.messages, message)
	return s.answer, s.err
}

type recordingProgress struct {
	total int
	steps []string
	stops int
}

func (p *recordingProgress) Start(total int)   { p.total = total }
func (p *recordingProgress) Grow(n int)        { p.total += n }
func (p *recordingProgress) Step(label string) { p.steps = append(p.steps, label) }
func (p *recordingProgress) Stop()             { p.stops++ }

type upperTitles struct {
	lookups int
}

func (u *upperTitles) Resolve(ctx context.Context, stem string, lookup bool) string {
	if !lookup {
		return stem
	}
	u.lookups++
	return strings.ToUpper(stem)
}

type fixture struct {
	roms     string
	staging  string
	catalog  config.Catalog
	confirm  *stubConfirmer
	progress *recordingProgress
	titles   *upperTitles
}

func newFixture(t *testing.T, extensions ...string) *fixture {
	t.Helper()
	base := t.TempDir()
	f := &fixture{
		roms:     filepath.Join(base, "roms", "nes"),
		staging:  filepath.Join(base, "staging"),
		confirm:  &stubConfirmer{},
		progress: &recordingProgress{},
		titles:   &upperTitles{},
	}
	for _, dir := range []string{f.roms, f.staging} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if len(extensions) == 0 {
		extensions = []string{"nes"}
	}
	f.catalog = config.Catalog{
		Key:         "nes",
		Name:        "Nintendo - NES",
		SourceDir:   f.roms,
		Extensions:  extensions,
		CoreLibrary: config.DetectCore,
		CoreName:    config.DetectCore,
		OutputPath:  filepath.Join(base, "retroarch", "playlists", "Nintendo - NES.lpl"),
	}
	return f
}

func (f *fixture) generator() *playlist.Generator {
	return playlist.NewGenerator(f.titles, f.confirm,
		playlist.WithStagingDir(f.staging),
		playlist.WithProgress(func(string) playlist.Progress { return f.progress }),
	)
}

func (f *fixture) assertStagingEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.staging)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging dir not cleaned up: %d leftover file(s)", len(entries))
	}
}

func record(path, title, name string) string {
	return playlist.FormatRecord(path, title, config.DetectCore, config.DetectCore, name)
}

func TestGenerateWritesPlainEntriesInOrder(t *testing.T) {
	f := newFixture(t)
	testsupport.TouchFiles(t, f.roms, "game2.nes", "game1.nes", "readme.txt")

	result, err := f.generator().Generate(context.Background(), f.catalog)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.State != playlist.StateCommitted || result.Entries != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	want := record(filepath.Join(f.roms, "game1.nes"), "game1", f.catalog.Name) +
		record(filepath.Join(f.roms, "game2.nes"), "game2", f.catalog.Name)
	if got := testsupport.ReadFile(t, f.catalog.OutputPath); got != want {
		t.Fatalf("playlist content mismatch\n got: %q\nwant: %q", got, want)
	}
	if f.confirm.calls != 0 {
		t.Fatalf("confirmer must not be asked for a new playlist, got %d calls", f.confirm.calls)
	}
	if f.progress.total != 2 || f.progress.stops != 1 {
		t.Fatalf("progress total=%d stops=%d, want 2 and 1", f.progress.total, f.progress.stops)
	}
	f.assertStagingEmpty(t)
}

func TestGenerateIncludesArchiveMembers(t *testing.T) {
	f := newFixture(t)
	f.catalog.ScanArchives = true
	archive := filepath.Join(f.roms, "pack.zip")
	testsupport.WriteZip(t, archive, "a.nes", "a.txt")

	result, err := f.generator().Generate(context.Background(), f.catalog)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Entries != 1 || result.Archives != 1 || result.ArchivesSkipped != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	want := record(archive+"#a.nes", "a", f.catalog.Name)
	if got := testsupport.ReadFile(t, f.catalog.OutputPath); got != want {
		t.Fatalf("playlist content = %q, want %q", got, want)
	}
	if f.progress.total != 2 {
		t.Fatalf("progress total = %d, want archive plus its member", f.progress.total)
	}
	if strings.Join(f.progress.steps, ",") != "pack.zip,a.nes" {
		t.Fatalf("progress steps = %v, want archive then member", f.progress.steps)
	}
}

func TestGenerateIgnoresArchivesWhenDisabled(t *testing.T) {
	f := newFixture(t)
	testsupport.WriteZip(t, filepath.Join(f.roms, "pack.zip"), "a.nes")
	testsupport.TouchFiles(t, f.roms, "b.nes")

	result, err := f.generator().Generate(context.Background(), f.catalog)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Entries != 1 || result.Archives != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestGenerateSkipsCorruptArchive(t *testing.T) {
	f := newFixture(t)
	f.catalog.ScanArchives = true
	testsupport.WriteFile(t, filepath.Join(f.roms, "broken.zip"), "not a zip")
	testsupport.WriteZip(t, filepath.Join(f.roms, "good.zip"), "x.nes")
	testsupport.TouchFiles(t, f.roms, "plain.nes")

	result, err := f.generator().Generate(context.Background(), f.catalog)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.State != playlist.StateCommitted {
		t.Fatalf("state = %s, want committed", result.State)
	}
	if result.ArchivesSkipped != 1 || result.Entries != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestGenerateDeclineKeepsExistingPlaylist(t *testing.T) {
	f := newFixture(t)
	testsupport.TouchFiles(t, f.roms, "game1.nes")
	original := "previous playlist\n"
	testsupport.WriteFile(t, f.catalog.OutputPath, original)

	result, err := f.generator().Generate(context.Background(), f.catalog)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.State != playlist.StateAborted {
		t.Fatalf("state = %s, want aborted", result.State)
	}
	if f.confirm.calls != 1 {
		t.Fatalf("expected one confirmation, got %d", f.confirm.calls)
	}
	if !strings.Contains(f.confirm.messages[0], "Nintendo - NES.lpl") {
		t.Fatalf("confirmation message should name the playlist: %q", f.confirm.messages[0])
	}
	if got := testsupport.ReadFile(t, f.catalog.OutputPath); got != original {
		t.Fatalf("destination changed after decline: %q", got)
	}
	entries, err := os.ReadDir(filepath.Dir(f.catalog.OutputPath))
	if err != nil {
		t.Fatalf("read playlists dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the original playlist, found %d files", len(entries))
	}
	f.assertStagingEmpty(t)
	if f.progress.stops != 1 {
		t.Fatalf("progress stopped %d times, want 1", f.progress.stops)
	}
}

func TestGenerateConfirmReplacesPlaylistIdempotently(t *testing.T) {
	f := newFixture(t)
	f.confirm.answer = true
	testsupport.TouchFiles(t, f.roms, "game1.nes", "game2.nes")

	gen := f.generator()
	if _, err := gen.Generate(context.Background(), f.catalog); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	first := testsupport.ReadFile(t, f.catalog.OutputPath)

	result, err := gen.Generate(context.Background(), f.catalog)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if result.State != playlist.StateCommitted || !result.Replaced {
		t.Fatalf("unexpected result %+v", result)
	}
	if second := testsupport.ReadFile(t, f.catalog.OutputPath); second != first {
		t.Fatalf("regeneration changed content\nfirst:  %q\nsecond: %q", first, second)
	}
	if f.confirm.calls != 1 {
		t.Fatalf("expected confirmation only for the replacement, got %d", f.confirm.calls)
	}
}

func TestGenerateKeepsExistingPermissions(t *testing.T) {
	f := newFixture(t)
	f.confirm.answer = true
	testsupport.TouchFiles(t, f.roms, "game1.nes")
	testsupport.WriteFile(t, f.catalog.OutputPath, "old\n")
	if err := os.Chmod(f.catalog.OutputPath, 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if _, err := f.generator().Generate(context.Background(), f.catalog); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	info, err := os.Stat(f.catalog.OutputPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestGenerateConfirmerErrorFails(t *testing.T) {
	f := newFixture(t)
	f.confirm.err = errors.New("stdin closed")
	testsupport.TouchFiles(t, f.roms, "game1.nes")
	testsupport.WriteFile(t, f.catalog.OutputPath, "old\n")

	result, err := f.generator().Generate(context.Background(), f.catalog)
	if err == nil || result.State != playlist.StateFailed {
		t.Fatalf("expected failure, got %+v, %v", result, err)
	}
	if got := testsupport.ReadFile(t, f.catalog.OutputPath); got != "old\n" {
		t.Fatalf("destination changed: %q", got)
	}
	f.assertStagingEmpty(t)
}

func TestGenerateMissingSourceFails(t *testing.T) {
	f := newFixture(t)
	f.catalog.SourceDir = filepath.Join(f.roms, "absent")

	result, err := f.generator().Generate(context.Background(), f.catalog)
	if !errors.Is(err, services.ErrSourceUnreadable) {
		t.Fatalf("expected source unreadable, got %v", err)
	}
	if !services.IsCatalogFatal(err) {
		t.Fatal("missing source should be fatal for the catalog")
	}
	if result.State != playlist.StateFailed {
		t.Fatalf("state = %s, want failed", result.State)
	}
	if _, statErr := os.Stat(f.catalog.OutputPath); !os.IsNotExist(statErr) {
		t.Fatalf("no playlist should be written, stat err = %v", statErr)
	}
	f.assertStagingEmpty(t)
}

func TestGenerateDestinationDirectoryFails(t *testing.T) {
	f := newFixture(t)
	testsupport.TouchFiles(t, f.roms, "game1.nes")
	if err := os.MkdirAll(f.catalog.OutputPath, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := f.generator().Generate(context.Background(), f.catalog)
	if !errors.Is(err, services.ErrDestinationUnwritable) {
		t.Fatalf("expected destination unwritable, got %v", err)
	}
	if result.State != playlist.StateFailed {
		t.Fatalf("state = %s, want failed", result.State)
	}
	f.assertStagingEmpty(t)
}

func TestGenerateCancelledContextCleansUp(t *testing.T) {
	f := newFixture(t)
	testsupport.TouchFiles(t, f.roms, "game1.nes", "game2.nes")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.generator().Generate(ctx, f.catalog)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.State != playlist.StateFailed {
		t.Fatalf("state = %s, want failed", result.State)
	}
	if _, statErr := os.Stat(f.catalog.OutputPath); !os.IsNotExist(statErr) {
		t.Fatal("cancelled run must not create the playlist")
	}
	f.assertStagingEmpty(t)
	if f.progress.stops != 1 {
		t.Fatalf("progress stopped %d times, want 1", f.progress.stops)
	}
}

func TestGenerateLooksUpTitlesWhenEnabled(t *testing.T) {
	f := newFixture(t)
	f.catalog.LookupTitles = true
	testsupport.TouchFiles(t, f.roms, "pacman.nes")

	if _, err := f.generator().Generate(context.Background(), f.catalog); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := record(filepath.Join(f.roms, "pacman.nes"), "PACMAN", f.catalog.Name)
	if got := testsupport.ReadFile(t, f.catalog.OutputPath); got != want {
		t.Fatalf("playlist content = %q, want %q", got, want)
	}
	if f.titles.lookups != 1 {
		t.Fatalf("expected one lookup, got %d", f.titles.lookups)
	}
}

func TestGenerateWithoutConfirmerDeclines(t *testing.T) {
	f := newFixture(t)
	testsupport.TouchFiles(t, f.roms, "game1.nes")
	testsupport.WriteFile(t, f.catalog.OutputPath, "keep\n")

	gen := playlist.NewGenerator(nil, nil, playlist.WithStagingDir(f.staging))
	result, err := gen.Generate(context.Background(), f.catalog)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.State != playlist.StateAborted {
		t.Fatalf("state = %s, want aborted", result.State)
	}
}

func TestGenerateRealCoreLibraryPath(t *testing.T) {
	f := newFixture(t, "sfc", "smc")
	f.catalog.CoreLibrary = "/usr/lib/libretro/snes9x_libretro.so"
	f.catalog.CoreName = "Snes9x"
	testsupport.TouchFiles(t, f.roms, "b.smc", "a.sfc")

	if _, err := f.generator().Generate(context.Background(), f.catalog); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	content := testsupport.ReadFile(t, f.catalog.OutputPath)
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if len(lines) != 2*playlist.RecordLines {
		t.Fatalf("got %d lines, want %d", len(lines), 2*playlist.RecordLines)
	}
	if lines[2] != f.catalog.CoreLibrary || lines[3] != "Snes9x" {
		t.Fatalf("core lines = %q", lines[2:4])
	}
	if lines[0] != filepath.Join(f.roms, "a.sfc") || lines[6] != filepath.Join(f.roms, "b.smc") {
		t.Fatalf("entries out of order: %q, %q", lines[0], lines[6])
	}
}
