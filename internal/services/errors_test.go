package services_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"lplmaker/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrSourceUnreadable, "scan", "list directory", "/roms/nes", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrSourceUnreadable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"scan", "list directory", "/roms/nes"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestFailureClassification(t *testing.T) {
	source := services.Wrap(services.ErrSourceUnreadable, "scan", "list", "", fs.ErrNotExist)
	if !services.IsCatalogFatal(source) {
		t.Fatal("expected source failure to be catalog fatal")
	}
	if !errors.Is(source, fs.ErrNotExist) {
		t.Fatal("expected not-exist cause to be preserved")
	}
	dest := services.Wrap(services.ErrDestinationUnwritable, "commit", "rename", "", nil)
	if !services.IsCatalogFatal(dest) {
		t.Fatal("expected destination failure to be catalog fatal")
	}
	archive := services.Wrap(services.ErrArchiveUnreadable, "expand", "open zip", "", nil)
	if services.IsCatalogFatal(archive) {
		t.Fatal("archive failures must stay local to the archive")
	}
	cfg := services.Wrap(services.ErrConfiguration, "config", "load", "", nil)
	if !services.IsRunFatal(cfg) || services.IsCatalogFatal(cfg) {
		t.Fatal("expected configuration failure to be run fatal only")
	}
}
