package preflight

import (
	"fmt"

	"lplmaker/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("ROM directory", cfg.RomsDir, AccessRead),
		CheckCreatableDirectory("Playlists directory", cfg.PlaylistsDir()),
		CheckCreatableDirectory("Staging directory", cfg.StagingDir()),
		CheckCreatableDirectory("State directory", cfg.StateDir),
	}

	catalogs, problems := cfg.Catalogs()
	for _, problem := range problems {
		results = append(results, Result{Name: "Playlist definition", Detail: problem.Error()})
	}

	lookups := false
	for _, catalog := range catalogs {
		results = append(results, CheckDirectoryAccess(
			fmt.Sprintf("%s source", catalog.Name), catalog.SourceDir, AccessRead))
		if catalog.CoreLibrary != config.DetectCore {
			results = append(results, CheckFile(fmt.Sprintf("%s core", catalog.Name), catalog.CoreLibrary))
		}
		lookups = lookups || catalog.LookupTitles
	}

	if lookups {
		results = append(results, CheckExecutable("Title lookup", cfg.Mame))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
