package playlist

// Progress receives incremental updates while a catalog is written. The total
// is approximate: archive members are added with Grow as they are discovered.
type Progress interface {
	Start(total int)
	Grow(n int)
	Step(label string)
	Stop()
}

// ProgressFactory creates a Progress reporter for the named catalog.
type ProgressFactory func(catalog string) Progress

type nopProgress struct{}

func (nopProgress) Start(int)   {}
func (nopProgress) Grow(int)    {}
func (nopProgress) Step(string) {}
func (nopProgress) Stop()       {}

// stopOnce guards Stop so the reporter is finalized exactly once.
type stopOnce struct {
	Progress
	stopped bool
}

func (p *stopOnce) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	p.Progress.Stop()
}
