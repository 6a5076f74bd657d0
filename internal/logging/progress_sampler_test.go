package logging

import "testing"

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)
	var logged []int
	for done := 0; done <= 8; done++ {
		if s.ShouldLog(done, 8) {
			logged = append(logged, done)
		}
	}
	want := []int{0, 2, 4, 6, 8}
	if len(logged) != len(want) {
		t.Fatalf("logged = %v, want %v", logged, want)
	}
	for i := range want {
		if logged[i] != want[i] {
			t.Fatalf("logged = %v, want %v", logged, want)
		}
	}
}

func TestProgressSamplerGrowingTotal(t *testing.T) {
	s := NewProgressSampler(50)
	if !s.ShouldLog(1, 2) {
		t.Fatal("expected first half to log")
	}
	// Total grows as archive members are discovered; share drops, no new bucket.
	if s.ShouldLog(2, 10) {
		t.Fatal("expected no log when share falls back")
	}
	if !s.ShouldLog(10, 10) {
		t.Fatal("expected completion to log")
	}
}

func TestProgressSamplerUnknownTotalAndReset(t *testing.T) {
	s := NewProgressSampler(0)
	if !s.ShouldLog(3, 0) {
		t.Fatal("expected unknown total to log")
	}
	if !s.ShouldLog(10, 10) {
		t.Fatal("expected completion to log")
	}
	if s.ShouldLog(10, 10) {
		t.Fatal("expected duplicate completion to be suppressed")
	}
	s.Reset()
	if !s.ShouldLog(0, 10) {
		t.Fatal("expected reset sampler to log again")
	}
	var nilSampler *ProgressSampler
	if !nilSampler.ShouldLog(1, 2) {
		t.Fatal("nil sampler should always log")
	}
}
