package stubber

import (
	"testing"
	"time"
)

func TestGovernor_GatesOnFreshReading(t *testing.T) {
	free := 5000
	g := &Governor{MemFree: func() int { return free }, Threshold: 3200}
	if !g.AllowNested() {
		t.Fatalf("expected nested expansion allowed at %d bytes free", free)
	}
	free = 1000
	if g.AllowNested() {
		t.Fatalf("expected nested expansion denied at %d bytes free", free)
	}
	// Decisions are greedy on the freshest reading; recovery re-enables.
	free = 3200
	if !g.AllowNested() {
		t.Fatalf("expected nested expansion allowed again at threshold")
	}
}

func TestGovernor_NilIsPermissive(t *testing.T) {
	var g *Governor
	if !g.AllowNested() {
		t.Fatalf("nil governor must allow")
	}
	g = &Governor{Threshold: 3200}
	if !g.AllowNested() {
		t.Fatalf("governor without a memory source must allow")
	}
}

func TestWatchdog_PetResetsStarvation(t *testing.T) {
	w := NewWatchdog()
	time.Sleep(10 * time.Millisecond)
	if !w.Starved(time.Millisecond) {
		t.Fatalf("expected starvation after quiet period")
	}
	w.Pet()
	if w.Starved(time.Second) {
		t.Fatalf("expected no starvation right after a pet")
	}
}
