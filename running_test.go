package sash

import (
	"testing"
	"time"
)

func TestRedrawTargetImmediateWinsOverSchedule(t *testing.T) {
	var target redrawTarget
	target.scheduleAt(time.Now().Add(time.Hour))
	target.setImmediate()
	if target.kind != redrawImmediate {
		t.Fatalf("expected immediate, got %v", target.kind)
	}
	// A later schedule cannot demote an immediate request.
	target.scheduleAt(time.Now().Add(time.Hour))
	if target.kind != redrawImmediate {
		t.Fatalf("schedule demoted an immediate redraw")
	}
}

func TestRedrawTargetSoonerScheduleWins(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)
	sooner := now.Add(time.Minute)

	var target redrawTarget
	target.scheduleAt(later)
	target.scheduleAt(sooner)
	if target.kind != redrawScheduled || !target.at.Equal(sooner) {
		t.Fatalf("expected schedule at %v, got %v at %v", sooner, target.kind, target.at)
	}
	// Scheduling something later keeps the earlier deadline.
	target.scheduleAt(later)
	if !target.at.Equal(sooner) {
		t.Fatalf("later schedule moved the deadline to %v", target.at)
	}
}

func TestRedrawTargetZeroValueMeansNone(t *testing.T) {
	var target redrawTarget
	if target.kind != redrawNone {
		t.Fatalf("zero target should mean no redraw, got %v", target.kind)
	}
}
