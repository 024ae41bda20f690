package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/sashkit/sash/platform"
)

func TestNormalHintsCarryAllCreationConstraints(t *testing.T) {
	attrs := platform.DefaultAttributes()
	attrs.Position = &platform.Position{X: 10, Y: 20}
	attrs.MinInnerSize = &platform.Size{Width: 100, Height: 80}
	attrs.ResizeIncrements = &platform.Size{Width: 8, Height: 16}

	hints := normalHints(attrs)
	wantFlags := uint(icccm.SizeHintPPosition | icccm.SizeHintPMinSize | icccm.SizeHintPResizeInc)
	if hints.Flags != wantFlags {
		t.Fatalf("expected flags %#x, got %#x", wantFlags, hints.Flags)
	}
	if hints.MinWidth != 100 || hints.MinHeight != 80 {
		t.Fatalf("min size hint wrong: %dx%d", hints.MinWidth, hints.MinHeight)
	}
	if hints.WidthInc != 8 || hints.HeightInc != 16 {
		t.Fatalf("resize increments wrong: %dx%d", hints.WidthInc, hints.HeightInc)
	}
}

func TestNormalHintsPinFixedSizeWindows(t *testing.T) {
	attrs := platform.DefaultAttributes()
	attrs.Resizable = false
	attrs.InnerSize = &platform.Size{Width: 640, Height: 480}

	hints := normalHints(attrs)
	if hints.Flags&icccm.SizeHintPMinSize == 0 || hints.Flags&icccm.SizeHintPMaxSize == 0 {
		t.Fatalf("fixed-size window should pin min and max, flags %#x", hints.Flags)
	}
	if hints.MinWidth != 640 || hints.MaxWidth != 640 {
		t.Fatalf("expected pinned width 640, got min %d max %d", hints.MinWidth, hints.MaxWidth)
	}
}

func TestMergeSizeHintsPreserveEachOther(t *testing.T) {
	attrs := platform.DefaultAttributes()
	attrs.ResizeIncrements = &platform.Size{Width: 4, Height: 4}
	hints := *normalHints(attrs)

	mergeMaxSizeHint(&hints, &platform.Size{Width: 1024, Height: 768})
	mergeMinSizeHint(&hints, &platform.Size{Width: 320, Height: 240})

	// Setting the min must not lose the max or the creation-time increments.
	if hints.Flags&icccm.SizeHintPMaxSize == 0 {
		t.Fatalf("min update dropped the max constraint, flags %#x", hints.Flags)
	}
	if hints.MaxWidth != 1024 || hints.MaxHeight != 768 {
		t.Fatalf("max constraint changed: %dx%d", hints.MaxWidth, hints.MaxHeight)
	}
	if hints.Flags&icccm.SizeHintPResizeInc == 0 || hints.WidthInc != 4 {
		t.Fatalf("resize increments lost, flags %#x inc %d", hints.Flags, hints.WidthInc)
	}
	if hints.Flags&icccm.SizeHintPMinSize == 0 || hints.MinWidth != 320 {
		t.Fatalf("min constraint missing, flags %#x min %d", hints.Flags, hints.MinWidth)
	}

	// Lifting the min leaves the max alone.
	mergeMinSizeHint(&hints, nil)
	if hints.Flags&icccm.SizeHintPMinSize != 0 || hints.MinWidth != 0 {
		t.Fatalf("min constraint not lifted, flags %#x min %d", hints.Flags, hints.MinWidth)
	}
	if hints.Flags&icccm.SizeHintPMaxSize == 0 || hints.MaxWidth != 1024 {
		t.Fatalf("lifting min disturbed the max, flags %#x max %d", hints.Flags, hints.MaxWidth)
	}
}
