package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for tick := uint64(0); tick < 3; tick++ {
		fr := Frame{Tick: tick, State: "main", Bodies: []Body{{Entity: 1, Body: 2, Y: 10 - float64(tick)}}}
		if err := w.Write(fr); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	frames, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	if frames[2].Tick != 2 || frames[2].Bodies[0].Y != 8 {
		t.Fatalf("frame 2 = %+v", frames[2])
	}
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.Write(Frame{Tick: 7}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	frames, err := ReadAll(f)
	if err != nil || len(frames) != 1 || frames[0].Tick != 7 {
		t.Fatalf("ReadAll = %+v, %v", frames, err)
	}
}
