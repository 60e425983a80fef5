package cli

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"coinjar/app"
	"coinjar/engine/trace"
)

func TestRunHeadlessWritesTrace(t *testing.T) {
	dir := t.TempDir()
	fs := flag.NewFlagSet("ballbounce", flag.ContinueOnError)
	f := Register(fs)
	tracePath := filepath.Join(dir, "run.jsonl.zst")
	if err := fs.Parse([]string{"-headless", "-hz", "1000", "-ticks", "5", "-trace", tracePath, "-log-level", "error"}); err != nil {
		t.Fatal(err)
	}

	if err := Run(context.Background(), "ballbounce", f, app.BallBounceApp); err != nil {
		t.Fatalf("Run: %v", err)
	}

	file, err := os.Open(tracePath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	frames, err := trace.ReadAll(file)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(frames) != 5 || len(frames[0].Bodies) != 1 {
		t.Fatalf("frames = %+v", frames)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	cases := [][]string{
		{"-headless", "-log-level", "loud"},
		{"-headless", "-keys", "soon:space"},
		{"-headless", "-config", "/does/not/exist.yaml"},
	}
	for _, args := range cases {
		fs := flag.NewFlagSet("coinjar", flag.ContinueOnError)
		f := Register(fs)
		if err := fs.Parse(args); err != nil {
			t.Fatal(err)
		}
		if err := Run(context.Background(), "coinjar", f, app.CoinJarApp); err == nil {
			t.Fatalf("Run(%v) succeeded", args)
		}
	}
}

func TestHzSetsPhysicsStep(t *testing.T) {
	fs := flag.NewFlagSet("ballbounce", flag.ContinueOnError)
	f := Register(fs)
	if err := fs.Parse([]string{"-hz", "30"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := f.config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Physics.Hz != 30 || cfg.Integration().Dt != 1.0/30 {
		t.Fatalf("hz=%d dt=%v, want 30 and 1/30", cfg.Physics.Hz, cfg.Integration().Dt)
	}

	fs = flag.NewFlagSet("ballbounce", flag.ContinueOnError)
	f = Register(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if cfg, err = f.config(); err != nil || cfg.Physics.Hz != app.DefaultConfig().Physics.Hz {
		t.Fatalf("default hz = %d, %v", cfg.Physics.Hz, err)
	}
}
