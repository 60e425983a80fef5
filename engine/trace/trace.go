// Package trace records one JSON line per frame into a zstd stream.
package trace

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Body is the state of one simulated body after a frame.
type Body struct {
	Entity uint64  `json:"entity"`
	Body   uint32  `json:"body"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
}

// Frame is one trace line.
type Frame struct {
	Tick   uint64 `json:"tick"`
	State  string `json:"state,omitempty"`
	Bodies []Body `json:"bodies"`
}

// Writer appends frames to a zstd-compressed JSONL stream.
type Writer struct {
	mu  sync.Mutex
	f   io.Closer
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens path for writing, creating parent directories.
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := newWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.f = f
	return w, nil
}

// NewWriter wraps dst. Closing the Writer does not close dst.
func NewWriter(dst io.Writer) (*Writer, error) {
	return newWriter(dst)
}

func newWriter(dst io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &Writer{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (w *Writer) Write(fr Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := json.Marshal(fr)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes buffered frames and finishes the zstd stream.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.w != nil {
		err = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if cerr := w.enc.Close(); err == nil {
			err = cerr
		}
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	return err
}

// ReadAll decodes every frame of a trace stream.
func ReadAll(r io.Reader) ([]Frame, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Frame
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var fr Frame
		if err := json.Unmarshal(sc.Bytes(), &fr); err != nil {
			return out, err
		}
		out = append(out, fr)
	}
	return out, sc.Err()
}
