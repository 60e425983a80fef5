// Package assets loads meshes in the background and exposes their load state
// to the frame driver, which polls instead of blocking.
package assets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"coinjar/internal/logging"

	"golang.org/x/sync/singleflight"
)

var (
	ErrLoadFailed    = errors.New("asset load failed")
	ErrUnknownHandle = errors.New("unknown asset handle")
)

// LoadState is the resolution status of a requested asset.
type LoadState uint8

const (
	Pending LoadState = iota
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Handle is an opaque reference to a requested asset. The zero Handle is never issued.
type Handle uint32

// MeshData is a triangle list.
type MeshData struct {
	Positions [][3]float32
	Indices   []uint32
}

// Triangles reports the number of whole triangles.
func (m MeshData) Triangles() int { return len(m.Indices) / 3 }

// Loader decodes the asset at path.
type Loader interface {
	LoadMesh(ctx context.Context, path string) (MeshData, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (MeshData, error)

func (f LoaderFunc) LoadMesh(ctx context.Context, path string) (MeshData, error) {
	return f(ctx, path)
}

type slot struct {
	path  string
	state LoadState
	mesh  MeshData
	err   error
	gen   uint64
}

// Server tracks asset requests. Load returns immediately; decoding happens on a
// background goroutine and the result is published under the server lock.
type Server struct {
	loader Loader
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	byPath map[string]Handle
	slots  map[Handle]*slot
	next   Handle

	flight singleflight.Group
	wg     sync.WaitGroup
}

// NewServer returns a server decoding with loader.
func NewServer(loader Loader) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		loader: loader,
		ctx:    ctx,
		cancel: cancel,
		byPath: make(map[string]Handle),
		slots:  make(map[Handle]*slot),
	}
}

// Load requests the asset at path. Requesting the same path again returns the
// same handle without decoding twice.
func (s *Server) Load(path string) Handle {
	path = filepath.ToSlash(filepath.Clean(path))

	s.mu.Lock()
	if h, ok := s.byPath[path]; ok {
		s.mu.Unlock()
		return h
	}
	s.next++
	h := s.next
	sl := &slot{path: path, state: Pending}
	s.byPath[path] = h
	s.slots[h] = sl
	s.mu.Unlock()

	s.start(h, sl.path, 0)
	return h
}

// Reload re-decodes a previously requested asset. Its state returns to Pending
// until the new result lands.
func (s *Server) Reload(h Handle) error {
	s.mu.Lock()
	sl, ok := s.slots[h]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("reload %d: %w", h, ErrUnknownHandle)
	}
	sl.gen++
	sl.state = Pending
	sl.err = nil
	path, gen := sl.path, sl.gen
	s.mu.Unlock()

	s.start(h, path, gen)
	return nil
}

func (s *Server) start(h Handle, path string, gen uint64) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		v, err, _ := s.flight.Do(path, func() (any, error) {
			return s.loader.LoadMesh(s.ctx, path)
		})
		mesh, _ := v.(MeshData)
		s.publish(h, gen, mesh, err)
	}()
}

func (s *Server) publish(h Handle, gen uint64, mesh MeshData, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[h]
	if !ok || sl.gen != gen {
		return
	}
	if err != nil {
		sl.state = Failed
		sl.err = fmt.Errorf("%w: %s: %v", ErrLoadFailed, sl.path, err)
		logging.Logger().Warn("asset load failed", "path", sl.path, "err", err)
		return
	}
	sl.state = Loaded
	sl.mesh = mesh
	logging.Logger().Debug("asset loaded", "path", sl.path, "triangles", mesh.Triangles())
}

// State reports the load state of h. Unknown handles are Failed.
func (s *Server) State(h Handle) LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[h]
	if !ok {
		return Failed
	}
	return sl.state
}

// Err returns the failure reason of h, if any.
func (s *Server) Err(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[h]
	if !ok {
		return fmt.Errorf("%d: %w", h, ErrUnknownHandle)
	}
	return sl.err
}

// GroupState combines the states of hs: Failed if any failed, Loaded if all
// loaded, Pending otherwise. An empty group is Loaded.
func (s *Server) GroupState(hs ...Handle) LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := true
	for _, h := range hs {
		sl, ok := s.slots[h]
		if !ok || sl.state == Failed {
			return Failed
		}
		if sl.state != Loaded {
			all = false
		}
	}
	if all {
		return Loaded
	}
	return Pending
}

// Mesh returns the decoded mesh once h is Loaded. The state is returned
// alongside so callers can branch instead of assuming availability.
func (s *Server) Mesh(h Handle) (MeshData, LoadState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[h]
	if !ok {
		return MeshData{}, Failed
	}
	if sl.state != Loaded {
		return MeshData{}, sl.state
	}
	return sl.mesh, Loaded
}

// Path returns the cleaned path h was requested with.
func (s *Server) Path(h Handle) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.slots[h]; ok {
		return sl.path
	}
	return ""
}

// Wait blocks until every in-flight load has published its result.
func (s *Server) Wait() { s.wg.Wait() }

// Close cancels in-flight loads and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}
