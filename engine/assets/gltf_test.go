package assets

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func quad() MeshData {
	return MeshData{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestGLBRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := WriteGLB(filepath.Join(dir, "quad.glb"), "quad", quad()); err != nil {
		t.Fatalf("WriteGLB: %v", err)
	}

	got, err := GLTFLoader{Root: dir}.LoadMesh(context.Background(), "quad.glb")
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	want := quad()
	if len(got.Positions) != len(want.Positions) || len(got.Indices) != len(want.Indices) {
		t.Fatalf("got %d positions %d indices, want %d %d",
			len(got.Positions), len(got.Indices), len(want.Positions), len(want.Indices))
	}
	for i := range want.Indices {
		if got.Indices[i] != want.Indices[i] {
			t.Fatalf("index %d = %d, want %d", i, got.Indices[i], want.Indices[i])
		}
	}
	if got.Positions[2] != want.Positions[2] {
		t.Fatalf("position 2 = %v, want %v", got.Positions[2], want.Positions[2])
	}
}

func TestGLTFLoaderMissingFile(t *testing.T) {
	_, err := GLTFLoader{Root: t.TempDir()}.LoadMesh(context.Background(), "nope.glb")
	if err == nil {
		t.Fatal("LoadMesh of a missing file succeeded")
	}
}

func TestGLTFLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (GLTFLoader{Root: t.TempDir()}).LoadMesh(ctx, "quad.glb"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestShippedAssets(t *testing.T) {
	l := GLTFLoader{Root: filepath.Join("..", "..", "assets")}
	for _, tc := range []struct {
		path      string
		triangles int
	}{
		{"jar.glb", 48},
		{"coin.glb", 64},
	} {
		m, err := l.LoadMesh(context.Background(), tc.path)
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		if m.Triangles() != tc.triangles {
			t.Fatalf("%s: %d triangles, want %d", tc.path, m.Triangles(), tc.triangles)
		}
	}
}

func TestBadIndexAccessorFailsLoad(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, quad().Positions)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "broken",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(len(doc.Accessors) + 5),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	})
	if _, err := meshFromDocument(doc); err == nil {
		t.Fatal("meshFromDocument accepted an out-of-range index accessor")
	}

	dir := t.TempDir()
	if err := gltf.SaveBinary(doc, filepath.Join(dir, "broken.glb")); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	s := NewServer(GLTFLoader{Root: dir})
	defer s.Close()
	h := s.Load("broken.glb")
	s.Wait()
	if st := s.State(h); st != Failed {
		t.Fatalf("State = %v, want failed", st)
	}
}
