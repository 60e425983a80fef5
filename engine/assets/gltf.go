package assets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLTFLoader decodes glTF (.gltf or .glb) files found under Root. All triangle
// primitives of all meshes are merged into one MeshData.
type GLTFLoader struct {
	Root string
}

func (l GLTFLoader) LoadMesh(ctx context.Context, path string) (MeshData, error) {
	if err := ctx.Err(); err != nil {
		return MeshData{}, err
	}
	doc, err := gltf.Open(filepath.Join(l.Root, filepath.FromSlash(path)))
	if err != nil {
		return MeshData{}, err
	}
	return meshFromDocument(doc)
}

func meshFromDocument(doc *gltf.Document) (MeshData, error) {
	var out MeshData
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok || posIdx >= len(doc.Accessors) {
				continue
			}
			pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return MeshData{}, fmt.Errorf("mesh %q positions: %w", mesh.Name, err)
			}

			var idx []uint32
			if prim.Indices != nil {
				if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
					return MeshData{}, fmt.Errorf("mesh %q indices: accessor %d out of range", mesh.Name, *prim.Indices)
				}
				idx, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return MeshData{}, fmt.Errorf("mesh %q indices: %w", mesh.Name, err)
				}
			} else {
				idx = make([]uint32, len(pos))
				for i := range idx {
					idx[i] = uint32(i)
				}
			}

			base := uint32(len(out.Positions))
			out.Positions = append(out.Positions, pos...)
			for _, i := range idx {
				out.Indices = append(out.Indices, base+i)
			}
		}
	}
	if out.Triangles() == 0 {
		return MeshData{}, fmt.Errorf("no triangle primitives")
	}
	return out, nil
}

// WriteGLB stores m as a single-mesh binary glTF file.
func WriteGLB(path, name string, m MeshData) error {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, m.Positions)
	idx := modeler.WriteIndices(doc, m.Indices)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return gltf.SaveBinary(doc, path)
}
