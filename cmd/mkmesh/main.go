package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"coinjar/engine/assets"
	"coinjar/engine/meshgen"
)

func main() {
	var (
		outDir = flag.String("out", "assets", "Output directory.")
		sides  = flag.Int("sides", 16, "Polygon sides of the jar and coin rims.")
		jarR   = flag.Float64("jar-radius", 2, "Jar radius.")
		jarH   = flag.Float64("jar-height", 3, "Jar height.")
		coinR  = flag.Float64("coin-radius", 0.5, "Coin radius.")
		coinT  = flag.Float64("coin-thickness", 0.1, "Coin thickness.")
	)
	flag.Parse()

	if *sides < 3 || *sides%2 != 0 {
		fatalf("sides must be an even number >= 4 so the rim crosses z=0: %d", *sides)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("mkdir: %v", err)
	}

	meshes := []struct {
		file string
		name string
		mesh assets.MeshData
	}{
		{"jar.glb", "jar", meshgen.Jar(float32(*jarR), float32(*jarH), *sides)},
		{"coin.glb", "coin", meshgen.Coin(float32(*coinR), float32(*coinT), *sides)},
	}
	for _, m := range meshes {
		path := filepath.Join(*outDir, m.file)
		if err := assets.WriteGLB(path, m.name, m.mesh); err != nil {
			fatalf("write %s: %v", path, err)
		}
		fmt.Printf("%s: %d vertices, %d triangles\n", path, len(m.mesh.Positions), m.mesh.Triangles())
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
