// Package quarkgl is the render scene graph used by the 3D demo.
//
// A Scene holds a camera, a light and a fixed-capacity table of meshes addressed by id.
// Render entities own a mesh id and push a fresh model transform into the scene once
// per tick; the Renderer then draws the whole scene into a caller-provided Target.
//
// Pipeline (fixed):
//
//	Scene → Transform → Projection → Clipping → Rasterization → Frame output.
//
// Math is float32 and built on mathgl (mgl32): matrices are column-major, as in OpenGL.
package quarkgl
