// Package canvas is an immediate-mode 2D drawing surface over an RGB565
// framebuffer. World coordinates go through a Camera2D (Y up); text is drawn in
// screen pixels with tinyfont.
package canvas

import (
	"image/color"

	"coinjar/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var (
	BLACK  = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	WHITE  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	BLUE   = color.RGBA{R: 0x00, G: 0x79, B: 0xF1, A: 0xFF}
	YELLOW = color.RGBA{R: 0xFD, G: 0xF9, B: 0x00, A: 0xFF}
	GREEN  = color.RGBA{R: 0x00, G: 0xE4, B: 0x30, A: 0xFF}
	RED    = color.RGBA{R: 0xE6, G: 0x29, B: 0x37, A: 0xFF}
	GRAY   = color.RGBA{R: 0x82, G: 0x82, B: 0x82, A: 0xFF}
)

// Vec2 is a point in world units.
type Vec2 struct {
	X, Y float32
}

// Camera2D maps world space to the screen. With Zoom (1, 1) and Target at the
// origin the visible area is [-1, 1] on both axes.
type Camera2D struct {
	Target Vec2
	Zoom   Vec2
}

// DefaultCamera shows [-1, 1] x [-1, 1] centred on the origin.
func DefaultCamera() Camera2D {
	return Camera2D{Zoom: Vec2{X: 1, Y: 1}}
}

// Canvas draws into a framebuffer. It also implements drivers.Displayer so
// tinyfont can render onto it.
type Canvas struct {
	fb   hal.Framebuffer
	cam  Camera2D
	font tinyfont.Fonter
}

var _ drivers.Displayer = (*Canvas)(nil)

// New returns a canvas over fb with the default camera and the TomThumb font.
func New(fb hal.Framebuffer) *Canvas {
	return &Canvas{fb: fb, cam: DefaultCamera(), font: &tinyfont.TomThumb}
}

func (c *Canvas) ok() bool {
	return c != nil && c.fb != nil && c.fb.Format() == hal.PixelFormatRGB565 && c.fb.Buffer() != nil
}

// SetCamera sets the transform used by the shape functions.
func (c *Canvas) SetCamera(cam Camera2D) {
	if cam.Zoom == (Vec2{}) {
		cam.Zoom = Vec2{X: 1, Y: 1}
	}
	c.cam = cam
}

// WorldToScreen projects a world point to pixel coordinates.
func (c *Canvas) WorldToScreen(p Vec2) (x, y float32) {
	w, h := c.dims()
	nx := (p.X - c.cam.Target.X) * c.cam.Zoom.X
	ny := (p.Y - c.cam.Target.Y) * c.cam.Zoom.Y
	return (nx + 1) * 0.5 * float32(w), (1 - ny) * 0.5 * float32(h)
}

func (c *Canvas) dims() (int, int) {
	if c == nil || c.fb == nil {
		return 0, 0
	}
	return c.fb.Width(), c.fb.Height()
}

func (c *Canvas) ClearBackground(col color.RGBA) {
	if !c.ok() {
		return
	}
	c.fb.ClearRGB(col.R, col.G, col.B)
}

// DrawRectangle fills the world-space rectangle with lower-left corner (x, y).
func (c *Canvas) DrawRectangle(x, y, w, h float32, col color.RGBA) {
	x0, y0 := c.WorldToScreen(Vec2{X: x, Y: y + h})
	x1, y1 := c.WorldToScreen(Vec2{X: x + w, Y: y})
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	ix0, iy0 := round(x0), round(y0)
	// Thin shapes still cover at least one pixel.
	c.fillRect(ix0, iy0, max(round(x1), ix0+1), max(round(y1), iy0+1), col)
}

// DrawCircle fills a world-space circle.
func (c *Canvas) DrawCircle(x, y, r float32, col color.RGBA) {
	cx, cy := c.WorldToScreen(Vec2{X: x, Y: y})
	ex, _ := c.WorldToScreen(Vec2{X: x + r, Y: y})
	_, ey := c.WorldToScreen(Vec2{X: x, Y: y + r})
	rx, ry := abs32(ex-cx), abs32(ey-cy)
	if rx < 0.5 {
		rx = 0.5
	}
	if ry < 0.5 {
		ry = 0.5
	}
	for py := int(cy - ry); py <= int(cy+ry); py++ {
		for px := int(cx - rx); px <= int(cx+rx); px++ {
			dx := (float32(px) + 0.5 - cx) / rx
			dy := (float32(py) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				c.put(px, py, col)
			}
		}
	}
}

// DrawText writes a line of text with its baseline at screen pixel (x, y).
func (c *Canvas) DrawText(text string, x, y int16, col color.RGBA) {
	if !c.ok() {
		return
	}
	tinyfont.WriteLine(c, c.font, x, y, text, col)
}

// TextWidth reports the pixel width of text in the current font.
func (c *Canvas) TextWidth(text string) int {
	_, w := tinyfont.LineWidth(c.font, text)
	return int(w)
}

func (c *Canvas) fillRect(x0, y0, x1, y1 int, col color.RGBA) {
	w, h := c.dims()
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, w), min(y1, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.put(x, y, col)
		}
	}
}

func (c *Canvas) put(x, y int, col color.RGBA) {
	if !c.ok() {
		return
	}
	w, h := c.dims()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	buf := c.fb.Buffer()
	off := y*c.fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	p := rgb565From888(col.R, col.G, col.B)
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	w, h := c.dims()
	return int16(w), int16(h)
}

// SetPixel implements drivers.Displayer.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) { c.put(int(x), int(y), col) }

// Display presents the framebuffer.
func (c *Canvas) Display() error {
	if c == nil || c.fb == nil {
		return nil
	}
	return c.fb.Present()
}

func round(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}
