package canvas

import (
	"image/color"
	"io"
	"testing"

	"coinjar/hal"
)

func newCanvas(t *testing.T) (*Canvas, hal.Framebuffer) {
	t.Helper()
	h := hal.NewHeadless(hal.Options{Width: 100, Height: 100, Console: io.Discard}, nil)
	fb := h.Framebuffer()
	c := New(fb)
	c.ClearBackground(BLACK)
	return c, fb
}

func near(t *testing.T, fb hal.Framebuffer, x, y int, want color.RGBA) {
	t.Helper()
	r, g, b, ok := hal.PixelRGB(fb, x, y)
	if !ok {
		t.Fatalf("pixel (%d,%d) out of range", x, y)
	}
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	if d(r, want.R) > 8 || d(g, want.G) > 8 || d(b, want.B) > 8 {
		t.Fatalf("pixel (%d,%d) = %d,%d,%d want %v", x, y, r, g, b, want)
	}
}

func TestWorldToScreen(t *testing.T) {
	c, _ := newCanvas(t)
	x, y := c.WorldToScreen(Vec2{})
	if x != 50 || y != 50 {
		t.Fatalf("origin -> (%v,%v), want centre", x, y)
	}
	x, y = c.WorldToScreen(Vec2{X: -1, Y: 1})
	if x != 0 || y != 0 {
		t.Fatalf("(-1,1) -> (%v,%v), want top-left", x, y)
	}

	c.SetCamera(Camera2D{Target: Vec2{Y: 5}, Zoom: Vec2{X: 0.1, Y: 0.1}})
	if _, y := c.WorldToScreen(Vec2{Y: 5}); y != 50 {
		t.Fatalf("target not centred: y=%v", y)
	}
}

func TestRectangles(t *testing.T) {
	c, fb := newCanvas(t)
	c.DrawRectangle(-0.3, -0.2, 0.01, 1, BLUE)
	c.DrawRectangle(0.3, -0.2, 0.01, 1, YELLOW)
	c.DrawRectangle(-0.3, 0.8, 0.6, 0.02, GREEN)

	near(t, fb, 35, 30, BLUE)
	near(t, fb, 65, 30, YELLOW)
	near(t, fb, 50, 9, GREEN)
	near(t, fb, 50, 50, BLACK)
}

func TestCircle(t *testing.T) {
	c, fb := newCanvas(t)
	c.DrawCircle(0, 0, 0.1, RED)
	near(t, fb, 50, 50, RED)
	near(t, fb, 50, 40, BLACK)
}

func TestClipping(t *testing.T) {
	c, _ := newCanvas(t)
	c.DrawRectangle(-5, -5, 10, 10, WHITE)
	c.DrawCircle(3, 3, 1, WHITE)
	c.SetPixel(-1, 200, WHITE)
}

func TestDrawText(t *testing.T) {
	c, fb := newCanvas(t)
	c.DrawText("Ball altitude: 1", 2, 10, WHITE)
	if c.TextWidth("Ball") <= 0 {
		t.Fatal("TextWidth = 0")
	}
	lit := 0
	for y := 0; y < 12; y++ {
		for x := 0; x < 60; x++ {
			if r, _, _, _ := hal.PixelRGB(fb, x, y); r > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("DrawText lit no pixels")
	}
}

func TestNilFramebuffer(t *testing.T) {
	c := New(nil)
	c.ClearBackground(BLACK)
	c.DrawRectangle(0, 0, 1, 1, BLUE)
	c.DrawText("x", 0, 0, WHITE)
	if w, h := c.Size(); w != 0 || h != 0 {
		t.Fatalf("Size = %d,%d", w, h)
	}
	if err := c.Display(); err != nil {
		t.Fatal(err)
	}
}
