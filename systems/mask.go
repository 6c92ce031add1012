package systems

import (
	"math"

	"github.com/pthm-cable/bubbletrouble/components"
	"github.com/pthm-cable/bubbletrouble/config"
)

// Mask is a rasterised silhouette, one bit per pixel, stored row-major.
type Mask struct {
	W, H   int
	stride int // words per row
	bits   []uint64
}

// NewMask creates an empty w×h mask.
func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	stride := (w + 63) / 64
	return &Mask{W: w, H: h, stride: stride, bits: make([]uint64, stride*h)}
}

// Set marks pixel (x, y) as solid. Out of range pixels are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.bits[y*m.stride+x/64] |= 1 << uint(x%64)
}

// Get reports whether pixel (x, y) is solid.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits[y*m.stride+x/64]&(1<<uint(x%64)) != 0
}

// Count returns the number of solid pixels.
func (m *Mask) Count() int {
	n := 0
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.Get(x, y) {
				n++
			}
		}
	}
	return n
}

// Overlap reports whether any solid pixel of m coincides with a solid
// pixel of other when other's top-left corner sits at (dx, dy) relative
// to m's top-left corner.
func (m *Mask) Overlap(other *Mask, dx, dy int) bool {
	x0 := max(0, dx)
	y0 := max(0, dy)
	x1 := min(m.W, dx+other.W)
	y1 := min(m.H, dy+other.H)
	if x0 >= x1 || y0 >= y1 {
		return false
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.Get(x, y) && other.Get(x-dx, y-dy) {
				return true
			}
		}
	}
	return false
}

// RectMask returns a fully solid w×h mask.
func RectMask(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y)
		}
	}
	return m
}

// CircleMask rasterises a disc of the given radius. A pixel is solid when
// its centre lies inside the disc.
func CircleMask(radius float32) *Mask {
	d := ceilInt(2 * radius)
	m := NewMask(d, d)
	r := float64(radius)
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			px := float64(x) + 0.5 - r
			py := float64(y) + 0.5 - r
			if px*px+py*py <= r*r {
				m.Set(x, y)
			}
		}
	}
	return m
}

// HexagonMask rasterises a flat-sided hexagon inscribed in a circle of
// the given radius, with vertices pointing left and right.
func HexagonMask(radius float32) *Mask {
	d := ceilInt(2 * radius)
	m := NewMask(d, d)
	r := float64(radius)
	apothem := r * math.Sqrt(3) / 2
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			px := math.Abs(float64(x) + 0.5 - r)
			py := math.Abs(float64(y) + 0.5 - r)
			if py > apothem {
				continue
			}
			// Slanted edge from (r, 0) to (r/2, apothem).
			if px > r-py/math.Sqrt(3) {
				continue
			}
			m.Set(x, y)
		}
	}
	return m
}

// MaskCache holds the silhouettes used for pixel-exact collisions.
type MaskCache struct {
	bubbles [2][]*Mask
	Player  *Mask
	Bonus   *Mask
}

// NewMaskCache rasterises every silhouette named by the configuration.
func NewMaskCache(cfg *config.Config) *MaskCache {
	c := &MaskCache{
		Player: RectMask(ceilInt(float32(cfg.Player.Width)), ceilInt(float32(cfg.Player.Height))),
		Bonus:  RectMask(ceilInt(float32(cfg.Bonus.Size)), ceilInt(float32(cfg.Bonus.Size))),
	}
	for _, tier := range cfg.Bubbles.Ball.Tiers {
		c.bubbles[components.KindBall] = append(c.bubbles[components.KindBall], CircleMask(float32(tier.Radius)))
	}
	for _, tier := range cfg.Bubbles.Hexagon.Tiers {
		c.bubbles[components.KindHex] = append(c.bubbles[components.KindHex], HexagonMask(float32(tier.Radius)))
	}
	return c
}

// Bubble returns the silhouette of a kind and tier, or nil if undefined.
func (c *MaskCache) Bubble(kind components.Kind, tier int) *Mask {
	if int(kind) >= len(c.bubbles) {
		return nil
	}
	masks := c.bubbles[kind]
	if tier < 1 || tier > len(masks) {
		return nil
	}
	return masks[tier-1]
}
