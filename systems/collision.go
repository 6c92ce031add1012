package systems

// Rect is an axis-aligned box in field pixels.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// CenteredRect returns the box of half extents (hw, hh) around (cx, cy).
func CenteredRect(cx, cy, hw, hh float32) Rect {
	return Rect{Left: cx - hw, Top: cy - hh, Right: cx + hw, Bottom: cy + hh}
}

// Overlaps reports whether two boxes share interior area. Boxes that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && r.Right > o.Left && r.Top < o.Bottom && r.Bottom > o.Top
}

// WeaponRect returns the box covered by a shot: a chain of the given width
// from its tip down to the floor.
func WeaponRect(x, tipY, width, floor float32) Rect {
	return Rect{Left: x - width/2, Top: tipY, Right: x + width/2, Bottom: floor}
}

// Sprite places a mask in the field by its top-left pixel.
type Sprite struct {
	Mask *Mask
	X, Y int
}

// SpriteAt anchors a mask so that its centre lies at (cx, cy).
func SpriteAt(m *Mask, cx, cy float32) Sprite {
	return Sprite{
		Mask: m,
		X:    floorInt(cx - float32(m.W)/2),
		Y:    floorInt(cy - float32(m.H)/2),
	}
}

// Collide reports pixel-exact overlap of two placed sprites.
func Collide(a, b Sprite) bool {
	if a.Mask == nil || b.Mask == nil {
		return false
	}
	return a.Mask.Overlap(b.Mask, b.X-a.X, b.Y-a.Y)
}
