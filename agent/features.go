package agent

import (
	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/game"
)

// NumFeatures is the length of a feature vector.
const NumFeatures = 9

// Feature vector layout.
const (
	FeatureBubbleX = iota
	FeatureBubbleY
	FeaturePlayerX
	FeatureApproachX
	FeatureApproachY
	FeatureTier
	FeatureSpeedX
	FeatureSpeedY
	FeatureCount
)

// FeatureNames labels the entries of a feature vector.
var FeatureNames = [NumFeatures]string{
	"bubble_x", "bubble_y", "player_x", "approach_x", "approach_y",
	"tier", "speed_x", "speed_y", "count",
}

// FeatureScale holds the divisors that bring raw values near [0, 1].
type FeatureScale struct {
	MaxTier    int
	MaxSpeedX  float32
	MaxSpeedY  float32
	MaxBubbles int
}

// ScaleFromConfig derives feature scales from the simulation settings.
func ScaleFromConfig(cfg *config.Config) FeatureScale {
	s := FeatureScale{
		MaxTier:    max(cfg.Derived.MaxBallTier, cfg.Derived.MaxHexTier, 1),
		MaxSpeedX:  float32(max(cfg.Split.ChildSpeedX, 5)),
		MaxSpeedY:  float32(max(cfg.Split.KickY, 1)),
		MaxBubbles: 1 << max(cfg.Derived.MaxBallTier, cfg.Derived.MaxHexTier, 1),
	}
	for _, tier := range cfg.Bubbles.Ball.Tiers {
		s.MaxSpeedY = max(s.MaxSpeedY, float32(tier.MaxFall), float32(tier.Bounce))
	}
	return s
}

// FeatureExtractor turns snapshots into fixed-length vectors describing
// the bubble horizontally closest to a player. It remembers bubble
// positions between calls to tell whether that bubble is approaching, so
// one extractor must be fed the snapshots of a single episode and player
// in order.
type FeatureExtractor struct {
	scale FeatureScale
	prev  map[uint64][2]float32
}

// NewFeatureExtractor creates an extractor.
func NewFeatureExtractor(scale FeatureScale) *FeatureExtractor {
	if scale.MaxTier < 1 {
		scale.MaxTier = 1
	}
	if scale.MaxSpeedX <= 0 {
		scale.MaxSpeedX = 1
	}
	if scale.MaxSpeedY <= 0 {
		scale.MaxSpeedY = 1
	}
	if scale.MaxBubbles < 1 {
		scale.MaxBubbles = 1
	}
	return &FeatureExtractor{scale: scale, prev: make(map[uint64][2]float32)}
}

// Reset forgets remembered positions. Call it between episodes.
func (fe *FeatureExtractor) Reset() {
	clear(fe.prev)
}

// Extract returns the features for player and records the bubble
// positions of snap. With no bubbles on the field the closest bubble is
// taken to sit at the field centre, motionless.
func (fe *FeatureExtractor) Extract(snap *game.Snapshot, player int) []float64 {
	out := make([]float64, NumFeatures)
	if snap == nil || player < 0 || player >= len(snap.Players) {
		return out
	}

	w, h := snap.Field.Width, snap.Field.Height
	px := snap.Players[player].X
	bubbles := snap.Bubbles()

	out[FeatureBubbleX] = 0.5
	out[FeatureBubbleY] = 0.5
	out[FeaturePlayerX] = norm(px, w)
	out[FeatureCount] = float64(len(bubbles)) / float64(fe.scale.MaxBubbles)

	if len(bubbles) > 0 {
		b, dist := closestHorizontal(bubbles, float64(px))
		out[FeatureBubbleX] = norm(b.X, w)
		out[FeatureBubbleY] = norm(b.Y, h)
		out[FeatureTier] = float64(b.Tier) / float64(fe.scale.MaxTier)
		out[FeatureSpeedX] = norm(b.VX, fe.scale.MaxSpeedX)
		out[FeatureSpeedY] = norm(b.VY, fe.scale.MaxSpeedY)
		if last, ok := fe.prev[b.ID]; ok {
			if dist <= float64(absf(last[0]-px)) {
				out[FeatureApproachX] = 1
			}
			if b.Y <= last[1] {
				out[FeatureApproachY] = 1
			}
		}
	}

	clear(fe.prev)
	for _, b := range bubbles {
		fe.prev[b.ID] = [2]float32{b.X, b.Y}
	}
	return out
}

func norm(v, scale float32) float64 {
	if scale == 0 {
		return 0
	}
	return float64(v / scale)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
