package systems

import "math"

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// absf returns the absolute value of a float32.
func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// floorInt rounds a float32 down to an int.
func floorInt(v float32) int {
	return int(math.Floor(float64(v)))
}

// ceilInt rounds a float32 up to an int.
func ceilInt(v float32) int {
	return int(math.Ceil(float64(v)))
}
