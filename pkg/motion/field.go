package motion

import "math"

// Field is a dense per-pixel flow field: one (dx, dy) vector per pixel,
// in pixels of displacement.
type Field struct {
	// Vec holds interleaved dx,dy pairs in row-major order,
	// len = Width*Height*2. This matches the memory layout of a
	// CV_32FC2 mat, so the analyzer can wrap OpenCV output without
	// copying.
	Vec []float32

	Width  int
	Height int
}

// At returns the flow vector at (x, y).
func (f *Field) At(x, y int) (dx, dy float64) {
	i := (y*f.Width + x) * 2
	return float64(f.Vec[i]), float64(f.Vec[i+1])
}

// FieldStats is the reduction of a flow field used by the analyzer.
type FieldStats struct {
	// MeanMagnitude is the average vector length in pixels.
	MeanMagnitude float64

	// Centroid is the magnitude-weighted center of motion, normalized
	// to [0,1] in each axis. When the field carries no motion the
	// centroid defaults to the frame center.
	Centroid Point
}

// reduce computes FieldStats in a single pass.
// ok is false when the field contains non-finite values; callers must then
// fall back to their previous valid reading rather than propagate garbage.
func reduce(f *Field) (stats FieldStats, ok bool) {
	n := f.Width * f.Height
	if n == 0 || len(f.Vec) < n*2 {
		return FieldStats{Centroid: Point{X: 0.5, Y: 0.5}}, false
	}

	var magSum, wxSum, wySum float64
	for y := 0; y < f.Height; y++ {
		row := y * f.Width * 2
		for x := 0; x < f.Width; x++ {
			dx := float64(f.Vec[row+x*2])
			dy := float64(f.Vec[row+x*2+1])
			mag := math.Sqrt(dx*dx + dy*dy)
			if math.IsNaN(mag) || math.IsInf(mag, 0) {
				return FieldStats{Centroid: Point{X: 0.5, Y: 0.5}}, false
			}
			magSum += mag
			wxSum += mag * float64(x)
			wySum += mag * float64(y)
		}
	}

	stats.MeanMagnitude = magSum / float64(n)

	// A (near) motionless field has no meaningful centroid; report the
	// frame center so downstream panning stays neutral.
	if magSum < 1e-9 {
		stats.Centroid = Point{X: 0.5, Y: 0.5}
		return stats, true
	}

	stats.Centroid = Point{
		X: wxSum / magSum / float64(f.Width-1),
		Y: wySum / magSum / float64(f.Height-1),
	}
	return stats, true
}

// energyFrom converts a mean flow magnitude to normalized energy.
// scale is the magnitude (in pixels) treated as full-scale motion.
func energyFrom(meanMagnitude, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return clamp01(meanMagnitude / scale)
}

// velocityFrom converts a centroid displacement to normalized velocity.
// The displacement is measured in working-resolution pixels and normalized
// by the frame diagonal.
func velocityFrom(prev, cur Point, width, height int) float64 {
	dx := (cur.X - prev.X) * float64(width)
	dy := (cur.Y - prev.Y) * float64(height)
	diag := math.Hypot(float64(width), float64(height))
	if diag == 0 {
		return 0
	}
	return clamp01(math.Hypot(dx, dy) / diag)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
