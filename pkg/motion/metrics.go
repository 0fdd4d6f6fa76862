// Package motion quantifies body movement between consecutive video frames.
//
// A dense optical flow field is estimated with Farneback polynomial
// expansion, then reduced to a small set of metrics: overall motion energy,
// the motion-weighted centroid, the centroid's frame-to-frame velocity, and
// a three-way classification (still / local / global). The flow-field math
// is pure and lives in field.go; only the frame-to-flow step touches OpenCV.
package motion

import "fmt"

// Type classifies the character of detected motion.
type Type int

const (
	// Still means no significant motion (energy at or below the still
	// threshold).
	Still Type = iota

	// Local means high energy with low centroid displacement, such as
	// waving an arm while standing in place.
	Local

	// Global means high energy and high displacement, such as walking
	// across the frame.
	Global
)

// String returns the lowercase name of the motion type.
func (t Type) String() string {
	switch t {
	case Still:
		return "still"
	case Local:
		return "local"
	case Global:
		return "global"
	default:
		return fmt.Sprintf("motion.Type(%d)", int(t))
	}
}

// MarshalJSON encodes the type as its name, which is what the dashboard
// displays.
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts the names produced by MarshalJSON.
func (t *Type) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"still"`:
		*t = Still
	case `"local"`:
		*t = Local
	case `"global"`:
		*t = Global
	default:
		return fmt.Errorf("motion: unknown type %s", data)
	}
	return nil
}

// Point is a normalized frame position, both coordinates in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metrics is one quantified motion reading. It is produced once per cycle
// and consumed immediately by the chaos calculator.
type Metrics struct {
	// Energy is the mean flow magnitude normalized to [0,1].
	Energy float64 `json:"energy"`

	// Velocity is the frame-to-frame displacement of the motion
	// centroid, normalized by the frame diagonal to [0,1].
	Velocity float64 `json:"velocity"`

	// Center is the motion-weighted centroid of the flow field.
	Center Point `json:"center"`

	// Type is the motion classification.
	Type Type `json:"type"`
}

// zeroMetrics is the reading reported before any flow exists: centered,
// still, no energy.
func zeroMetrics() Metrics {
	return Metrics{Center: Point{X: 0.5, Y: 0.5}, Type: Still}
}
