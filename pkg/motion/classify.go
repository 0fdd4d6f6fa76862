package motion

// Thresholds are the classification boundaries.
// Boundary values resolve to the lower-chaos branch: a reading exactly at
// StillMax is Still, and a reading exactly at LocalMaxVelocity is Local.
type Thresholds struct {
	// StillMax is the highest energy still classified as Still.
	StillMax float64 `json:"still_max"`

	// LocalMaxVelocity is the highest velocity still classified as
	// Local once energy exceeds StillMax.
	LocalMaxVelocity float64 `json:"local_max_velocity"`
}

// DefaultThresholds returns the tuned classification boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StillMax:         0.15,
		LocalMaxVelocity: 0.3,
	}
}

// Classify maps (energy, velocity) to a motion type.
//
// The decision table, evaluated in order:
//
//	energy <= StillMax                -> Still
//	velocity <= LocalMaxVelocity      -> Local  (moving in place)
//	otherwise                         -> Global (moving through the frame)
func Classify(energy, velocity float64, th Thresholds) Type {
	switch {
	case energy <= th.StillMax:
		return Still
	case velocity <= th.LocalMaxVelocity:
		return Local
	default:
		return Global
	}
}
