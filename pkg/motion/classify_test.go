package motion

import "testing"

func TestClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		energy   float64
		velocity float64
		want     Type
	}{
		{"no motion", 0.0, 0.0, Still},
		{"below still threshold", 0.1, 0.9, Still},
		{"still boundary stays still", 0.15, 0.0, Still},
		{"still boundary with high velocity", 0.15, 0.9, Still},
		{"waving in place", 0.5, 0.1, Local},
		{"velocity boundary stays local", 0.5, 0.3, Local},
		{"walking", 0.8, 0.8, Global},
		{"just past both boundaries", 0.16, 0.31, Global},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.energy, tt.velocity, th)
			if got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v",
					tt.energy, tt.velocity, got, tt.want)
			}
		})
	}
}

func TestType_String(t *testing.T) {
	if Still.String() != "still" || Local.String() != "local" || Global.String() != "global" {
		t.Errorf("unexpected names: %v %v %v", Still, Local, Global)
	}
}
