package vision

import (
	"context"
	"testing"
)

func TestSynthetic_Capture(t *testing.T) {
	src := NewSynthetic(SyntheticConfig{Width: 64, Height: 48, Scene: SceneStill, Step: 0.1})
	defer src.Close()

	ctx := context.Background()

	frame, err := src.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := frame.Validate(); err != nil {
		t.Fatalf("Frame invalid: %v", err)
	}
	if frame.Width != 64 || frame.Height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", frame.Width, frame.Height)
	}
}

func TestSynthetic_StillSceneIsStatic(t *testing.T) {
	src := NewSynthetic(SyntheticConfig{Width: 64, Height: 48, Scene: SceneStill, Step: 0.1})
	defer src.Close()

	ctx := context.Background()

	a, err := src.Capture(ctx)
	if err != nil {
		t.Fatalf("First capture failed: %v", err)
	}
	b, err := src.Capture(ctx)
	if err != nil {
		t.Fatalf("Second capture failed: %v", err)
	}

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("Still scene changed at pixel %d: %d != %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestSynthetic_WalkSceneMoves(t *testing.T) {
	src := NewSynthetic(SyntheticConfig{Width: 64, Height: 48, Scene: SceneWalk, Step: 0.2})
	defer src.Close()

	ctx := context.Background()

	a, _ := src.Capture(ctx)
	b, _ := src.Capture(ctx)

	changed := 0
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Error("Walk scene produced identical consecutive frames")
	}
}

func TestSynthetic_ClosedCapture(t *testing.T) {
	src := NewSynthetic(DefaultSyntheticConfig())
	src.Close()

	if _, err := src.Capture(context.Background()); err != ErrSourceClosed {
		t.Errorf("Expected ErrSourceClosed, got %v", err)
	}
}

func TestFrame_Validate(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantErr bool
	}{
		{"valid", Frame{Pix: make([]uint8, 12), Width: 4, Height: 3}, false},
		{"empty", Frame{}, true},
		{"mismatched", Frame{Pix: make([]uint8, 10), Width: 4, Height: 3}, true},
		{"zero width", Frame{Pix: make([]uint8, 12), Width: 0, Height: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
