package stream

import "testing"

func TestFrameBuffer_ExactFrame(t *testing.T) {
	fb := newFrameBuffer(4)
	frames := fb.push([]int16{1, 2, 3, 4})
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	if fb.pending() != 0 {
		t.Errorf("pending = %d, want 0", fb.pending())
	}
}

func TestFrameBuffer_PartialThenComplete(t *testing.T) {
	fb := newFrameBuffer(4)
	if frames := fb.push([]int16{1, 2, 3}); frames != nil {
		t.Fatalf("Partial push produced %d frames", len(frames))
	}
	if fb.pending() != 3 {
		t.Errorf("pending = %d, want 3", fb.pending())
	}
	frames := fb.push([]int16{4, 5})
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	want := []int16{1, 2, 3, 4}
	for i, s := range want {
		if frames[0][i] != s {
			t.Errorf("frame[%d] = %d, want %d", i, frames[0][i], s)
		}
	}
	if fb.pending() != 1 {
		t.Errorf("pending = %d, want 1", fb.pending())
	}
}

func TestFrameBuffer_MultipleFramesOnePush(t *testing.T) {
	fb := newFrameBuffer(2)
	frames := fb.push([]int16{1, 2, 3, 4, 5})
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	if fb.pending() != 1 {
		t.Errorf("pending = %d, want 1", fb.pending())
	}
}

func TestFrameBuffer_Reset(t *testing.T) {
	fb := newFrameBuffer(4)
	fb.push([]int16{1, 2})
	fb.reset()
	if fb.pending() != 0 {
		t.Errorf("pending after reset = %d, want 0", fb.pending())
	}
}
