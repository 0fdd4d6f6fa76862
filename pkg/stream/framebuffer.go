package stream

// frameBuffer accumulates interleaved samples and slices them into
// fixed-size frames. Opus only accepts exact frame lengths, so partial
// input is held until the next push completes a frame.
type frameBuffer struct {
	buf       []int16
	frameSize int // total interleaved samples per frame
}

func newFrameBuffer(frameSize int) *frameBuffer {
	return &frameBuffer{frameSize: frameSize}
}

// push appends samples and returns every complete frame now available.
// Returned frames alias internal storage only until the next push.
func (b *frameBuffer) push(samples []int16) [][]int16 {
	b.buf = append(b.buf, samples...)

	var frames [][]int16
	for len(b.buf) >= b.frameSize {
		frames = append(frames, b.buf[:b.frameSize])
		b.buf = b.buf[b.frameSize:]
	}
	return frames
}

// pending returns how many buffered samples are waiting for a full frame.
func (b *frameBuffer) pending() int { return len(b.buf) }

// reset discards buffered samples.
func (b *frameBuffer) reset() { b.buf = b.buf[:0] }
