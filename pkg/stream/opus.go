// Package stream encodes the synthesis output into Opus packets for the
// browser monitor. The speaker path plays raw PCM; this is a side tap.
package stream

import (
	"fmt"
	"log/slog"

	"gopkg.in/hraban/opus.v2"

	"github.com/somaticlab/stillwave/pkg/audioio"
)

const (
	// OpusRate is the encoder sample rate. libopus does not accept
	// 44100, so monitor audio is resampled up to 48k first.
	OpusRate = 48000

	// FrameSamples is samples per channel in one 20ms packet at 48kHz.
	FrameSamples = 960

	// maxPacketBytes is the largest packet libopus can produce.
	maxPacketBytes = 4000
)

// Encoder turns PCM16 blocks from the synthesis engine into 20ms Opus
// packets. Input may arrive at any rate and block size; the encoder
// resamples and reframes internally. Not safe for concurrent use.
type Encoder struct {
	enc      *opus.Encoder
	logger   *slog.Logger
	inRate   int
	channels int
	frames   *frameBuffer
	packets  int64
}

// NewEncoder creates a monitor encoder for interleaved PCM16 input at
// inRate Hz.
func NewEncoder(inRate, channels int, logger *slog.Logger) (*Encoder, error) {
	if inRate <= 0 || channels < 1 || channels > 2 {
		return nil, fmt.Errorf("stream: invalid input format %dHz/%dch", inRate, channels)
	}
	if logger == nil {
		logger = slog.Default()
	}

	enc, err := opus.NewEncoder(OpusRate, channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("stream: create opus encoder: %w", err)
	}
	if err := enc.SetBitrate(64000 * channels); err != nil {
		logger.Warn("failed to set opus bitrate", "error", err)
	}

	return &Encoder{
		enc:      enc,
		logger:   logger,
		inRate:   inRate,
		channels: channels,
		frames:   newFrameBuffer(FrameSamples * channels),
	}, nil
}

// Push feeds one PCM block and returns zero or more encoded packets.
// Each returned packet is an independent copy.
func (e *Encoder) Push(pcm []int16) ([][]byte, error) {
	resampled := audioio.Resample(pcm, e.channels, e.inRate, OpusRate)

	var packets [][]byte
	for _, frame := range e.frames.push(resampled) {
		buf := make([]byte, maxPacketBytes)
		n, err := e.enc.Encode(frame, buf)
		if err != nil {
			return packets, fmt.Errorf("stream: opus encode: %w", err)
		}
		packets = append(packets, buf[:n])
		e.packets++
	}
	return packets, nil
}

// Reset discards buffered samples, e.g. after the engine restarts.
func (e *Encoder) Reset() { e.frames.reset() }

// PacketCount returns how many packets have been encoded.
func (e *Encoder) PacketCount() int64 { return e.packets }
