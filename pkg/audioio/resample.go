package audioio

// Resample converts interleaved PCM16 audio from one sample rate to
// another using per-channel linear interpolation. Good enough for the
// dashboard monitor stream; the speaker path never resamples.
func Resample(samples []int16, channels, fromRate, toRate int) []int16 {
	if fromRate == toRate || channels <= 0 {
		return samples
	}
	frames := len(samples) / channels
	if frames == 0 {
		return []int16{}
	}

	ratio := float64(fromRate) / float64(toRate)
	outFrames := int(float64(frames) / ratio)
	if outFrames == 0 {
		return []int16{}
	}

	out := make([]int16, outFrames*channels)
	for i := 0; i < outFrames; i++ {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		for ch := 0; ch < channels; ch++ {
			if srcIdx >= frames-1 {
				out[i*channels+ch] = samples[(frames-1)*channels+ch]
				continue
			}
			s1 := float64(samples[srcIdx*channels+ch])
			s2 := float64(samples[(srcIdx+1)*channels+ch])
			out[i*channels+ch] = int16(s1 + frac*(s2-s1))
		}
	}
	return out
}

// SamplesToBytes converts int16 samples to raw PCM16 little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		data[i*2] = byte(s)
		data[i*2+1] = byte(s >> 8)
	}
	return data
}

// BytesToSamples converts raw PCM16 little-endian bytes to int16 samples.
func BytesToSamples(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}

// CalculateRMS returns the root mean square of samples, normalized to
// [0,1]. The dashboard level meter uses this.
func CalculateRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	rms := sum / float64(len(samples))
	return rms / (32767 * 32767)
}
