package audio

import "fmt"

// SampleRate is the fixed rate of synthesized speech: 16-bit LE PCM,
// mono, 24 kHz.
const SampleRate = 24000

// DecodePCM16 converts raw little-endian 16-bit mono PCM bytes into
// normalized float32 samples in [-1, 1).
func DecodePCM16(raw []byte) ([]float32, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("odd PCM payload length %d", len(raw))
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}

// EncodePCM16 is the inverse of DecodePCM16, clamping out-of-range samples.
func EncodePCM16(samples []float32) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		raw[2*i] = byte(uint16(v))
		raw[2*i+1] = byte(uint16(v) >> 8)
	}
	return raw
}
