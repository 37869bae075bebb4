// Package audio holds PCM helpers used to fit local recordings to the sample
// rates the recognizer accepts.
package audio

import (
	"encoding/binary"
	"fmt"
)

const bytesPerSample = 2

// ResamplePCM16 resamples mono little-endian 16-bit PCM from one rate to
// another using linear interpolation.
func ResamplePCM16(input []byte, fromRate, toRate int) ([]byte, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates: from=%d, to=%d", fromRate, toRate)
	}
	if len(input)%bytesPerSample != 0 {
		return nil, fmt.Errorf("input length %d is not a multiple of %d bytes per sample", len(input), bytesPerSample)
	}
	if fromRate == toRate {
		return append([]byte(nil), input...), nil
	}

	in := len(input) / bytesPerSample
	out := int(int64(in) * int64(toRate) / int64(fromRate))
	if in == 0 || out == 0 {
		return []byte{}, nil
	}

	sample := func(i int) float64 {
		//nolint:gosec // PCM16 stores int16 in two little-endian bytes
		return float64(int16(binary.LittleEndian.Uint16(input[i*bytesPerSample:])))
	}

	output := make([]byte, out*bytesPerSample)
	step := float64(fromRate) / float64(toRate)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)

		var v float64
		if idx >= in-1 {
			v = sample(in - 1)
		} else {
			s0, s1 := sample(idx), sample(idx+1)
			v = s0 + (pos-float64(idx))*(s1-s0)
		}
		//nolint:gosec // value is within int16 range
		binary.LittleEndian.PutUint16(output[i*bytesPerSample:], uint16(int16(v)))
	}

	return output, nil
}

// NearestRate picks the target rate for rate from supported (sorted ascending):
// rate itself if supported, else the smallest supported rate above it, else
// the largest supported rate.
func NearestRate(rate int, supported []int) int {
	if len(supported) == 0 {
		return rate
	}
	for _, r := range supported {
		if r >= rate {
			return r
		}
	}
	return supported[len(supported)-1]
}
