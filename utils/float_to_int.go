// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt clamps x to [-1, 1] and scales it to signed PCM of the given
// bit depth. Unknown depths are treated as 16-bit.
func Float32ToInt(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use the positive max to avoid overflow at +1.
	return int(float64(x) * float64(FullScale(bitDepth)-1))
}

// IntToFloat32 normalizes a signed PCM sample of the given bit depth to
// [-1, 1).
func IntToFloat32(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(FullScale(bitDepth)))
}

// FullScale returns 2^(bitDepth-1), the magnitude of the most negative
// sample. Unknown depths are treated as 16-bit.
func FullScale(bitDepth int) int64 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}
