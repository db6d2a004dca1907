package math

import "math"

// ToSRGB converts a linear RGB color to sRGB for display in color pickers.
func ToSRGB(linear [3]float32) [3]float32 {
	var out [3]float32
	for i, c := range linear {
		if c <= 0.0031308 {
			out[i] = c * 12.92
		} else {
			out[i] = float32(math.Pow(float64(c), 1/2.4))*1.055 - 0.055
		}
	}
	return out
}

// ToLinear converts an sRGB color back to linear RGB for storage.
func ToLinear(srgb [3]float32) [3]float32 {
	var out [3]float32
	for i, c := range srgb {
		if c <= 0.04045 {
			out[i] = c / 12.92
		} else {
			out[i] = float32(math.Pow(float64((c+0.055)/1.055), 2.4))
		}
	}
	return out
}
