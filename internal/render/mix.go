package render

// Mix writes a*(1-alpha) + b*alpha into dst. dst may alias a or b, which is
// how the engine blends a new frame into the previous one.
// Channels are linear; no gamma assumed.
func Mix(dst, a, b []Color, alpha float64) {
	if alpha <= 0 {
		copy(dst, a)
		return
	}
	if alpha >= 1 {
		copy(dst, b)
		return
	}
	af := float32(1.0 - alpha)
	bf := float32(alpha)
	for i := range dst {
		dst[i] = Color{
			R: a[i].R*af + b[i].R*bf,
			G: a[i].G*af + b[i].G*bf,
			B: a[i].B*af + b[i].B*bf,
		}
	}
}
