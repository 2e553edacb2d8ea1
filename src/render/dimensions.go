package render

// Dimensions applies the width/height clamp rules used for charts. Input is
// the desired raw width (e.g. canvas width); height follows at a 1:3 aspect
// within readable bounds.
func Dimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// MiniHeight derives the stacked per-competitor panel height from the full
// chart height: half, clamped between 180 and 360.
func MiniHeight(fullChartHeight int) int {
	h := fullChartHeight / 2
	if h < 180 {
		h = 180
	}
	if h > 360 {
		h = 360
	}
	return h
}
