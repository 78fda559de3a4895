package render

// bayer4 is the 4x4 ordered dithering matrix, normalized to [0,1).
var bayer4 = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

func init() {
	for y := range bayer4 {
		for x := range bayer4[y] {
			bayer4[y][x] /= 16
		}
	}
}

// DitherOffset is the signed per-pixel perturbation in [-amount/2, amount/2),
// applied to each channel before quantization to mask banding on the
// limited-palette panel.
func DitherOffset(x, y int, amount float64) float64 {
	return (bayer4[y&3][x&3] - 0.5) * amount
}
