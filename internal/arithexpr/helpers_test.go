package arithexpr_test

import "strconv"

func formatFloat(f float64) string {
	return "(" + strconv.FormatFloat(f, 'g', -1, 64) + ")"
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
