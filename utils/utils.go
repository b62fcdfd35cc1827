package utils

import (
	// Go Internal Packages
	"strconv"
)

// SuccessRate formats completed/(completed+failed) as a percentage with
// two decimals. An empty window reports "0.00" rather than dividing by zero.
func SuccessRate(completed, failed int64) string {
	total := completed + failed
	if total == 0 {
		return "0.00"
	}
	rate := float64(completed) / float64(total) * 100
	return strconv.FormatFloat(rate, 'f', 2, 64)
}
