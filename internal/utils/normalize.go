package utils

import (
	"math"
	"strconv"
)

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item; positions past the uint16 range
// share the last rank.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := 0; i < count; i++ {
		if i+1 >= math.MaxUint16 {
			ranks[i] = math.MaxUint16
			continue
		}
		ranks[i] = uint16(i + 1)
	}
	return ranks
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	digits := []byte(strconv.Itoa(n))
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return string(out)
}

