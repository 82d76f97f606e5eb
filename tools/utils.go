package tools

import (
	"encoding/json"
	"math"
)

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

const (
	FloatMin = 0.000001
)

// IsFloatEqual compares two coordinates within the round trip tolerance of the projections
func IsFloatEqual(f1, f2 float64) bool {
	return math.Abs(f1-f2) < FloatMin
}

// ZeroIfNegligible maps values within FloatMin of zero, negative zero included, to zero
func ZeroIfNegligible(f float64) float64 {
	if IsFloatEqual(f, 0) {
		return 0
	}
	return f
}
