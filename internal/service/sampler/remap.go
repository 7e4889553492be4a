package sampler

import (
	"github.com/samber/lo"
)

// Remap maps x linearly from [inMin, inMax] onto [outMin, outMax] with
// integer arithmetic. Values outside the input range are extrapolated, not
// clamped. The input range may be descending. inMin must differ from inMax.
func Remap(x, inMin, inMax, outMin, outMax int64) int64 {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// Mean returns the arithmetic mean of the samples truncated toward zero.
// An empty batch has a mean of zero.
func Mean(samples []int16) int64 {
	if len(samples) == 0 {
		return 0
	}

	sum := lo.SumBy(samples, func(s int16) int64 {
		return int64(s)
	})

	return sum / int64(len(samples))
}
