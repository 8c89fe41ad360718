package answergen

import (
	"math"
	"math/rand"
)

// Distribution selects the sampling policy applied to a question's
// candidate answers across a batch of responses.
type Distribution string

const (
	DistUniform     Distribution = "uniform"
	DistWeighted    Distribution = "weighted"
	DistNormal      Distribution = "normal"
	DistSkewedLeft  Distribution = "skewed_left"
	DistSkewedRight Distribution = "skewed_right"
)

// OptionWeight pairs a candidate value with its relative weight.
type OptionWeight struct {
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
}

// QuestionDistribution is the caller-supplied sampling configuration for one
// question. Templates, when present, override everything else.
type QuestionDistribution struct {
	QuestionID string         `json:"question_id"`
	Type       Distribution   `json:"distribution_type"`
	Weights    []OptionWeight `json:"weights,omitempty"`
	Templates  []string       `json:"templates,omitempty"`
}

// pickUniform selects each candidate with equal probability.
func pickUniform(rng *rand.Rand, options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rng.Intn(len(options))]
}

// pickWeighted selects candidate i with probability weight_i / sum. When
// every weight is zero the last candidate wins.
func pickWeighted(rng *rand.Rand, options []string, weights []float64) string {
	if len(options) == 0 {
		return ""
	}
	var total float64
	for i := range options {
		if i < len(weights) {
			total += weights[i]
		}
	}
	if total <= 0 {
		return options[len(options)-1]
	}
	remaining := rng.Float64() * total
	for i, opt := range options {
		if i < len(weights) {
			remaining -= weights[i]
		}
		if remaining <= 0 {
			return opt
		}
	}
	return options[len(options)-1]
}

// gaussian draws from N(mean, std) via Box-Muller.
func gaussian(rng *rand.Rand, mean, std float64) float64 {
	u := 1 - rng.Float64()
	v := rng.Float64()
	return mean + std*math.Sqrt(-2*math.Log(u))*math.Cos(2*math.Pi*v)
}

// pickNormal concentrates choices near the middle of the option list:
// index ~ N((n-1)/2, n/4), rounded and clamped.
func pickNormal(rng *rand.Rand, options []string) string {
	n := len(options)
	if n == 0 {
		return ""
	}
	mean := float64(n-1) / 2
	std := float64(n) / 4
	idx := int(math.Round(gaussian(rng, mean, std)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return options[idx]
}

// pickSkewed applies exponential 2^position weights, counting positions from
// the start (right skew) or the end (left skew) of the list.
func pickSkewed(rng *rand.Rand, options []string, right bool) string {
	weights := make([]float64, len(options))
	for i := range options {
		position := i
		if !right {
			position = len(options) - 1 - i
		}
		weights[i] = math.Pow(2, float64(position))
	}
	return pickWeighted(rng, options, weights)
}

// Pick samples one candidate under the named distribution. Weighted falls
// back to uniform here; explicit per-value weights are resolved by the
// generator before reaching this point.
func Pick(rng *rand.Rand, options []string, dist Distribution) string {
	switch dist {
	case DistNormal:
		return pickNormal(rng, options)
	case DistSkewedLeft:
		return pickSkewed(rng, options, false)
	case DistSkewedRight:
		return pickSkewed(rng, options, true)
	default:
		return pickUniform(rng, options)
	}
}
