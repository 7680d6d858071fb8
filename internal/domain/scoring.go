package domain

import "math"

// DefaultImpulsiveness is the delay sensitivity used when none is configured.
const DefaultImpulsiveness = 1.5

// Metrics are the self-reported (or predicted) scores for a task, each 1..10.
type Metrics struct {
	Urgency  float64
	Fear     float64
	Interest float64
}

// Clamp bounds every metric to [1, 10].
func (m Metrics) Clamp() Metrics {
	return Metrics{
		Urgency:  clampScore(m.Urgency),
		Fear:     clampScore(m.Fear),
		Interest: clampScore(m.Interest),
	}
}

// Prediction is a metric estimate derived from a task title.
type Prediction struct {
	Metrics
	PriorityScore float64
}

// MotivationScore is the temporal-motivation utility of a task:
// expectancy times value over one plus impulsiveness times delay, capped at 100.
func MotivationScore(m Metrics, impulsiveness float64) float64 {
	expectancy := math.Max(1, 12-m.Fear)
	value := m.Interest

	// Fear nudges urgency upward.
	effectiveUrgency := math.Min(10, m.Urgency+m.Fear*0.3)
	delay := math.Max(0.1, 10-effectiveUrgency)

	utility := (expectancy * value) / (1 + impulsiveness*delay)
	return Round(math.Min(100, utility), 2)
}

// ComputePriority blends deadline pressure with the motivation score.
// Pressure carries 60% of the weight.
func ComputePriority(m Metrics, impulsiveness float64) float64 {
	if impulsiveness <= 0 {
		impulsiveness = DefaultImpulsiveness
	}
	pressure := m.Urgency*2 + m.Fear
	return pressure*0.6 + MotivationScore(m, impulsiveness)*0.4
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clampScore(v float64) float64 {
	return math.Max(1, math.Min(10, v))
}
