// Package vector provides the approximate-nearest-neighbour boundary of the
// engine: a search interface, an exact flat implementation, distance
// metrics and rank fusion for hybrid queries.
package vector

import (
	"fmt"
	"math"
)

// Metric selects the distance function. Every metric is oriented so that a
// smaller distance means a closer vector.
type Metric int

const (
	MetricCosine Metric = iota
	MetricL2
	MetricDot
)

// ParseMetric maps the settings names "cosine", "l2" and "dot".
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "", "cosine":
		return MetricCosine, nil
	case "l2":
		return MetricL2, nil
	case "dot":
		return MetricDot, nil
	}
	return 0, fmt.Errorf("unknown distance metric %q", name)
}

func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "cosine"
	case MetricL2:
		return "l2"
	case MetricDot:
		return "dot"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Distance computes the metric between two vectors of equal length.
func (m Metric) Distance(a, b []float32) float32 {
	switch m {
	case MetricL2:
		return SquaredL2(a, b)
	case MetricDot:
		return -Dot(a, b)
	default:
		na, nb := Dot(a, a), Dot(b, b)
		if na == 0 || nb == 0 {
			return 1
		}
		return 1 - Dot(a, b)/float32(math.Sqrt(float64(na)*float64(nb)))
	}
}

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
