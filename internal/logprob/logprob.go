// Package logprob provides log-domain probability arithmetic shared by the
// likelihood and population-genetics models: stable log-sum-exp, a lookup
// table of natural logs for small integers, and log-domain combinatorics.
package logprob

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// lnTable holds ln(n) for n in [0, 10]. Genotype ploidies and multiplicities
// are almost always in this range, so the table avoids repeated math.Log
// calls on the per-read hot path.
var lnTable = [11]float64{
	math.Inf(-1),
	0,
	0.6931471805599453,
	1.0986122886681098,
	1.3862943611198906,
	1.6094379124341003,
	1.791759469228055,
	1.9459101490553132,
	2.0794415416798357,
	2.1972245773362196,
	2.302585092994046,
}

// Ln returns the natural log of the non-negative integer n, from the lookup
// table when n <= 10. Ln(0) is -Inf.
func Ln(n int) float64 {
	if n >= 0 && n < len(lnTable) {
		return lnTable[n]
	}
	return math.Log(float64(n))
}

// LogSumExp2 returns ln(exp(a) + exp(b)) without overflow.
func LogSumExp2(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	if math.IsInf(a, -1) {
		return a
	}
	return a + math.Log1p(math.Exp(b-a))
}

// LogSumExp3 returns ln(exp(a) + exp(b) + exp(c)) without overflow.
func LogSumExp3(a, b, c float64) float64 {
	m := math.Max(a, math.Max(b, c))
	if math.IsInf(m, -1) {
		return m
	}
	return m + math.Log(math.Exp(a-m)+math.Exp(b-m)+math.Exp(c-m))
}

// LogSumExp returns ln(sum(exp(xs))) without overflow. It returns -Inf for
// an empty slice.
func LogSumExp(xs []float64) float64 {
	if len(xs) == 0 {
		return math.Inf(-1)
	}
	return floats.LogSumExp(xs)
}

// LogFactorial returns ln(n!) via the log-gamma function.
func LogFactorial(n int) float64 {
	lg, _ := math.Lgamma(float64(n) + 1)
	return lg
}

// LogMultinomialCoefficient returns the log of the multinomial coefficient
// (sum(ks))! / prod(ks[i]!), computed in log domain so it does not overflow
// for realistic ploidies.
func LogMultinomialCoefficient(ks []int) float64 {
	n := 0
	for _, k := range ks {
		n += k
	}
	result := LogFactorial(n)
	for _, k := range ks {
		result -= LogFactorial(k)
	}
	return result
}
