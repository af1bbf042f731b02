package estimate_test

import (
	"fmt"

	"github.com/katalvlaran/matfree/estimate"
	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

// ExampleTrace estimates the trace of a diagonal operator. Rademacher probes
// recover a diagonal matrix's trace exactly.
func ExampleTrace() {
	op, _ := operator.Diagonal([]float64{1, 2, 3, 4})
	b, _ := probe.Sample(probe.Rademacher, 8, 4, 42)
	res, _ := estimate.Trace(op, b)
	fmt.Printf("trace=%.1f probes=%d\n", res.Value, res.NumProbes)
	// Output: trace=10.0 probes=8
}

// ExampleLogDet computes log det of diag(1, e, e²) by Lanczos quadrature.
func ExampleLogDet() {
	op, _ := operator.Diagonal([]float64{1, 2.718281828459045, 7.38905609893065})
	b, _ := probe.Sample(probe.Rademacher, 4, 3, 1)
	res, _ := estimate.LogDet(op, b, 3)
	fmt.Printf("logdet=%.6f\n", res.Value)
	// Output: logdet=3.000000
}

// ExampleAdaptive stops as soon as the standard error allows.
func ExampleAdaptive() {
	op, _ := operator.Identity(16)
	res, _ := estimate.Adaptive(op, estimate.HutchinsonSampler(), 0.01, 256)
	fmt.Println(res.Value, res.Termination, res.NumProbes)
	// Output: 16 tolerance-met 8
}
