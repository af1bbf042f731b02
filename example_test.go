package matfree_test

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/matfree"
	"github.com/katalvlaran/matfree/operator"
)

// ExampleLogDet estimates log det of diag(1, 2, 4, 8) = 6·ln 2.
func ExampleLogDet() {
	op, _ := operator.Diagonal([]float64{1, 2, 4, 8})
	res, _ := matfree.LogDet(op, matfree.WithMaxProbes(16))
	fmt.Printf("%.6f %.6f\n", res.Value, 6*math.Ln2)
	// Output: 4.158883 4.158883
}

// ExampleParseConfig loads configuration from YAML and runs an adaptive trace.
func ExampleParseConfig() {
	cfg, err := matfree.ParseConfig(strings.NewReader("tolerance: 0.001\nmax_probes: 128\nseed: 42\n"))
	if err != nil {
		fmt.Println(err)
		return
	}
	op, _ := operator.Identity(10)
	res, _ := matfree.Trace(op, matfree.WithConfig(cfg))
	fmt.Println(res.Value, res.Converged)
	// Output: 10 true
}
