// SPDX-License-Identifier: MIT
package correlation_test

import (
	"fmt"

	"github.com/katalvlaran/dimscope/correlation"
)

func ExamplePearson() {
	x := []float64{1.2, 1.1, 1.0, 1.3}
	y := []float64{2.4, 2.2, 2.0, 2.6}
	flat := []float64{0.75, 0.75, 0.75, 0.75}

	fmt.Printf("%.3f %.3f\n", correlation.Pearson(x, y), correlation.Pearson(x, flat))
	// Output:
	// 1.000 0.000
}
