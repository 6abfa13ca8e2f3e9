// SPDX-License-Identifier: MIT
package reduction_test

import (
	"fmt"

	"github.com/katalvlaran/dimscope/reduction"
)

// ExampleEngine fits PCA on four points that vary along the first axis only.
func ExampleEngine() {
	e := reduction.New(reduction.WithMethod(reduction.PCA))
	_ = e.SetSize(4, 1, 2)
	for i, row := range [][]float64{{1.2, 0.75}, {1.1, 0.75}, {1.0, 0.75}, {1.3, 0.75}} {
		_ = e.SetInputData(i, row)
	}
	if err := e.Run(); err != nil {
		fmt.Println(err)

		return
	}

	mean, axis, out := make([]float64, 2), make([]float64, 2), make([]float64, 1)
	_ = e.GetMeanPCA(mean)
	_ = e.GetVectorPCA(0, axis)
	_ = e.GetMappedPoint([]float64{1.35, 0.75}, out)

	fmt.Printf("%v mean=(%.2f, %.2f) axis=(%.1f, %.1f)\n", e.Status(), mean[0], mean[1], axis[0], axis[1])
	fmt.Printf("mapped=%.2f\n", out[0])
	// Output:
	// fitted mean=(1.15, 0.75) axis=(1.0, 0.0)
	// mapped=0.20
}
