// SPDX-License-Identifier: MIT
package reduction_test

import (
	"testing"

	"github.com/katalvlaran/dimscope/reduction"
)

func benchmarkFit(b *testing.B, m reduction.Method, k reduction.BackendKind, n int) {
	rows := anisotropic(n, 1)
	e := reduction.New(reduction.WithMethod(m), reduction.WithBackend(k))
	if err := e.SetSize(n, 2, 3); err != nil {
		b.Fatal(err)
	}
	for i, r := range rows {
		if err := e.SetInputData(i, r); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.Run(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNativePCA_1000(b *testing.B) {
	benchmarkFit(b, reduction.PCA, reduction.BackendNative, 1000)
}

func BenchmarkToolkitPCA_1000(b *testing.B) {
	benchmarkFit(b, reduction.PCA, reduction.BackendToolkit, 1000)
}

func BenchmarkKernelPCA_200(b *testing.B) {
	benchmarkFit(b, reduction.KernelPCA, reduction.BackendAuto, 200)
}

func BenchmarkKernelLLE_200(b *testing.B) {
	benchmarkFit(b, reduction.KernelLLE, reduction.BackendAuto, 200)
}
