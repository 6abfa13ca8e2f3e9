// SPDX-License-Identifier: MIT
package reduction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/katalvlaran/dimscope/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// stubBackend lets tests control how Fit behaves.
type stubBackend struct {
	fit func(x *matrix.Dense, low int) (*matrix.Dense, error)
}

func (*stubBackend) Name() string                   { return "stub" }
func (*stubBackend) Method() Method                 { return PCA }
func (*stubBackend) Transform(_, _ []float64) error { return nil }

func (s *stubBackend) Fit(x *matrix.Dense, low int) (*matrix.Dense, error) {
	return s.fit(x, low)
}

// withStub replaces the PCA registry entry for the duration of the test.
func withStub(t *testing.T, fit func(x *matrix.Dense, low int) (*matrix.Dense, error)) {
	t.Helper()
	saved := registry[PCA]
	registry[PCA] = []registration{{kind: BackendNative, new: func(backendConfig) Backend {
		return &stubBackend{fit: fit}
	}}}
	t.Cleanup(func() { registry[PCA] = saved })
}

func loadedEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := New(opts...)
	require.NoError(t, e.SetSize(3, 1, 2))
	for i := 0; i < 3; i++ {
		require.NoError(t, e.SetInputData(i, []float64{float64(i), 1}))
	}

	return e
}

type recorder struct {
	fits, failures int
	backend        string
}

func (r *recorder) RecordFit(_ Method, backend string, _ int, _ time.Duration, err error) {
	r.fits++
	r.backend = backend
	if err != nil {
		r.failures++
	}
}

func TestFailedFitZeroesOutput(t *testing.T) {
	rec := &recorder{}
	e := loadedEngine(t, WithMetrics(rec))
	require.NoError(t, e.Run())
	require.Equal(t, StatusFitted, e.Status())

	withStub(t, func(*matrix.Dense, int) (*matrix.Dense, error) { return nil, errBoom })
	err := e.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFitFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, IsFitFailure(err))
	assert.Equal(t, StatusFailed, e.Status())
	assert.ErrorIs(t, e.GetOutputData(0, make([]float64, 1)), ErrNotFitted)

	v, _ := e.output.At(2, 0)
	assert.Zero(t, v)
	assert.ErrorIs(t, e.Session().Err, ErrFitFailed)
	assert.Equal(t, 2, rec.fits)
	assert.Equal(t, 1, rec.failures)
	assert.Equal(t, "stub", rec.backend)
}

func TestBackendPanicBecomesFailure(t *testing.T) {
	withStub(t, func(*matrix.Dense, int) (*matrix.Dense, error) { panic("index out of range") })
	e := loadedEngine(t)
	err := e.Run()
	assert.ErrorIs(t, err, ErrFitFailed)
	assert.Equal(t, StatusFailed, e.Status())
}

func TestWrongShapeIsFailure(t *testing.T) {
	withStub(t, func(*matrix.Dense, int) (*matrix.Dense, error) { return matrix.NewDense(1, 1) })
	e := loadedEngine(t)
	err := e.Run()
	assert.ErrorIs(t, err, ErrFitFailed)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestFitInProgressGuard(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	withStub(t, func(x *matrix.Dense, low int) (*matrix.Dense, error) {
		close(started)
		<-release

		return matrix.NewDense(x.Rows(), low)
	})
	e := loadedEngine(t)

	done := make(chan error, 1)
	go func() { done <- e.Run() }()
	<-started

	assert.ErrorIs(t, e.Run(), ErrFitInProgress)
	assert.ErrorIs(t, e.SetSize(2, 1, 1), ErrFitInProgress)
	assert.ErrorIs(t, e.SetInputData(0, []float64{1, 1}), ErrFitInProgress)
	assert.Equal(t, StatusInputLoaded, e.Status())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StatusFitted, e.Status())
}

func TestCancelKeepsPreviousFit(t *testing.T) {
	e := loadedEngine(t)
	require.NoError(t, e.Run())
	before := e.Session().ID

	release := make(chan struct{})
	defer close(release)
	withStub(t, func(x *matrix.Dense, low int) (*matrix.Dense, error) {
		<-release

		return matrix.NewDense(x.Rows(), low)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, e.RunContext(ctx), context.DeadlineExceeded)
	assert.Equal(t, StatusFitted, e.Status())
	assert.Equal(t, before, e.Session().ID)
	assert.NoError(t, e.GetOutputData(0, make([]float64, 1)))
}

func TestFitUsesSnapshot(t *testing.T) {
	var seen float64
	withStub(t, func(x *matrix.Dense, low int) (*matrix.Dense, error) {
		seen, _ = x.At(0, 0)
		_ = x.Set(0, 0, 99)

		return matrix.NewDense(x.Rows(), low)
	})
	e := loadedEngine(t)
	require.NoError(t, e.Run())
	assert.Zero(t, seen)
	v, _ := e.input.At(0, 0)
	assert.Zero(t, v)
}

func rows(n, h int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, h)
		for d := range out[i] {
			out[i][d] = float64((i*7+d*3)%11) + 0.1*float64(d)
		}
	}

	return out
}

func TestResizeCannotInterleaveWithFit(t *testing.T) {
	for iter := 0; iter < 200; iter++ {
		e := New()
		require.NoError(t, e.SetSize(20, 2, 3))
		for i, r := range rows(20, 3) {
			require.NoError(t, e.SetInputData(i, r))
		}

		var runErr, sizeErr error
		start := make(chan struct{})
		done := make(chan struct{}, 2)
		go func() {
			<-start
			runErr = e.Run()
			done <- struct{}{}
		}()
		go func() {
			<-start
			sizeErr = e.SetSize(40, 2, 3)
			done <- struct{}{}
		}()
		close(start)
		<-done
		<-done

		require.NoError(t, runErr)
		if sizeErr != nil {
			require.ErrorIs(t, sizeErr, ErrFitInProgress)
		}

		n, _, _ := e.Sizes()
		if e.Status() == StatusFitted {
			pts, err := e.OutputPoints()
			require.NoError(t, err, "iteration %d", iter)
			require.Len(t, pts, n)
			for _, p := range pts {
				require.Len(t, p, 2)
			}
			require.NoError(t, e.GetOutputData(n-1, make([]float64, 2)))
		} else {
			require.Equal(t, StatusSized, e.Status())
			require.Equal(t, 40, n)
		}
	}
}

func TestInputEditCannotInterleaveWithFit(t *testing.T) {
	for iter := 0; iter < 200; iter++ {
		e := New()
		require.NoError(t, e.SetSize(20, 2, 3))
		for i, r := range rows(20, 3) {
			require.NoError(t, e.SetInputData(i, r))
		}

		var runErr, setErr error
		start := make(chan struct{})
		done := make(chan struct{}, 2)
		go func() {
			<-start
			runErr = e.Run()
			done <- struct{}{}
		}()
		go func() {
			<-start
			setErr = e.SetInputData(0, []float64{50, 50, 50})
			done <- struct{}{}
		}()
		close(start)
		<-done
		<-done

		require.NoError(t, runErr)
		if setErr != nil {
			require.ErrorIs(t, setErr, ErrFitInProgress)
			require.Equal(t, StatusFitted, e.Status())

			continue
		}
		// The edit landed either before the snapshot (fit includes it) or after publish.
		if e.Status() == StatusFitted {
			mean := make([]float64, 3)
			require.NoError(t, e.GetMeanPCA(mean))
			assert.Greater(t, mean[0], 7.0, "iteration %d: fit must include the edited row", iter)
		} else {
			require.Equal(t, StatusInputLoaded, e.Status())
		}
	}
}

func TestOutputPointsReportsShapeMismatch(t *testing.T) {
	e := loadedEngine(t)
	require.NoError(t, e.Run())
	e.mu.Lock()
	e.output, _ = matrix.NewDense(1, 1)
	e.mu.Unlock()

	_, err := e.OutputPoints()
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
}
