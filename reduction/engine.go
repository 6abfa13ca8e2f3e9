// SPDX-License-Identifier: MIT
package reduction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/dimscope/matrix"
	"github.com/rs/zerolog"
)

// Engine owns the input buffer, the method/backend selection and the fitted model.
type Engine struct {
	mu      sync.RWMutex
	fitting atomic.Bool

	method  Method
	backend BackendKind
	status  Status

	elems, low, high int
	input            *matrix.Dense // elems×high
	loaded           bool
	output           *matrix.Dense // elems×low
	model            Backend
	session          Session

	opts options
}

// New returns an Uninitialized engine.
func New(opts ...Option) *Engine {
	o := gatherOptions(opts...)

	return &Engine{method: o.method, backend: o.backend, opts: o}
}

// SetMethod selects the algorithm for the next Run. The current fit stays queryable.
func (e *Engine) SetMethod(m Method) error {
	if !m.Valid() {
		return fmt.Errorf("%v: %w", m, ErrUnknownMethod)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.method = m

	return nil
}

// Method returns the selected algorithm.
func (e *Engine) Method() Method {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.method
}

// SetBackend selects the backend family for the next Run.
func (e *Engine) SetBackend(k BackendKind) error {
	switch k {
	case BackendAuto, BackendNative, BackendToolkit:
	default:
		return fmt.Errorf("%v: %w", k, ErrNoBackend)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backend = k

	return nil
}

// Backend returns the selected backend family.
func (e *Engine) Backend() BackendKind {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.backend
}

// SetSize allocates a zeroed elems×high input and discards any fit.
//
// Errors:
//   - ErrInvalidSize when any size is < 1.
//   - ErrFitInProgress while Run is executing.
func (e *Engine) SetSize(elems, low, high int) error {
	if elems < 1 || low < 1 || high < 1 {
		return fmt.Errorf("elements=%d low=%d high=%d: %w", elems, low, high, ErrInvalidSize)
	}
	input, err := matrix.NewDense(elems, high)
	if err != nil {
		return fmt.Errorf("reduction: %w", err)
	}
	output, err := matrix.NewDense(elems, low)
	if err != nil {
		return fmt.Errorf("reduction: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fitting.Load() {
		return ErrFitInProgress
	}
	e.elems, e.low, e.high = elems, low, high
	e.input, e.output = input, output
	e.loaded, e.model = false, nil
	e.status = StatusSized

	return nil
}

// Sizes returns the configured element count and dimensionalities.
func (e *Engine) Sizes() (elems, low, high int) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.elems, e.low, e.high
}

// Status returns the lifecycle state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.status
}

// Session returns the record of the last fit attempt (zero before the first Run).
func (e *Engine) Session() Session {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.session
}

// SetInputData copies the first high values of in as row elem.
//
// Errors:
//   - ErrOutOfRange (elem), ErrInvalidSize (short row or unsized engine),
//     ErrFitInProgress, matrix.ErrNaNInf.
func (e *Engine) SetInputData(elem int, in []float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fitting.Load() {
		return ErrFitInProgress
	}
	if e.status == StatusUninitialized {
		return fmt.Errorf("engine not sized: %w", ErrInvalidSize)
	}
	if elem < 0 || elem >= e.elems {
		return fmt.Errorf("element %d of %d: %w", elem, e.elems, ErrOutOfRange)
	}
	if len(in) < e.high {
		return fmt.Errorf("row of %d values, want %d: %w", len(in), e.high, ErrInvalidSize)
	}
	if err := e.input.SetRow(elem, in[:e.high]); err != nil {
		return fmt.Errorf("reduction: %w", err)
	}
	e.loaded = true
	e.status = StatusInputLoaded

	return nil
}

// SetInputDataFloat32 is SetInputData for single-precision rows.
func (e *Engine) SetInputDataFloat32(elem int, in []float32) error {
	return e.SetInputData(elem, widen(in))
}

// RowSource is a column-oriented dataset such as *store.Store or *indirect.Indirector.
type RowSource interface {
	Elements() int
	Dimensions() int
	Column(dim int, dst []float64) []float64
}

// LoadTable sizes the engine to src (high = src.Dimensions()) and copies every cell.
func (e *Engine) LoadTable(src RowSource, low int) error {
	elems, high := src.Elements(), src.Dimensions()
	if err := e.SetSize(elems, low, high); err != nil {
		return err
	}
	rows := make([][]float64, elems)
	for i := range rows {
		rows[i] = make([]float64, high)
	}
	var col []float64
	for d := 0; d < high; d++ {
		col = src.Column(d, col)
		if len(col) != elems {
			return fmt.Errorf("column %d has %d values, want %d: %w", d, len(col), elems, ErrInvalidSize)
		}
		for i, v := range col {
			rows[i][d] = v
		}
	}
	for i, row := range rows {
		if err := e.SetInputData(i, row); err != nil {
			return err
		}
	}

	return nil
}

// validateShape enforces per-method size preconditions.
func validateShape(m Method, elems, low, high int) error {
	if elems < 2 {
		return fmt.Errorf("%v needs at least 2 elements, got %d: %w", m, elems, ErrInvalidSize)
	}
	switch m {
	case PCA:
		if low > high {
			return fmt.Errorf("pca low=%d > high=%d: %w", low, high, ErrInvalidSize)
		}
		// rank is at most min(elements, high); every backend must yield low real axes.
		if low > elems {
			return fmt.Errorf("pca low=%d > elements=%d: %w", low, elems, ErrInvalidSize)
		}
	case KernelPCA:
		if low >= elems {
			return fmt.Errorf("kernel_pca low=%d needs more than %d elements: %w", low, elems, ErrInvalidSize)
		}
	case KernelLLE:
		if low+1 >= elems {
			return fmt.Errorf("kernel_lle low=%d needs more than %d elements: %w", low, low+1, ErrInvalidSize)
		}
	default:
		return fmt.Errorf("%v: %w", m, ErrUnknownMethod)
	}

	return nil
}

// Run is RunContext with context.Background.
func (e *Engine) Run() error { return e.RunContext(context.Background()) }

type fitResult struct {
	out *matrix.Dense
	err error
}

// RunContext fits the selected method on a snapshot of the input.
//
// Behavior:
//   - Preconditions (sizes, method, backend, loaded input) fail fast without touching the fit.
//   - A backend error zeroes the output, sets StatusFailed and returns an error matching ErrFitFailed.
//   - Cancellation returns ctx.Err() and leaves the previous fit in place.
//   - A concurrent call returns ErrFitInProgress.
func (e *Engine) RunContext(ctx context.Context) error {
	// fitting is raised and checked only under mu.
	e.mu.Lock()
	if !e.fitting.CompareAndSwap(false, true) {
		e.mu.Unlock()

		return ErrFitInProgress
	}
	defer e.fitting.Store(false)
	method, kind := e.method, e.backend
	elems, low, high := e.elems, e.low, e.high
	loaded := e.loaded
	var snapshot *matrix.Dense
	if e.input != nil {
		snapshot = e.input.Clone().(*matrix.Dense)
	}
	e.mu.Unlock()

	if snapshot == nil {
		return fmt.Errorf("engine not sized: %w", ErrInvalidSize)
	}
	if !loaded {
		return ErrNoInput
	}
	if err := validateShape(method, elems, low, high); err != nil {
		return err
	}
	b, err := newBackend(method, kind, e.opts.params)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	sess := newSession(method, b.Name(), elems, high, low)
	log := e.opts.log.With().
		Str("session", sess.ID.String()).
		Str("method", method.String()).
		Str("backend", b.Name()).
		Logger()
	log.Debug().Int("elements", elems).Int("high_dim", high).Int("low_dim", low).Msg("fit started")

	done := make(chan fitResult, 1)
	go func() {
		var res fitResult
		res.err = safeFit(func() error {
			out, err := b.Fit(snapshot, low)
			res.out = out

			return err
		})
		done <- res
	}()

	var res fitResult
	select {
	case <-ctx.Done():
		log.Warn().Err(ctx.Err()).Dur("duration", time.Since(sess.Started)).Msg("fit cancelled")

		return ctx.Err()
	case res = <-done:
	}

	sess.Duration = time.Since(sess.Started)
	if res.err == nil && (res.out == nil || res.out.Rows() != elems || res.out.Cols() != low) {
		res.err = fmt.Errorf("backend returned wrong shape: %w", ErrInvalidSize)
	}
	if res.err != nil {
		sess.Err = fmt.Errorf("%w: %v/%s: %w", ErrFitFailed, method, b.Name(), res.err)
	}
	e.opts.metrics.RecordFit(method, b.Name(), elems, sess.Duration, sess.Err)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = sess
	if sess.Err != nil {
		e.output, _ = matrix.NewDense(elems, low)
		e.model = nil
		e.status = StatusFailed
		log.Warn().Err(res.err).Dur("duration", sess.Duration).Msg("fit failed")

		return sess.Err
	}
	e.output, e.model = res.out, b
	e.status = StatusFitted
	logFit(log.Info(), sess)

	return nil
}

func logFit(ev *zerolog.Event, s Session) {
	ev.Int("elements", s.Elements).
		Int("high_dim", s.HighDim).
		Int("low_dim", s.LowDim).
		Dur("duration", s.Duration).
		Msg("fit completed")
}

// safeFit turns a backend panic into an error.
func safeFit(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()

	return fn()
}

// fitted returns the model or ErrNotFitted. Caller holds e.mu (read).
func (e *Engine) fitted() (Backend, error) {
	if e.status != StatusFitted || e.model == nil {
		return nil, ErrNotFitted
	}

	return e.model, nil
}

// GetOutputData copies the embedding of elem into out[:low].
func (e *Engine) GetOutputData(elem int, out []float64) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.fitted(); err != nil {
		return err
	}
	if elem < 0 || elem >= e.elems {
		return fmt.Errorf("element %d of %d: %w", elem, e.elems, ErrOutOfRange)
	}
	if len(out) < e.low {
		return fmt.Errorf("buffer of %d, want %d: %w", len(out), e.low, ErrInvalidSize)
	}
	_, err := e.output.Row(elem, out[:e.low])

	return err
}

// GetOutputDataFloat32 is GetOutputData for single-precision buffers.
func (e *Engine) GetOutputDataFloat32(elem int, out []float32) error {
	buf := make([]float64, len(out))
	if err := e.GetOutputData(elem, buf); err != nil {
		return err
	}
	narrow(buf, out)

	return nil
}

// OutputPoints returns a copy of the whole N×low embedding.
func (e *Engine) OutputPoints() ([][]float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.fitted(); err != nil {
		return nil, err
	}
	pts := make([][]float64, e.elems)
	for i := range pts {
		row, err := e.output.Row(i, nil)
		if err != nil {
			return nil, fmt.Errorf("reduction: output row %d: %w", i, err)
		}
		pts[i] = row
	}

	return pts, nil
}

// GetMappedPoint projects one high-dimensional point through the fitted model into out[:low].
func (e *Engine) GetMappedPoint(in, out []float64) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	model, err := e.fitted()
	if err != nil {
		return err
	}
	if len(in) < e.high || len(out) < e.low {
		return fmt.Errorf("in=%d out=%d, want %d and %d: %w", len(in), len(out), e.high, e.low, ErrInvalidSize)
	}
	if err = model.Transform(in[:e.high], out[:e.low]); err != nil {
		return fmt.Errorf("reduction: transform: %w", err)
	}

	return nil
}

// GetMappedPointFloat32 is GetMappedPoint for single-precision buffers.
func (e *Engine) GetMappedPointFloat32(in, out []float32) error {
	buf := make([]float64, len(out))
	if err := e.GetMappedPoint(widen(in), buf); err != nil {
		return err
	}
	narrow(buf, out)

	return nil
}

func (e *Engine) linear() (LinearBackend, error) {
	model, err := e.fitted()
	if err != nil {
		return nil, err
	}
	lin, ok := model.(LinearBackend)
	if !ok {
		return nil, fmt.Errorf("%v: %w", model.Method(), ErrNoLinearBasis)
	}

	return lin, nil
}

// GetMeanPCA copies the training mean into out[:high]. Linear methods only.
func (e *Engine) GetMeanPCA(out []float64) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	lin, err := e.linear()
	if err != nil {
		return err
	}
	if len(out) < e.high {
		return fmt.Errorf("buffer of %d, want %d: %w", len(out), e.high, ErrInvalidSize)
	}
	copy(out, lin.Mean())

	return nil
}

// GetVectorPCA copies principal axis i (descending variance) into out[:high]. Linear methods only.
func (e *Engine) GetVectorPCA(i int, out []float64) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	lin, err := e.linear()
	if err != nil {
		return err
	}
	axis := lin.Component(i)
	if axis == nil {
		return fmt.Errorf("component %d of %d: %w", i, e.low, ErrOutOfRange)
	}
	if len(out) < e.high {
		return fmt.Errorf("buffer of %d, want %d: %w", len(out), e.high, ErrInvalidSize)
	}
	copy(out, axis)

	return nil
}

// ExplainedVariance returns the variance captured by each retained component. Linear methods only.
func (e *Engine) ExplainedVariance() ([]float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	lin, err := e.linear()
	if err != nil {
		return nil, err
	}

	return lin.ExplainedVariance(), nil
}

// IsFitFailure reports whether err came from a backend failure rather than a precondition.
func IsFitFailure(err error) bool { return errors.Is(err, ErrFitFailed) }

func widen(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}

	return out
}

func narrow(in []float64, out []float32) {
	for i := range out {
		out[i] = float32(in[i])
	}
}
