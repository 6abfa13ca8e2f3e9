// SPDX-License-Identifier: MIT
package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// MetaSuffix is appended to a table path to locate its metadata sidecar.
const MetaSuffix = ".meta"

const commentPrefix = "#"

// metaEntry is one "<true|false> <label>" sidecar line.
type metaEntry struct {
	enabled bool
	label   string
}

// Load builds a store from a whitespace-delimited table and an optional metadata sidecar.
//
// Table format: one element per line, one column per dimension; blank lines and
// lines starting with '#' are skipped. Every row must have the column count of the first row.
//
// Meta format: one line per dimension in column order, "<true|false> <label>".
// A nil meta reader enables every dimension with DefaultLabel names.
//
// On success the correlation table is computed before Load returns.
func Load(ctx context.Context, table, meta io.Reader, opts ...Option) (*Store, error) {
	start := time.Now()
	rows, dims, err := readTable(table)
	if err != nil {
		return nil, err
	}

	var entries []metaEntry
	if meta != nil {
		if entries, err = readMeta(meta); err != nil {
			return nil, err
		}
		if len(entries) != dims {
			return nil, &LoadError{Err: fmt.Errorf("%d lines for %d columns: %w", len(entries), dims, ErrMetaCount)}
		}
	}

	s := New(opts...)
	s.Resize(len(rows), dims)
	for e, row := range rows {
		s.SetElementVector(e, row)
	}
	for d, m := range entries {
		s.Enable(d, m.enabled)
		s.SetLabel(d, m.label)
	}
	if err = s.CalculateCorrelation(ctx); err != nil {
		return nil, err
	}

	s.opts.log.Info().
		Int("elements", len(rows)).
		Int("dimensions", dims).
		Bool("meta", meta != nil).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")

	return s, nil
}

// LoadFile opens path and, when present, path+MetaSuffix, then calls Load.
// Loader errors are reported as *LoadError carrying the offending file name.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Store, error) {
	tf, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer tf.Close()

	var meta io.Reader
	metaPath := path + MetaSuffix
	mf, err := os.Open(metaPath)
	switch {
	case err == nil:
		defer mf.Close()
		meta = mf
	case errors.Is(err, fs.ErrNotExist):
		// no sidecar: defaults apply
	default:
		return nil, fmt.Errorf("store: %w", err)
	}

	s, err := Load(ctx, tf, meta, opts...)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.File == "" {
			le.File = path
			if errors.Is(le.Err, ErrMeta) || errors.Is(le.Err, ErrMetaCount) {
				le.File = metaPath
			}
		}

		return nil, err
	}

	return s, nil
}

// WriteMeta writes the sidecar for the current enable mask and labels.
func (s *Store) WriteMeta(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bw := bufio.NewWriter(w)
	for d := 0; d < s.dims; d++ {
		if _, err := fmt.Fprintf(bw, "%t %s\n", s.enabled[d], s.labels[d]); err != nil {
			return fmt.Errorf("store: write meta: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("store: write meta: %w", err)
	}

	return nil
}

// skipLine reports blank and comment lines.
func skipLine(line string) bool {
	line = strings.TrimSpace(line)

	return line == "" || strings.HasPrefix(line, commentPrefix)
}

func readTable(r io.Reader) ([][]float32, int, error) {
	var (
		rows [][]float32
		dims = -1
		line int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line++
		text := sc.Text()
		if skipLine(text) {
			continue
		}
		fields := strings.Fields(text)
		if dims < 0 {
			dims = len(fields)
		}
		if len(fields) != dims {
			return nil, 0, &LoadError{Line: line, Err: fmt.Errorf("got %d, want %d: %w", len(fields), dims, ErrColumnCount)}
		}
		row := make([]float32, dims)
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, 0, &LoadError{Line: line, Err: fmt.Errorf("column %d %q: %w", j+1, f, ErrValue)}
			}
			row[j] = float32(v)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, 0, &LoadError{Line: line, Err: err}
	}
	if len(rows) == 0 {
		return nil, 0, &LoadError{Err: ErrEmpty}
	}

	return rows, dims, nil
}

func readMeta(r io.Reader) ([]metaEntry, error) {
	var (
		entries []metaEntry
		line    int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if skipLine(text) {
			continue
		}
		flag, label := text, ""
		if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
			flag, label = text[:i], text[i:]
		}
		on, err := strconv.ParseBool(flag)
		if err != nil {
			return nil, &LoadError{Line: line, Err: fmt.Errorf("%q: %w", flag, ErrMeta)}
		}
		entries = append(entries, metaEntry{enabled: on, label: strings.TrimSpace(label)})
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Line: line, Err: err}
	}

	return entries, nil
}
