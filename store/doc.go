// SPDX-License-Identifier: MIT

// Package store owns the raw element × dimension dataset.
//
// Layout: values are float32 and stored column-major (all elements of
// dimension 0, then dimension 1, ...) so per-dimension scans are contiguous.
//
// Fail-soft contract:
//   - writes with an out-of-range element or dimension are silently ignored;
//   - reads out of range return Placeholder (math.MaxFloat32);
//   - cells never hold NaN: unset cells and rejected writes read as Placeholder.
//
// Per-dimension minimum and maximum are cached. Any write marks the cache
// stale; the next Min/Max call recomputes it once in a single O(N·D) pass.
//
// The store also carries the per-dimension enable mask and labels, and the
// Pearson correlation table computed on load (see package correlation).
// Load/LoadFile read the whitespace-delimited table format together with its
// "<file>.meta" sidecar.
package store
