// SPDX-License-Identifier: MIT

// Package indirect presents a filtered, reordered view over the dimensions of a
// store without touching the stored data.
//
// A "visual" dimension index addresses the view; a "real" index addresses storage.
// The view is the ascending list of enabled real dimensions after Recompute, and
// may then be reordered by SortData (adjacent-correlation heuristic) or SwapDims.
//
// All accessors translate visual → real first and inherit the store's fail-soft
// contract: an invalid visual index reads as store.Placeholder, "" or 0.
package indirect
