// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmsup

import (
	"github.com/gomlx/blkpack/pkg/cntx"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/exceptions"
)

func (f *RDFamily[T]) native6x8n(conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context) {
	if m != 6 {
		split := PlanRows(m)
		for i := range split.Len {
			step := split.Steps[i]
			f.Kernel(step.Kernel)(conjA, conjB, step.Rows, n, k, alpha, a.Advance(step.RowOffset, 0), b,
				beta, c.Advance(step.RowOffset, 0), aux, cx)
		}
		return
	}

	cols := PlanColumns(n)
	for range cols.Tiles4 {
		f.Tile6x4(conjA, conjB, 6, 4, k, alpha, a, b, beta, c, aux, cx)
		b = b.Advance(0, 4)
		c = c.Advance(0, 4)
	}
	if cols.Tile3 {
		f.Tile6x3(conjA, conjB, 6, 3, k, alpha, a, b, beta, c, aux, cx)
		b = b.Advance(0, 3)
		c = c.Advance(0, 3)
	}
	if cols.Edge > 0 {
		// Remaining 1 or 2 columns: two 3-row strips.
		f.Int3x4(conjA, conjB, 3, cols.Edge, k, alpha, a, b, beta, c, aux, cx)
		f.Int3x4(conjA, conjB, 3, cols.Edge, k, alpha, a.Advance(3, 0), b, beta, c.Advance(3, 0), aux, cx)
	}
}

func (f *RDFamily[T]) inline4x8n(conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context) {
	if m != 4 {
		exceptions.Panicf("gemmsup.Inline4x8n: m must be 4, got %d", m)
	}
	for ; n > 0; n -= 8 {
		nLoc := min(n, 8)
		f.Int2x8(conjA, conjB, 2, nLoc, k, alpha, a, b, beta, c, aux, cx)
		f.Int2x8(conjA, conjB, 2, nLoc, k, alpha, a.Advance(2, 0), b, beta, c.Advance(2, 0), aux, cx)
		b = b.Advance(0, 8)
		c = c.Advance(0, 8)
	}
}

func (f *RDFamily[T]) inline3x8n(conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context) {
	if m != 3 {
		exceptions.Panicf("gemmsup.Inline3x8n: m must be 3, got %d", m)
	}
	for ; n >= 4; n -= 4 {
		f.Tile3x4(conjA, conjB, 3, 4, k, alpha, a, b, beta, c, aux, cx)
		b = b.Advance(0, 4)
		c = c.Advance(0, 4)
	}
	if n > 0 {
		f.Int3x4(conjA, conjB, 3, n, k, alpha, a, b, beta, c, aux, cx)
	}
}

func (f *RDFamily[T]) inlineRx8n(conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context) {
	if m < 0 || m > 2 {
		exceptions.Panicf("gemmsup.InlineRx8n: m must be at most 2, got %d", m)
	}
	for ; n > 0; n -= 8 {
		f.Int2x8(conjA, conjB, m, min(n, 8), k, alpha, a, b, beta, c, aux, cx)
		b = b.Advance(0, 8)
		c = c.Advance(0, 8)
	}
}
