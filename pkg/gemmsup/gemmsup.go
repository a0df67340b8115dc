// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package gemmsup implements the "small/unpacked" gemm kernels of the rd 6x8n family, where each element
// of C is a dot product along k of a row of A and a column of B ("row-dot").
//
// The family has one native shape, 6 rows by groups of 4 (up to 8) columns. Native6x8n accepts 1 to 9 rows
// and decomposes other row counts into calls of smaller inline kernels (see PlanRows), and it decomposes the
// columns into fixed tiles (see PlanColumns). Every kernel is a field of RDFamily, so callers can
// substitute any of them.
//
// The tiles are implemented in three tiers, selected by the cntx.Context:
//
//   - native: go-highway vectors, for float32 and float64 with contiguous rows of A and columns of B;
//   - portable: scalar loops over any strides and element types;
//   - reference: one level1.Dotxv per element of C.
package gemmsup

import (
	"sync"

	"github.com/gomlx/blkpack/pkg/cntx"
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/exceptions"
)

// Kernel computes
//
//	C = beta*C + alpha * conjA?(A) * conjB?(B)
//
// where A is m x k, B is k x n and C is m x n. If beta is zero C is only written.
//
// aux and cx are passed along to every sub-kernel. cx may be nil, in which case cntx.Default() is used.
type Kernel[T dtypes.Number] func(conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context)

// AuxInfo is the auxiliary information passed along with each kernel call.
type AuxInfo struct {
	// NextA and NextB are the offsets of the A and B blocks the caller will use after this call, as prefetch
	// hints. The kernels in this package don't read them.
	NextA, NextB int
}

// RDFamily holds the kernels of the rd 6x8n family for one element type.
//
// The decomposing kernels (Native6x8n and the Inline*) call the others through these fields.
type RDFamily[T dtypes.Number] struct {
	Tier cntx.Tier

	// Native6x8n is the millikernel: 6 rows (or 1 to 9 rows decomposed with PlanRows) by any n.
	Native6x8n Kernel[T]

	// Inline4x8n computes 4 rows by any n, with two Int2x8 calls per group of 8 columns.
	Inline4x8n Kernel[T]

	// Inline3x8n computes 3 rows by any n, with Tile3x4 for each group of 4 columns and Int3x4 on the rest.
	Inline3x8n Kernel[T]

	// InlineRx8n computes up to 2 rows by any n, with Int2x8 for each group of 8 columns.
	InlineRx8n Kernel[T]

	// Tile6x4, Tile6x3 and Tile3x4 only accept their exact shape.
	Tile6x4, Tile6x3, Tile3x4 Kernel[T]

	// Int3x4 and Int2x8 accept any shape up to theirs.
	Int3x4, Int2x8 Kernel[T]
}

// NewRDFamily creates the kernel family of the given tier.
func NewRDFamily[T dtypes.Number](tier cntx.Tier) *RDFamily[T] {
	f := &RDFamily[T]{Tier: tier}
	tile := tileForTier[T](tier)
	f.Tile6x4 = exactShape("Tile6x4", 6, 4, tile)
	f.Tile6x3 = exactShape("Tile6x3", 6, 3, tile)
	f.Tile3x4 = exactShape("Tile3x4", 3, 4, tile)
	f.Int3x4 = maxShape("Int3x4", 3, 4, tile)
	f.Int2x8 = maxShape("Int2x8", 2, 8, tile)
	f.Native6x8n = f.native6x8n
	f.Inline4x8n = f.inline4x8n
	f.Inline3x8n = f.inline3x8n
	f.InlineRx8n = f.inlineRx8n
	return f
}

// Kernel returns the decomposing kernel identified by rowKernel.
func (f *RDFamily[T]) Kernel(rowKernel RowKernel) Kernel[T] {
	switch rowKernel {
	case KernelNative6x8n:
		return f.Native6x8n
	case KernelInline4x8n:
		return f.Inline4x8n
	case KernelInline3x8n:
		return f.Inline3x8n
	case KernelInlineRx8n:
		return f.InlineRx8n
	}
	exceptions.Panicf("gemmsup: unknown row kernel %d", rowKernel)
	return nil
}

// Gemm computes C for any number of rows: blocks of 6 rows go to Native6x8n while more than MaxRows rows
// remain, and the last 1 to MaxRows rows are given to it in one call.
//
// It panics for negative dimensions.
func (f *RDFamily[T]) Gemm(conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context) {
	if m < 0 || n < 0 || k < 0 {
		exceptions.Panicf("gemmsup.Gemm: negative dimensions m=%d, n=%d, k=%d", m, n, k)
	}
	if m == 0 || n == 0 {
		return
	}
	for m > MaxRows {
		f.Native6x8n(conjA, conjB, 6, n, k, alpha, a, b, beta, c, aux, cx)
		a = a.Advance(6, 0)
		c = c.Advance(6, 0)
		m -= 6
	}
	f.Native6x8n(conjA, conjB, m, n, k, alpha, a, b, beta, c, aux, cx)
}

type familyKey struct {
	dtype dtypes.DType
	tier  cntx.Tier
}

// families caches one *RDFamily[T] per (dtype, tier).
var families sync.Map

// For returns the (shared) kernel family for the tier of cx, or of cntx.Default() if cx is nil.
// The returned family must not be modified: use NewRDFamily to substitute kernels.
func For[T dtypes.Number](cx *cntx.Context) *RDFamily[T] {
	if cx == nil {
		cx = cntx.Default()
	}
	key := familyKey{dtype: dtypes.FromGenericsType[T](), tier: cx.Tier}
	if f, found := families.Load(key); found {
		return f.(*RDFamily[T])
	}
	f, _ := families.LoadOrStore(key, NewRDFamily[T](cx.Tier))
	return f.(*RDFamily[T])
}

// Gemm computes C = beta*C + alpha * conjA?(A) * conjB?(B) for any m, with the kernels selected by cx
// (cntx.Default() if nil).
func Gemm[T dtypes.Number](conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], cx *cntx.Context) {
	For[T](cx).Gemm(conjA, conjB, m, n, k, alpha, a, b, beta, c, nil, cx)
}
