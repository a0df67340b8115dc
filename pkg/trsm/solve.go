// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package trsm solves triangular systems with many right-hand sides, op(A) * X = alpha * B, on top of the
// packing engine and the gemmsup kernels.
//
// A is packed once into ColStored panels with its diagonal inverted, and each column panel of B is packed,
// solved and written back independently, so the column panels can be spread over a worker pool.
package trsm

import (
	"github.com/gomlx/blkpack/internal/workerspool"
	"github.com/gomlx/blkpack/pkg/cntx"
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/blkpack/pkg/gemmsup"
	"github.com/gomlx/blkpack/pkg/packm"
	"github.com/gomlx/exceptions"
)

// Solve overwrites b with the solution X of op(A) * X = alpha * B, where op(A) is the triangular matrix a
// after its transposition (a.Trans), and b is a general, non-transposed matrix.
//
// The register block sizes come from cx.Trsm (cntx.Default() if cx is nil). If pool is not nil, the column
// panels of b are solved in parallel on it.
//
// It panics if a is not a square triangular matrix with a zero diagonal offset, or if the shapes don't match.
func Solve[T dtypes.Number](alpha T, a, b *matrix.View[T], cx *cntx.Context, pool *workerspool.Pool) {
	if cx == nil {
		cx = cntx.Default()
	}
	m, n := a.Length(), b.N
	checkSolve(a, b)
	if m == 0 || n == 0 {
		return
	}
	mr, nr := cx.Trsm.MR, cx.Trsm.NR
	if mr <= 0 || nr <= 0 {
		exceptions.Panicf("trsm.Solve: invalid block sizes %dx%d", mr, nr)
	}
	_, _, uplo, _ := a.Normalized()

	// Padding the packed length to a multiple of mr makes the last diagonal block a full mr x mr block, with an
	// identity in its padded corner.
	mMax := packm.RoundUp(m, mr)
	packedA := packm.NewColStored[T](nil, m, m, mr).WithLenMax(mMax)
	flags := packm.Flags{InvertDiag: true, RevIfUpper: true}
	packm.PackTriangular(dtypes.One[T](), a, packedA, flags)
	s := &solver[T]{
		m: m, n: n, mr: mr, nr: nr, mMax: mMax,
		upper:   uplo == matrix.Upper,
		alpha:   alpha,
		b:       b,
		packedA: packedA,
		layout:  packm.TriangularLayout(a, packedA, flags),
		gemm:    gemmsup.For[T](cx),
		cx:      cx,
	}
	pool.ForEach(packm.NumPanels(n, nr), s.solveColumnPanel)
}

func checkSolve[T dtypes.Number](a, b *matrix.View[T]) {
	if a.Struc != matrix.Triangular || (a.Uplo != matrix.Lower && a.Uplo != matrix.Upper) {
		exceptions.Panicf("trsm.Solve: A must be lower or upper triangular, got struc=%s uplo=%s", a.Struc, a.Uplo)
	}
	if a.M != a.N || a.DiagOff != 0 {
		exceptions.Panicf("trsm.Solve: A must be square with a zero diagonal offset, got %dx%d with offset %d",
			a.M, a.N, a.DiagOff)
	}
	if b.Trans != matrix.NoTranspose {
		exceptions.Panicf("trsm.Solve: transposed B (%s) is not supported", b.Trans)
	}
	if b.M != a.M {
		exceptions.Panicf("trsm.Solve: B has %d rows, A is %dx%d", b.M, a.M, a.N)
	}
}

// scratchCapacity is the largest mr x nr tile solved through a scratch tile on the stack.
const scratchCapacity = 8 * 8

// solver holds the state shared by the column panels of one Solve.
type solver[T dtypes.Number] struct {
	m, n, mr, nr, mMax int
	upper              bool
	alpha              T
	b                  *matrix.View[T]
	packedA            *packm.PanelBuffer[T]
	layout             []packm.PanelInfo
	gemm               *gemmsup.RDFamily[T]
	cx                 *cntx.Context
}

// solveColumnPanel solves the nr columns of B starting at column panelIdx*nr.
func (s *solver[T]) solveColumnPanel(panelIdx int) {
	jc := panelIdx * s.nr
	nj := min(s.nr, s.n-jc)
	packedB := &packm.PanelBuffer[T]{
		M: s.m, N: nj,
		MMax: s.mMax, NMax: s.nr,
		PanelDim: s.nr,
		Storage:  packm.RowStored,
	}
	packedB.Data = make([]T, packedB.RequiredSize())
	packm.PackDense(s.alpha, s.b.Sub(0, jc, s.m, nj), packedB)

	var stackScratch [scratchCapacity]T
	var scratch []T
	one := dtypes.One[T]()
	aData := s.packedA.Data
	for _, info := range s.layout {
		if info.Kind == packm.Unstored {
			continue
		}
		ic := info.Source
		b11 := matrix.Strided[T]{Data: packedB.Data, Off: ic * s.nr, RS: s.nr, CS: 1}
		var a11 matrix.Strided[T]
		if s.upper {
			// The panel starts at the diagonal block: A11 then A12, the coupling with the rows below.
			a11 = matrix.Strided[T]{Data: aData, Off: info.DstOffset, RS: 1, CS: s.mr}
			if k := info.LenMax - s.mr; k > 0 {
				a12 := matrix.Strided[T]{Data: aData, Off: info.DstOffset + s.mr*s.mr, RS: 1, CS: s.mr}
				x2 := matrix.Strided[T]{Data: packedB.Data, Off: (ic + s.mr) * s.nr, RS: s.nr, CS: 1}
				s.gemm.Gemm(matrix.NoConj, matrix.NoConj, s.mr, s.nr, k, -one, a12, x2, one, b11, nil, s.cx)
			}
		} else {
			// The panel ends at the diagonal block: A10, the coupling with the rows above, then A11.
			a11 = matrix.Strided[T]{Data: aData, Off: info.DstOffset + ic*s.mr, RS: 1, CS: s.mr}
			if ic > 0 {
				a10 := matrix.Strided[T]{Data: aData, Off: info.DstOffset, RS: 1, CS: s.mr}
				x0 := matrix.Strided[T]{Data: packedB.Data, RS: s.nr, CS: 1}
				s.gemm.Gemm(matrix.NoConj, matrix.NoConj, s.mr, s.nr, ic, -one, a10, x0, one, b11, nil, s.cx)
			}
		}

		// Ragged tiles are solved into a scratch tile and only their valid part is copied to B.
		c11 := s.b.Strided.Advance(ic, jc)
		ragged := info.Dim != s.mr || nj != s.nr
		if ragged {
			if scratch == nil {
				if s.mr*s.nr <= scratchCapacity {
					scratch = stackScratch[:]
				} else {
					scratch = make([]T, s.mr*s.nr)
				}
			}
			c11 = matrix.Strided[T]{Data: scratch, RS: s.nr, CS: 1}
		}
		if s.upper {
			KernelUpper(s.mr, s.nr, a11, b11, c11)
		} else {
			KernelLower(s.mr, s.nr, a11, b11, c11)
		}
		if ragged {
			dst := s.b.Strided.Advance(ic, jc)
			for i := range info.Dim {
				for j := range nj {
					dst.Set(i, j, c11.At(i, j))
				}
			}
		}
	}
}
