// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package level1 holds the elementwise primitives the packing engine and the reference kernels are
// built on: copy-pack, diagonal set/invert, region set and the dotxv reduction.
//
// They are reference implementations: plain loops over strided views, instantiated per element type
// through generics. None of them allocates, and none of them checks bounds beyond Go's own slice checks:
// the views must address memory owned by their backing slices.
package level1

import (
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
)

// CopyPack copies the m x n block a into p, scaled by kappa and conjugated if requested:
//
//	p(i, j) = kappa * conj?(a(i, j))
//
// The packing engine calls it with p.RS == 1 and p.CS equal to the panel dimension.
func CopyPack[T dtypes.Number](conj matrix.Conj, m, n int, kappa T, a, p matrix.Strided[T]) {
	if m <= 0 || n <= 0 {
		return
	}
	conjA := conj.IsConj()
	if kappa == 1 {
		if !conjA {
			for j := range n {
				aIdx, pIdx := a.Off+j*a.CS, p.Off+j*p.CS
				for range m {
					p.Data[pIdx] = a.Data[aIdx]
					aIdx += a.RS
					pIdx += p.RS
				}
			}
			return
		}
		for j := range n {
			aIdx, pIdx := a.Off+j*a.CS, p.Off+j*p.CS
			for range m {
				p.Data[pIdx] = dtypes.Conj(a.Data[aIdx])
				aIdx += a.RS
				pIdx += p.RS
			}
		}
		return
	}
	for j := range n {
		aIdx, pIdx := a.Off+j*a.CS, p.Off+j*p.CS
		for range m {
			p.Data[pIdx] = kappa * dtypes.ConjIf(conjA, a.Data[aIdx])
			aIdx += a.RS
			pIdx += p.RS
		}
	}
}

// diagLen returns the number of diagonal elements of an m x n block at offset diagOff, and the
// (row, column) of the first one.
func diagLen(diagOff, m, n int) (length, i0, j0 int) {
	if diagOff >= 0 {
		i0, j0 = 0, diagOff
	} else {
		i0, j0 = -diagOff, 0
	}
	length = min(m-i0, n-j0)
	if length < 0 {
		length = 0
	}
	return
}

// SetDiag sets the elements on the diagonal with offset diagOff of the m x n block x to alpha.
func SetDiag[T dtypes.Number](diagOff, m, n int, alpha T, x matrix.Strided[T]) {
	length, i0, j0 := diagLen(diagOff, m, n)
	idx := x.Index(i0, j0)
	inc := x.RS + x.CS
	for range length {
		x.Data[idx] = alpha
		idx += inc
	}
}

// InvertDiag replaces each element on the diagonal with offset diagOff of the m x n block x by its
// reciprocal. A zero diagonal element becomes an infinity (or NaN for complex types), the same as the
// corresponding scalar division.
func InvertDiag[T dtypes.Number](diagOff, m, n int, x matrix.Strided[T]) {
	length, i0, j0 := diagLen(diagOff, m, n)
	idx := x.Index(i0, j0)
	inc := x.RS + x.CS
	for range length {
		x.Data[idx] = 1 / x.Data[idx]
		idx += inc
	}
}

// SetRegion sets the uplo region of the m x n block x to alpha, where the region is relative to the diagonal
// with offset diagOff:
//
//   - Lower: elements with j-i <= diagOff.
//   - Upper: elements with j-i >= diagOff.
//   - Dense: every element.
//   - Zeros: nothing.
//
// If diag is Unit the diagonal itself is left untouched.
func SetRegion[T dtypes.Number](diagOff int, diag matrix.Diag, uplo matrix.Uplo, m, n int, alpha T, x matrix.Strided[T]) {
	if m <= 0 || n <= 0 || uplo == matrix.Zeros {
		return
	}
	skipDiag := diag == matrix.Unit
	for j := range n {
		var iStart, iEnd int
		switch uplo {
		case matrix.Dense:
			iStart, iEnd = 0, m
		case matrix.Upper:
			// j - i >= diagOff  <=>  i <= j - diagOff
			iStart, iEnd = 0, min(m, j-diagOff+1)
		case matrix.Lower:
			// j - i <= diagOff  <=>  i >= j - diagOff
			iStart, iEnd = max(0, j-diagOff), m
		}
		idx := x.Index(iStart, j)
		for i := iStart; i < iEnd; i++ {
			if !skipDiag || j-i != diagOff {
				x.Data[idx] = alpha
			}
			idx += x.RS
		}
	}
}

// Dotxv computes rho = beta*rho + alpha * sum_i conjx?(x_i) * conjy?(y_i), over the first n elements.
//
// If beta is zero, rho is overwritten without being read. If n is zero or alpha is zero, only the beta
// scaling is applied.
func Dotxv[T dtypes.Number](conjx, conjy matrix.Conj, n int, alpha T, x, y matrix.Vector[T], beta T, rho *T) {
	if beta == 0 {
		*rho = 0
	} else {
		*rho *= beta
	}
	if n == 0 || alpha == 0 {
		return
	}

	// Conjugating y too is the same as conjugating the result of the dot with conj(x).
	conj := conjx
	if conjy.IsConj() {
		conj = conj.Toggle()
	}

	var dot T
	xIdx, yIdx := x.Off, y.Off
	if conj.IsConj() {
		for range n {
			dot += dtypes.Conj(x.Data[xIdx]) * y.Data[yIdx]
			xIdx += x.Inc
			yIdx += y.Inc
		}
	} else {
		for range n {
			dot += x.Data[xIdx] * y.Data[yIdx]
			xIdx += x.Inc
			yIdx += y.Inc
		}
	}
	if conjy.IsConj() {
		dot = dtypes.Conj(dot)
	}
	*rho += alpha * dot
}
