// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package matrix defines the Matrix View: a typed strided window over a flat slice plus the metadata
// (structure, stored triangle, diagonal offset, unit diagonal, transposition) that the packing engine and
// the kernels read.
//
// The diagonal offset follows the usual BLAS-framework convention: element (i, j) is on the diagonal
// when j - i == DiagOff. A positive offset moves the diagonal to the right of the top-left element.
package matrix

import "github.com/gomlx/blkpack/pkg/core/dtypes"

// Object is implemented by every typed matrix and panel buffer, so untyped entry points can resolve
// the element type at runtime.
type Object interface {
	DType() dtypes.DType
}

// View is a M x N region of a matrix, as stored (before Trans is applied).
type View[T dtypes.Number] struct {
	Strided[T]

	M, N    int
	DiagOff int
	Struc   Struc
	Uplo    Uplo
	Diag    Diag
	Trans   Trans
}

// NewView creates a general dense view over data.
func NewView[T dtypes.Number](data []T, off, m, n, rs, cs int) *View[T] {
	return &View[T]{
		Strided: Strided[T]{Data: data, Off: off, RS: rs, CS: cs},
		M:       m,
		N:       n,
		Struc:   General,
		Uplo:    Dense,
	}
}

// ColMajor creates a general dense m x n view over data with leading dimension m.
func ColMajor[T dtypes.Number](data []T, m, n int) *View[T] {
	return NewView(data, 0, m, n, 1, max(m, 1))
}

// RowMajor creates a general dense m x n view over data with leading dimension n.
func RowMajor[T dtypes.Number](data []T, m, n int) *View[T] {
	return NewView(data, 0, m, n, max(n, 1), 1)
}

// DType implements Object.
func (v *View[T]) DType() dtypes.DType {
	return dtypes.FromGenericsType[T]()
}

// AsTriangular marks the view as triangular with the given stored side and diagonal kind.
// It returns v itself, for chaining.
func (v *View[T]) AsTriangular(uplo Uplo, diag Diag) *View[T] {
	v.Struc, v.Uplo, v.Diag = Triangular, uplo, diag
	return v
}

// AsSymmetric marks the view as symmetric, with only the uplo side stored.
func (v *View[T]) AsSymmetric(uplo Uplo) *View[T] {
	v.Struc, v.Uplo, v.Diag = Symmetric, uplo, NonUnit
	return v
}

// AsHermitian marks the view as Hermitian, with only the uplo side stored.
func (v *View[T]) AsHermitian(uplo Uplo) *View[T] {
	v.Struc, v.Uplo, v.Diag = Hermitian, uplo, NonUnit
	return v
}

// AsZeros marks the view as having no stored element.
func (v *View[T]) AsZeros() *View[T] {
	v.Uplo = Zeros
	return v
}

// WithTrans sets the transposition status.
func (v *View[T]) WithTrans(trans Trans) *View[T] {
	v.Trans = trans
	return v
}

// WithDiagOff sets the diagonal offset.
func (v *View[T]) WithDiagOff(diagOff int) *View[T] {
	v.DiagOff = diagOff
	return v
}

// Structure returns the combined structure tag.
func (v *View[T]) Structure() Structure {
	if v.Uplo == Zeros {
		return StructureZero
	}
	switch v.Struc {
	case Triangular:
		switch v.Uplo {
		case Upper:
			return StructureUpper
		case Lower:
			return StructureLower
		}
	case Symmetric:
		return StructureSymmetric
	case Hermitian:
		return StructureHermitian
	}
	return StructureGeneral
}

// Length is the number of rows after transposition.
func (v *View[T]) Length() int {
	if v.Trans.DoesTrans() {
		return v.N
	}
	return v.M
}

// Width is the number of columns after transposition.
func (v *View[T]) Width() int {
	if v.Trans.DoesTrans() {
		return v.M
	}
	return v.N
}

// Sub returns the m x n sub-view starting at stored element (i, j). The diagonal offset is adjusted so
// the sub-view keeps referring to the same diagonal, and Trans is kept.
func (v *View[T]) Sub(i, j, m, n int) *View[T] {
	sub := *v
	sub.Strided = v.Strided.Advance(i, j)
	sub.M, sub.N = m, n
	sub.DiagOff = v.DiagOff + i - j
	return &sub
}

// Normalized returns the strides, diagonal offset, stored side and conjugation of the view with
// the transposition applied, so that callers only deal with the non-transposed case.
func (v *View[T]) Normalized() (s Strided[T], diagOff int, uplo Uplo, conj Conj) {
	s, diagOff, uplo, conj = v.Strided, v.DiagOff, v.Uplo, v.Trans.Conj()
	if v.Trans.DoesTrans() {
		s = s.Transposed()
		diagOff = -diagOff
		uplo = uplo.Toggle()
	}
	return
}

// IsStrictlyAboveDiag returns whether every element of an m x n block with diagonal offset diagOff
// lies above the diagonal.
func IsStrictlyAboveDiag(diagOff, m, n int) bool {
	return m <= -diagOff
}

// IsStrictlyBelowDiag returns whether every element of an m x n block with diagonal offset diagOff
// lies below the diagonal.
func IsStrictlyBelowDiag(diagOff, m, n int) bool {
	return n <= diagOff
}

// IntersectsDiag returns whether the diagonal crosses the m x n block.
func IntersectsDiag(diagOff, m, n int) bool {
	return !IsStrictlyAboveDiag(diagOff, m, n) && !IsStrictlyBelowDiag(diagOff, m, n)
}

// IsUnstoredSubpart returns whether the m x n block lies entirely on the non-stored side of a matrix
// whose stored side is uplo.
func IsUnstoredSubpart(diagOff int, uplo Uplo, m, n int) bool {
	return (uplo == Upper && IsStrictlyBelowDiag(diagOff, m, n)) ||
		(uplo == Lower && IsStrictlyAboveDiag(diagOff, m, n))
}

// InStoredRegion returns whether element (i, j) is on the stored side of a matrix with diagonal offset
// diagOff and stored side uplo. The diagonal itself is stored for Lower and Upper.
func InStoredRegion(diagOff int, uplo Uplo, i, j int) bool {
	switch uplo {
	case Dense:
		return true
	case Upper:
		return j-i >= diagOff
	case Lower:
		return j-i <= diagOff
	}
	return false
}
