// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package trsm

import (
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
)

// KernelUpper solves the mr x mr upper triangular system a * x = b in place, for nr right-hand sides, by
// backward substitution (last row first):
//
//	x(i, j) = (b(i, j) - sum_{l > i} a(i, l) * x(l, j)) * a(i, i)
//
// The diagonal of a must hold the inverses of the diagonal elements, as packed with packm.Flags.InvertDiag.
// Each solved row is written both to b, where the next rows read it from, and to c.
//
// a is usually a ColStored packed panel (rs=1, cs=MR) and b a RowStored one (rs=NR, cs=1), but any strides
// work.
func KernelUpper[T dtypes.Number](mr, nr int, a, b, c matrix.Strided[T]) {
	for i := mr - 1; i >= 0; i-- {
		inverse := a.At(i, i)
		for j := range nr {
			x := b.At(i, j)
			for l := i + 1; l < mr; l++ {
				x -= a.At(i, l) * b.At(l, j)
			}
			x *= inverse
			b.Set(i, j, x)
			c.Set(i, j, x)
		}
	}
}

// KernelLower is the lower triangular version of KernelUpper, by forward substitution (first row first):
//
//	x(i, j) = (b(i, j) - sum_{l < i} a(i, l) * x(l, j)) * a(i, i)
func KernelLower[T dtypes.Number](mr, nr int, a, b, c matrix.Strided[T]) {
	for i := range mr {
		inverse := a.At(i, i)
		for j := range nr {
			x := b.At(i, j)
			for l := range i {
				x -= a.At(i, l) * b.At(l, j)
			}
			x *= inverse
			b.Set(i, j, x)
			c.Set(i, j, x)
		}
	}
}
