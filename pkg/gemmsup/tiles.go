// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmsup

import (
	"github.com/gomlx/blkpack/pkg/cntx"
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/blkpack/pkg/level1"
	"github.com/gomlx/exceptions"
)

// tileCapacity is the number of accumulators of the largest tile (6x8).
const tileCapacity = 6 * 8

func tileForTier[T dtypes.Number](tier cntx.Tier) Kernel[T] {
	switch tier {
	case cntx.Reference:
		return referenceTile[T]
	case cntx.Portable:
		return portableTile[T]
	}
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(Kernel[float32](nativeTile[float32])).(Kernel[T])
	case float64:
		return any(Kernel[float64](nativeTile[float64])).(Kernel[T])
	}
	return portableTile[T]
}

// exactShape wraps tile into a kernel that only accepts mr x nr.
func exactShape[T dtypes.Number](name string, mr, nr int, tile Kernel[T]) Kernel[T] {
	return func(conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
		beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context) {
		if m != mr || n != nr {
			exceptions.Panicf("gemmsup.%s: shape must be %dx%d, got %dx%d", name, mr, nr, m, n)
		}
		tile(conjA, conjB, m, n, k, alpha, a, b, beta, c, aux, cx)
	}
}

// maxShape wraps tile into a kernel that accepts any shape up to mr x nr.
func maxShape[T dtypes.Number](name string, mr, nr int, tile Kernel[T]) Kernel[T] {
	return func(conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
		beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context) {
		if m < 0 || n < 0 || m > mr || n > nr {
			exceptions.Panicf("gemmsup.%s: shape must be at most %dx%d, got %dx%d", name, mr, nr, m, n)
		}
		if m == 0 || n == 0 {
			return
		}
		tile(conjA, conjB, m, n, k, alpha, a, b, beta, c, aux, cx)
	}
}

// portableTile accumulates the m x n dot products in scalar registers, for any strides.
func portableTile[T dtypes.Number](conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], _ *AuxInfo, _ *cntx.Context) {
	var acc [tileCapacity]T
	ca, cb := conjA.IsConj(), conjB.IsConj()
	for i := range m {
		for j := range n {
			var dot T
			aIdx, bIdx := a.Index(i, 0), b.Index(0, j)
			if !ca && !cb {
				for range k {
					dot += a.Data[aIdx] * b.Data[bIdx]
					aIdx += a.CS
					bIdx += b.RS
				}
			} else {
				for range k {
					dot += dtypes.ConjIf(ca, a.Data[aIdx]) * dtypes.ConjIf(cb, b.Data[bIdx])
					aIdx += a.CS
					bIdx += b.RS
				}
			}
			acc[i*n+j] = dot
		}
	}
	storeTile(m, n, alpha, acc[:m*n], beta, c)
}

// referenceTile computes each element of C with one dotxv.
func referenceTile[T dtypes.Number](conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], _ *AuxInfo, _ *cntx.Context) {
	for i := range m {
		for j := range n {
			level1.Dotxv(conjA, conjB, k, alpha, a.Row(i), b.Col(j), beta, &c.Data[c.Index(i, j)])
		}
	}
}

// storeTile writes C = beta*C + alpha*acc, where acc holds the m x n tile in row order.
// C is not read if beta is zero.
func storeTile[T dtypes.Number](m, n int, alpha T, acc []T, beta T, c matrix.Strided[T]) {
	if alpha != 1 {
		for i := range acc {
			acc[i] *= alpha
		}
	}
	if c.CS == 1 {
		// Row-major C: store the accumulators as they are.
		for i := range m {
			row := acc[i*n : (i+1)*n]
			cIdx := c.Off + i*c.RS
			if beta == 0 {
				copy(c.Data[cIdx:cIdx+n], row)
				continue
			}
			for j, v := range row {
				c.Data[cIdx+j] = beta*c.Data[cIdx+j] + v
			}
		}
		return
	}

	// Other storage: transpose the tile so each column of C is stored from contiguous accumulators.
	var accT [tileCapacity]T
	for i := range m {
		for j := range n {
			accT[j*m+i] = acc[i*n+j]
		}
	}
	for j := range n {
		col := accT[j*m : (j+1)*m]
		cIdx := c.Off + j*c.CS
		if beta == 0 {
			for _, v := range col {
				c.Data[cIdx] = v
				cIdx += c.RS
			}
			continue
		}
		for _, v := range col {
			c.Data[cIdx] = beta*c.Data[cIdx] + v
			cIdx += c.RS
		}
	}
}
