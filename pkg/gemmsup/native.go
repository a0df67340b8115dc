// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmsup

import (
	"github.com/ajroetker/go-highway/hwy"
	"github.com/gomlx/blkpack/pkg/cntx"
	"github.com/gomlx/blkpack/pkg/core/matrix"
)

// simdFloat are the element types with a native tile.
type simdFloat interface {
	float32 | float64
}

// nativeTile keeps one vector accumulator per element of C, and reduces it across lanes once the whole k
// loop is done, before the scale and store.
//
// It needs the rows of A and the columns of B to be contiguous (a.CS == 1 and b.RS == 1) and at least one
// full vector along k. It falls back to portableTile otherwise, or if SIMD is disabled.
func nativeTile[T simdFloat](conjA, conjB matrix.Conj, m, n, k int, alpha T, a, b matrix.Strided[T],
	beta T, c matrix.Strided[T], aux *AuxInfo, cx *cntx.Context) {
	if cx == nil {
		cx = cntx.Default()
	}
	lanes := hwy.MaxLanes[T]()
	if !cx.UseSIMD() || a.CS != 1 || b.RS != 1 || lanes < 2 || k < lanes {
		portableTile(conjA, conjB, m, n, k, alpha, a, b, beta, c, aux, cx)
		return
	}

	var acc [tileCapacity]T
	kVec := k - k%lanes
	for i := range m {
		aRow := a.Data[a.Off+i*a.RS : a.Off+i*a.RS+k]
		for j := range n {
			bCol := b.Data[b.Off+j*b.CS : b.Off+j*b.CS+k]
			sum := hwy.Zero[T]()
			for p := 0; p < kVec; p += lanes {
				sum = hwy.MulAdd(hwy.Load(aRow[p:p+lanes]), hwy.Load(bCol[p:p+lanes]), sum)
			}
			dot := hwy.ReduceSum(sum)
			for p := kVec; p < k; p++ {
				dot += aRow[p] * bCol[p]
			}
			acc[i*n+j] = dot
		}
	}
	storeTile(m, n, alpha, acc[:m*n], beta, c)
}
