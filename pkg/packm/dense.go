// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package packm

import (
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/blkpack/pkg/level1"
	"github.com/gomlx/exceptions"
)

func checkDense[T dtypes.Number](c *matrix.View[T]) {
	if c.Struc == matrix.Triangular {
		exceptions.Panicf("packm.PackDense: triangular sources must be packed with PackTriangular")
	}
}

// PackDense packs the general, symmetric or Hermitian matrix c, scaled by beta, into the panels of p, in
// either orientation.
//
// Symmetric and Hermitian sources only need their Uplo triangle stored: the other triangle is read from
// the mirrored element (conjugated for Hermitian sources, whose diagonal is taken as real). Panels are
// placed every p.PanelStride() elements and zero padded like triangular panels, without the corner identity.
//
// It panics for triangular sources. A source with Uplo == Zeros is a no-op.
func PackDense[T dtypes.Number](beta T, c *matrix.View[T], p *PanelBuffer[T]) {
	checkDense(c)
	if c.Uplo == matrix.Zeros {
		return
	}
	g := newGeometry(c, p, Flags{})
	hermitian := c.Struc == matrix.Hermitian
	for info := range g.densePanels(c.Struc) {
		dst := p.panelDimMajor(info.DstOffset)
		if info.Kind == Full {
			level1.CopyPack(g.conj, info.Dim, info.Len, beta, g.source(info), dst)
		} else {
			g.copyMirrored(hermitian, beta, info, dst)
		}
		g.padEdges(info, dst, false)
	}
}

// copyMirrored packs a panel of a symmetric/Hermitian source one element at a time, reading elements
// outside the stored triangle from their mirror image across the diagonal.
func (g *geometry[T]) copyMirrored(hermitian bool, beta T, info PanelInfo, dst matrix.Strided[T]) {
	conj := g.conj.IsConj()
	d := g.diagOff
	for j := range info.Len {
		for i := range info.Dim {
			row, col := g.sourceCoords(info, i, j)
			var v T
			if matrix.InStoredRegion(d, g.uplo, row, col) {
				v = g.src.At(row, col)
				if hermitian && col-row == d {
					v = dtypes.DropImag(v)
				}
			} else {
				// Element (row, col) mirrors (col-d, row+d) across the diagonal col-row == d.
				v = g.src.At(col-d, row+d)
				if hermitian {
					v = dtypes.Conj(v)
				}
			}
			dst.Set(i, j, beta*dtypes.ConjIf(conj, v))
		}
	}
}
