// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package packm

import (
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/blkpack/pkg/level1"
	"github.com/gomlx/exceptions"
)

func checkTriangular[T dtypes.Number](c *matrix.View[T], p *PanelBuffer[T]) {
	// Triangular packing of the right operand is never requested: only ColStored panels are supported.
	if p.Storage == RowStored {
		exceptions.Panicf("packm.PackTriangular: packing a triangular matrix to RowStored panels is not supported")
	}
	if c.Struc != matrix.Triangular || c.Uplo == matrix.Dense {
		exceptions.Panicf("packm.PackTriangular: source must be lower or upper triangular, got struc=%s uplo=%s",
			c.Struc, c.Uplo)
	}
}

// PackTriangular packs the triangular matrix c, scaled by beta, into ColStored panels of p.
//
// The m x n extent packed is p.M x p.N (the dimensions of c after its transposition). For each panel:
//
//   - panels entirely on the non-stored side of the diagonal are skipped: nothing is written, and they take
//     no space in p;
//   - panels crossed by the diagonal only pack the stored triangle: upper panels start at the diagonal,
//     lower panels end where the diagonal exits. Unit diagonals are set to beta, the diagonal is inverted if
//     flags.InvertDiag, and the triangle opposite to the stored one is zeroed;
//   - other panels are copied whole.
//
// Ragged panels are zero padded up to PanelDim and up to the allocated length, and when both pads apply
// the diagonal of the padded corner is set to one. Each panel occupies PanelDim times its allocated length,
// back to back from p.Off; use TriangularLayout to locate them.
//
// It panics if p is RowStored or if c is not lower/upper triangular. A source with Uplo == Zeros is a no-op.
func PackTriangular[T dtypes.Number](beta T, c *matrix.View[T], p *PanelBuffer[T], flags Flags) {
	checkTriangular(c, p)
	if c.Uplo == matrix.Zeros {
		return
	}
	g := newGeometry(c, p, flags)
	for info := range g.triangularPanels() {
		if info.Kind == Unstored {
			continue
		}
		dst := p.panelDimMajor(info.DstOffset)
		level1.CopyPack(g.conj, info.Dim, info.Len, beta, g.source(info), dst)
		if info.Kind == Diagonal {
			g.normalizeDiagonal(beta, c.Diag, flags.InvertDiag, info, dst)
		}
		g.padEdges(info, dst, true)
	}
}

// normalizeDiagonal fixes up the packed diagonal of a panel crossed by it, and zeroes the triangle opposite
// to the stored one so the panel can be consumed as dense.
func (g *geometry[T]) normalizeDiagonal(beta T, diag matrix.Diag, invertDiag bool, info PanelInfo, dst matrix.Strided[T]) {
	diagOffP := info.DiagOff - info.Off
	mUse, nUse := info.Dim, info.Len
	if diag == matrix.Unit {
		level1.SetDiag(diagOffP, mUse, nUse, beta, dst)
	}
	if invertDiag {
		level1.InvertDiag(diagOffP, mUse, nUse, dst)
	}
	uploP := g.uplo.Toggle()
	level1.SetRegion(uploP.ShrinkDiagOff(diagOffP), matrix.NonUnit, uploP, mUse, nUse, T(0), dst)
}

// padEdges zeroes the part of the panel allocated for but not covered by the source. If cornerIdentity,
// the diagonal of a bottom-right corner pad is set to one.
func (g *geometry[T]) padEdges(info PanelInfo, dst matrix.Strided[T], cornerIdentity bool) {
	shortPad := info.Dim != g.panelDim
	longPad := info.Len != info.LenMax
	if shortPad {
		level1.SetRegion(0, matrix.NonUnit, matrix.Dense, g.panelDim-info.Dim, info.LenMax, T(0),
			dst.Advance(info.Dim, 0))
	}
	if longPad {
		level1.SetRegion(0, matrix.NonUnit, matrix.Dense, g.panelDim, info.LenMax-info.Len, T(0),
			dst.Advance(0, info.Len))
	}
	if cornerIdentity && shortPad && longPad {
		level1.SetDiag(0, g.panelDim-info.Dim, info.LenMax-info.Len, T(1), dst.Advance(info.Dim, info.Len))
	}
}
