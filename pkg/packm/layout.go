// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package packm

import (
	"iter"
	"slices"

	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/exceptions"
)

// PanelKind tells how a panel is packed.
type PanelKind int

const (
	// Full panels are copied over their whole length.
	Full PanelKind = iota

	// Diagonal panels are crossed by the diagonal of a structured source. Triangular packing copies only
	// the stored triangle and densifies the rest; dense packing of symmetric sources mirrors the unstored
	// triangle.
	Diagonal

	// Unstored panels lie on the non-stored side of a triangular source: they are skipped and take no
	// space in the buffer.
	Unstored

	// Reflected panels lie on the non-stored side of a symmetric or Hermitian source: they are packed
	// from the mirrored elements.
	Reflected
)

func (k PanelKind) String() string {
	switch k {
	case Full:
		return "full"
	case Diagonal:
		return "diagonal"
	case Unstored:
		return "unstored"
	case Reflected:
		return "reflected"
	}
	return "kind(?)"
}

// PanelInfo describes one step of the packing loop.
type PanelInfo struct {
	// Iter is the loop counter: panels are packed in Iter order.
	Iter int

	// Source is the first row (ColStored) or column (RowStored) of the source covered by the panel.
	Source int

	// Index is the logical panel index, Source / PanelDim.
	Index int

	// Dim is the number of source rows/columns in the panel: PanelDim except for a ragged last panel.
	Dim int

	// DiagOff is the diagonal offset of the panel, relative to its first element.
	DiagOff int

	Kind PanelKind

	// Off is the number of leading elements along the panel length that are skipped (upper-triangular
	// panels start at the diagonal).
	Off int

	// Len is the number of packed elements along the panel length, and LenMax the allocated length.
	Len, LenMax int

	// DstOffset is the position of the panel's first element, relative to PanelBuffer.Off.
	DstOffset int
}

// geometry holds the loop parameters shared by the packing variants, with any transposition of the source
// already applied.
type geometry[T dtypes.Number] struct {
	src     matrix.Strided[T]
	conj    matrix.Conj
	diagOff int
	uplo    matrix.Uplo

	storage               Storage
	m, n                  int
	iterDim, panelDim     int
	panelLen, panelLenMax int
	diagOffInc            int
	vs, inc, ld           int
	reverse               bool
	panelStride           int
}

func newGeometry[T dtypes.Number](c *matrix.View[T], p *PanelBuffer[T], flags Flags) geometry[T] {
	if p.PanelDim <= 0 {
		exceptions.Panicf("packm: panel dimension must be positive, got %d", p.PanelDim)
	}
	g := geometry[T]{
		storage:     p.Storage,
		m:           p.M,
		n:           p.N,
		panelDim:    p.PanelDim,
		panelStride: p.PanelStride(),
	}
	g.src, g.diagOff, g.uplo, g.conj = c.Normalized()
	if p.Storage == RowStored {
		g.iterDim, g.panelLen, g.panelLenMax = p.N, p.M, p.MMax
		g.inc, g.ld, g.vs = g.src.CS, g.src.RS, g.src.CS
		g.diagOffInc = -p.PanelDim
	} else {
		g.iterDim, g.panelLen, g.panelLenMax = p.M, p.N, p.NMax
		g.inc, g.ld, g.vs = g.src.RS, g.src.CS, g.src.RS
		g.diagOffInc = p.PanelDim
	}
	g.reverse = (flags.RevIfUpper && g.uplo == matrix.Upper) || (flags.RevIfLower && g.uplo == matrix.Lower)
	return g
}

// panelShape returns the shape in source orientation of a panel with dim rows/columns.
func (g *geometry[T]) panelShape(dim int) (m, n int) {
	if g.storage == RowStored {
		return g.m, dim
	}
	return dim, g.n
}

// source returns the view of the source block packed into panel info, indexed by
// (position along the panel dimension, position along the panel length).
func (g *geometry[T]) source(info PanelInfo) matrix.Strided[T] {
	return matrix.Strided[T]{
		Data: g.src.Data,
		Off:  g.src.Off + info.Source*g.vs + info.Off*g.ld,
		RS:   g.inc,
		CS:   g.ld,
	}
}

// sourceCoords converts a (panel dimension, panel length) position of panel info to (row, column) of the
// normalized source.
func (g *geometry[T]) sourceCoords(info PanelInfo, i, j int) (row, col int) {
	if g.storage == RowStored {
		return info.Off + j, info.Source + i
	}
	return info.Source + i, info.Off + j
}

// steps yields the per-panel loop counters, in packing order, with Dim and DiagOff filled in.
func (g *geometry[T]) steps() iter.Seq[PanelInfo] {
	return func(yield func(PanelInfo) bool) {
		numIter := NumPanels(g.iterDim, g.panelDim)
		ic, icInc, ip, ipInc := 0, g.panelDim, 0, 1
		if g.reverse {
			ic, icInc = (numIter-1)*g.panelDim, -g.panelDim
			ip, ipInc = numIter-1, -1
		}
		for it := 0; it < numIter; it, ic, ip = it+1, ic+icInc, ip+ipInc {
			info := PanelInfo{
				Iter:    it,
				Source:  ic,
				Index:   ip,
				Dim:     min(g.panelDim, g.iterDim-ic),
				DiagOff: g.diagOff + ip*g.diagOffInc,
			}
			if !yield(info) {
				return
			}
		}
	}
}

// triangularPanels yields the panels of triangular packing, including the Unstored ones that take no space.
func (g *geometry[T]) triangularPanels() iter.Seq[PanelInfo] {
	return func(yield func(PanelInfo) bool) {
		dst := 0
		for info := range g.steps() {
			info.DstOffset = dst
			mPanel, nPanel := g.panelShape(info.Dim)
			switch {
			case matrix.IsUnstoredSubpart(info.DiagOff, g.uplo, mPanel, nPanel):
				info.Kind = Unstored
				if !yield(info) {
					return
				}
				continue

			case matrix.IntersectsDiag(info.DiagOff, mPanel, nPanel):
				info.Kind = Diagonal
				if g.uplo == matrix.Upper {
					info.Off = max(info.DiagOff, 0)
					info.Len = g.panelLen - info.Off
					info.LenMax = g.panelLenMax - info.Off
				} else {
					info.Off = 0
					info.Len = min(g.panelLen, info.DiagOff+info.Dim)
					info.LenMax = min(g.panelLenMax, info.DiagOff+g.panelDim)
				}

			default:
				info.Kind = Full
				info.Len, info.LenMax = g.panelLen, g.panelLenMax
			}
			if !yield(info) {
				return
			}
			dst += g.panelDim * info.LenMax
		}
	}
}

// densePanels yields the panels of dense packing: every panel is full length and placed at a fixed stride.
// Panels of symmetric and Hermitian sources are marked Diagonal or Reflected when they need mirrored reads.
func (g *geometry[T]) densePanels(struc matrix.Struc) iter.Seq[PanelInfo] {
	mirrored := (struc == matrix.Symmetric || struc == matrix.Hermitian) &&
		(g.uplo == matrix.Lower || g.uplo == matrix.Upper)
	return func(yield func(PanelInfo) bool) {
		for info := range g.steps() {
			info.DstOffset = info.Iter * g.panelStride
			info.Len, info.LenMax = g.panelLen, g.panelLenMax
			info.Kind = Full
			if mirrored {
				mPanel, nPanel := g.panelShape(info.Dim)
				switch {
				case matrix.IsUnstoredSubpart(info.DiagOff, g.uplo, mPanel, nPanel):
					info.Kind = Reflected
				case matrix.IntersectsDiag(info.DiagOff, mPanel, nPanel):
					info.Kind = Diagonal
				}
			}
			if !yield(info) {
				return
			}
		}
	}
}

// TriangularLayout returns the panels PackTriangular(beta, c, p, flags) would pack, in packing order.
// It panics for the same unsupported configurations.
func TriangularLayout[T dtypes.Number](c *matrix.View[T], p *PanelBuffer[T], flags Flags) []PanelInfo {
	checkTriangular(c, p)
	if c.Uplo == matrix.Zeros {
		return nil
	}
	g := newGeometry(c, p, flags)
	return slices.Collect(g.triangularPanels())
}

// DenseLayout returns the panels PackDense(beta, c, p) would pack, in packing order.
func DenseLayout[T dtypes.Number](c *matrix.View[T], p *PanelBuffer[T]) []PanelInfo {
	checkDense(c)
	if c.Uplo == matrix.Zeros {
		return nil
	}
	g := newGeometry(c, p, Flags{})
	return slices.Collect(g.densePanels(c.Struc))
}
