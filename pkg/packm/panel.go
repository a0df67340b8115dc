// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package packm

import (
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/exceptions"
)

// Storage is the orientation of the panels in a PanelBuffer.
type Storage int

const (
	// ColStored panels hold PanelDim rows of the source each, stored column by column
	// (rs=1, cs=PanelDim). This is the layout of the left operand of a micro-kernel.
	ColStored Storage = iota

	// RowStored panels hold PanelDim columns of the source each, stored row by row
	// (rs=PanelDim, cs=1). This is the layout of the right operand of a micro-kernel.
	RowStored
)

func (s Storage) String() string {
	if s == RowStored {
		return "RowStored"
	}
	return "ColStored"
}

// Flags modify how a matrix is packed.
type Flags struct {
	// InvertDiag replaces the packed diagonal of triangular panels by its reciprocal.
	InvertDiag bool

	// RevIfUpper packs the panels of an upper-triangular source in reverse order, last panel first.
	RevIfUpper bool

	// RevIfLower packs the panels of a lower-triangular source in reverse order, last panel first.
	RevIfLower bool
}

// PanelBuffer is the destination of packing: Data[Off:] is organized as a sequence of panels of
// PanelDim x panel length elements.
//
// M and N are the logical extent to pack (the dimensions of the source after transposition), MMax and
// NMax the allocated extent: the iteration dimension (M for ColStored, N for RowStored) is rounded up to a
// multiple of PanelDim, and the long dimension may be padded too. Every element between the logical and
// allocated extent is zero after packing.
//
// The packing engine never allocates: Data must already hold RequiredSize() elements after Off.
type PanelBuffer[T dtypes.Number] struct {
	Data []T
	Off  int

	M, N       int
	MMax, NMax int
	PanelDim   int
	Storage    Storage

	// PS is the number of elements between consecutive dense panels. If 0, it is PanelDim times the
	// allocated panel length. Triangular packing ignores it: triangular panels are packed back to back, each
	// with its own packed length.
	PS int

	// allocated is set when the constructor allocated Data, so WithLenMax may grow it.
	allocated bool
}

// RoundUp returns the smallest multiple of blockSize that is >= dim.
func RoundUp(dim, blockSize int) int {
	if blockSize <= 0 {
		exceptions.Panicf("packm.RoundUp: block size must be positive, got %d", blockSize)
	}
	return (dim + blockSize - 1) / blockSize * blockSize
}

// NumPanels returns the number of panels of panelDim needed to cover iterDim: ceil(iterDim/panelDim).
func NumPanels(iterDim, panelDim int) int {
	return iterDim/panelDim + min(iterDim%panelDim, 1)
}

// NewColStored creates a ColStored panel buffer for a m x n source, with panels of panelDim rows.
// If data is nil, it is allocated with RequiredSize() elements.
func NewColStored[T dtypes.Number](data []T, m, n, panelDim int) *PanelBuffer[T] {
	p := &PanelBuffer[T]{
		M: m, N: n,
		MMax: RoundUp(m, panelDim), NMax: n,
		PanelDim: panelDim,
		Storage:  ColStored,
	}
	p.Data, p.allocated = ensureSize(data, p.RequiredSize())
	return p
}

// NewRowStored creates a RowStored panel buffer for a m x n source, with panels of panelDim columns.
// If data is nil, it is allocated with RequiredSize() elements.
func NewRowStored[T dtypes.Number](data []T, m, n, panelDim int) *PanelBuffer[T] {
	p := &PanelBuffer[T]{
		M: m, N: n,
		MMax: m, NMax: RoundUp(n, panelDim),
		PanelDim: panelDim,
		Storage:  RowStored,
	}
	p.Data, p.allocated = ensureSize(data, p.RequiredSize())
	return p
}

func ensureSize[T dtypes.Number](data []T, size int) (buf []T, allocated bool) {
	if data == nil {
		return make([]T, size), true
	}
	return data, false
}

// WithLenMax sets the allocated length of the panels (NMax for ColStored, MMax for RowStored), growing
// Data if it was allocated by the constructor and is now too small. It returns p, for chaining.
//
// It panics if Data was given by the caller and is too small for the new length.
func (p *PanelBuffer[T]) WithLenMax(lenMax int) *PanelBuffer[T] {
	if p.Storage == ColStored {
		p.NMax = lenMax
	} else {
		p.MMax = lenMax
	}
	if size := p.Off + p.RequiredSize(); len(p.Data) < size {
		if !p.allocated {
			exceptions.Panicf("packm.PanelBuffer.WithLenMax: buffer of %d elements is too small for panel length %d, "+
				"%d elements are required", len(p.Data), lenMax, size)
		}
		grown := make([]T, size)
		copy(grown, p.Data)
		p.Data = grown
	}
	return p
}

// DType implements matrix.Object.
func (p *PanelBuffer[T]) DType() dtypes.DType {
	return dtypes.FromGenericsType[T]()
}

// IterDim is the dimension the panels are stacked along: M for ColStored, N for RowStored.
func (p *PanelBuffer[T]) IterDim() int {
	if p.Storage == ColStored {
		return p.M
	}
	return p.N
}

// PanelLen is the logical length of a full panel: N for ColStored, M for RowStored.
func (p *PanelBuffer[T]) PanelLen() int {
	if p.Storage == ColStored {
		return p.N
	}
	return p.M
}

// PanelLenMax is the allocated length of a full panel: NMax for ColStored, MMax for RowStored.
func (p *PanelBuffer[T]) PanelLenMax() int {
	if p.Storage == ColStored {
		return p.NMax
	}
	return p.MMax
}

// PanelStride is the number of elements between consecutive dense panels.
func (p *PanelBuffer[T]) PanelStride() int {
	if p.PS > 0 {
		return p.PS
	}
	return p.PanelDim * p.PanelLenMax()
}

// NumPanels is the number of panels needed to cover the iteration dimension.
func (p *PanelBuffer[T]) NumPanels() int {
	return NumPanels(p.IterDim(), p.PanelDim)
}

// RequiredSize is the number of elements the buffer needs after Off to hold every panel densely.
// Triangular packing never uses more.
func (p *PanelBuffer[T]) RequiredSize() int {
	return p.NumPanels() * p.PanelStride()
}

// RS returns the row stride within a panel.
func (p *PanelBuffer[T]) RS() int {
	if p.Storage == ColStored {
		return 1
	}
	return p.PanelDim
}

// CS returns the column stride within a panel.
func (p *PanelBuffer[T]) CS() int {
	if p.Storage == ColStored {
		return p.PanelDim
	}
	return 1
}

// Panel returns the view of the packed panel described by info, in source orientation: for ColStored it
// is PanelDim x info.LenMax, for RowStored info.LenMax x PanelDim.
func (p *PanelBuffer[T]) Panel(info PanelInfo) matrix.Strided[T] {
	return matrix.Strided[T]{Data: p.Data, Off: p.Off + info.DstOffset, RS: p.RS(), CS: p.CS()}
}

// panelDimMajor returns the view of the panel starting at dstOffset indexed by
// (position along the panel dimension, position along the panel length): the same for both orientations.
func (p *PanelBuffer[T]) panelDimMajor(dstOffset int) matrix.Strided[T] {
	return matrix.Strided[T]{Data: p.Data, Off: p.Off + dstOffset, RS: 1, CS: p.PanelDim}
}
