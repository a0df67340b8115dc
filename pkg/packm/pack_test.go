// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package packm

import (
	"fmt"
	"testing"

	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/exceptions"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentinel = -777

// value builds an element of type T: the imaginary part is dropped for real types.
func value[T dtypes.Number](re, im float64) T {
	var v T
	switch p := any(&v).(type) {
	case *float32:
		*p = float32(re)
	case *float64:
		*p = re
	case *complex64:
		*p = complex(float32(re), float32(im))
	case *complex128:
		*p = complex(re, im)
	}
	return v
}

// newSource creates a col-major m x n general view with distinct non-zero elements.
func newSource[T dtypes.Number](m, n int) *matrix.View[T] {
	data := make([]T, m*n)
	for j := range n {
		for i := range m {
			data[i+j*m] = value[T](float64(1+i+10*j), float64(i-j)+0.5)
		}
	}
	return matrix.ColMajor(data, m, n)
}

// fillSentinel sets every element of the buffer to the sentinel value.
func fillSentinel[T dtypes.Number](p *PanelBuffer[T]) *PanelBuffer[T] {
	for i := range p.Data {
		p.Data[i] = value[T](sentinel, 0)
	}
	return p
}

// logicalAt returns element (i, j) of c after its transposition is applied.
func logicalAt[T dtypes.Number](c *matrix.View[T], i, j int) T {
	if c.Trans.DoesTrans() {
		i, j = j, i
	}
	return dtypes.ConjIf(c.Trans.Conj().IsConj(), c.At(i, j))
}

// expectedTriangular returns what PackTriangular writes at position (i, j) of the ColStored panel info:
// i along the panel dimension, j along the allocated length.
func expectedTriangular[T dtypes.Number](beta T, c *matrix.View[T], flags Flags, panelDim int, info PanelInfo, i, j int) T {
	if i >= info.Dim || j >= info.Len {
		shortPad, longPad := info.Dim != panelDim, info.Len != info.LenMax
		if shortPad && longPad && i >= info.Dim && j >= info.Len && i-info.Dim == j-info.Len {
			return T(1)
		}
		return T(0)
	}
	_, diagOff, uplo, _ := c.Normalized()
	row, col := info.Source+i, info.Off+j
	if !matrix.InStoredRegion(diagOff, uplo, row, col) {
		return T(0)
	}
	if col-row != diagOff {
		return beta * logicalAt(c, row, col)
	}
	v := beta
	if c.Diag == matrix.NonUnit {
		v = beta * logicalAt(c, row, col)
	}
	if flags.InvertDiag {
		v = T(1) / v
	}
	return v
}

// checkTriangular verifies the contents of every packed panel, and that nothing past the packed panels
// was written.
func checkTriangularPack[T dtypes.Number](t *testing.T, beta T, c *matrix.View[T], p *PanelBuffer[T], flags Flags) {
	t.Helper()
	layout := TriangularLayout(c, p, flags)
	used := 0
	for _, info := range layout {
		if info.Kind == Unstored {
			continue
		}
		used = max(used, info.DstOffset+p.PanelDim*info.LenMax)
		panel := p.Panel(info)
		for j := range info.LenMax {
			for i := range p.PanelDim {
				want := expectedTriangular(beta, c, flags, p.PanelDim, info, i, j)
				require.Equalf(t, want, panel.At(i, j), "panel %+v, element (%d, %d)", info, i, j)
			}
		}
	}
	for ii := p.Off + used; ii < len(p.Data); ii++ {
		require.Equalf(t, value[T](sentinel, 0), p.Data[ii], "element %d after the last panel was written", ii)
	}
}

// checkCoverage verifies that the panels cover the iteration dimension exactly once.
func checkCoverage(t *testing.T, iterDim int, layout []PanelInfo) {
	t.Helper()
	covered := make([]int, iterDim)
	for _, info := range layout {
		for i := range info.Dim {
			covered[info.Source+i]++
		}
	}
	for i, count := range covered {
		require.Equalf(t, 1, count, "row/column %d covered %d times", i, count)
	}
}

func TestPackTriangularUpper(t *testing.T) {
	c := newSource[float64](7, 7).AsTriangular(matrix.Upper, matrix.NonUnit)
	p := fillSentinel(NewColStored[float64](nil, 7, 7, 3))
	PackTriangular(1.0, c, p, Flags{})

	layout := TriangularLayout(c, p, Flags{})
	want := []PanelInfo{
		{Iter: 0, Source: 0, Index: 0, Dim: 3, DiagOff: 0, Kind: Diagonal, Off: 0, Len: 7, LenMax: 7, DstOffset: 0},
		{Iter: 1, Source: 3, Index: 1, Dim: 3, DiagOff: 3, Kind: Diagonal, Off: 3, Len: 4, LenMax: 4, DstOffset: 21},
		{Iter: 2, Source: 6, Index: 2, Dim: 1, DiagOff: 6, Kind: Diagonal, Off: 6, Len: 1, LenMax: 1, DstOffset: 33},
	}
	if diff := cmp.Diff(want, layout); diff != "" {
		t.Errorf("TriangularLayout() mismatch (-want +got):\n%s", diff)
	}
	checkCoverage(t, 7, layout)
	checkTriangularPack(t, 1.0, c, p, Flags{})

	// Densified: below the diagonal of the first panel is zero.
	assert.Equal(t, 0.0, p.Data[1])
	assert.Equal(t, c.At(0, 1), p.Data[3])
}

func TestPackTriangularLower(t *testing.T) {
	c := newSource[float32](6, 2).AsTriangular(matrix.Lower, matrix.NonUnit)
	p := fillSentinel(NewColStored[float32](nil, 6, 2, 2))
	layout := TriangularLayout(c, p, Flags{})
	kinds := make([]PanelKind, len(layout))
	for i, info := range layout {
		kinds[i] = info.Kind
	}
	assert.Equal(t, []PanelKind{Diagonal, Full, Full}, kinds)
	checkCoverage(t, 6, layout)

	PackTriangular(float32(3), c, p, Flags{})
	checkTriangularPack(t, float32(3), c, p, Flags{})
}

func TestPackTriangularUnstoredPanels(t *testing.T) {
	c := newSource[float64](6, 3).AsTriangular(matrix.Upper, matrix.NonUnit)
	p := fillSentinel(NewColStored[float64](nil, 6, 3, 2))
	layout := TriangularLayout(c, p, Flags{})
	require.Len(t, layout, 3)
	assert.Equal(t, Diagonal, layout[0].Kind)
	assert.Equal(t, Diagonal, layout[1].Kind)
	assert.Equal(t, 1, layout[1].Len)
	assert.Equal(t, Unstored, layout[2].Kind)
	// Unstored panels don't advance the destination.
	assert.Equal(t, 8, layout[2].DstOffset)
	checkCoverage(t, 6, layout)

	PackTriangular(1.0, c, p, Flags{})
	checkTriangularPack(t, 1.0, c, p, Flags{})

	// A block entirely below the diagonal of an upper matrix packs nothing.
	big := newSource[float64](8, 8).AsTriangular(matrix.Upper, matrix.NonUnit)
	below := big.Sub(4, 0, 4, 4)
	require.Equal(t, 4, below.DiagOff)
	pBelow := fillSentinel(NewColStored[float64](nil, 4, 4, 2))
	PackTriangular(1.0, below, pBelow, Flags{})
	for _, v := range pBelow.Data {
		require.Equal(t, float64(sentinel), v)
	}
}

func TestPackTriangularUnitAndInvert(t *testing.T) {
	for _, flags := range []Flags{{}, {InvertDiag: true}} {
		for _, diag := range []matrix.Diag{matrix.NonUnit, matrix.Unit} {
			t.Run(fmt.Sprintf("%s/invert=%v", diag, flags.InvertDiag), func(t *testing.T) {
				c := newSource[float64](5, 5).AsTriangular(matrix.Lower, diag)
				p := fillSentinel(NewColStored[float64](nil, 5, 5, 4))
				PackTriangular(2.0, c, p, flags)
				checkTriangularPack(t, 2.0, c, p, flags)

				// Element (0, 0) of the first panel is the first diagonal element.
				want := 2.0
				if diag == matrix.NonUnit {
					want *= c.At(0, 0)
				}
				if flags.InvertDiag {
					want = 1 / want
				}
				assert.Equal(t, want, p.Data[0])
			})
		}
	}
}

func TestPackTriangularCornerIdentity(t *testing.T) {
	c := newSource[float64](6, 6).AsTriangular(matrix.Upper, matrix.NonUnit)
	p := fillSentinel(NewColStored[float64](nil, 6, 6, 4).WithLenMax(10))
	require.Equal(t, 8, p.MMax)
	PackTriangular(1.0, c, p, Flags{})

	layout := TriangularLayout(c, p, Flags{})
	require.Len(t, layout, 2)
	last := layout[1]
	assert.Equal(t, PanelInfo{Iter: 1, Source: 4, Index: 1, Dim: 2, DiagOff: 4, Kind: Diagonal,
		Off: 4, Len: 2, LenMax: 6, DstOffset: 40}, last)

	panel := p.Panel(last)
	assert.Equal(t, 1.0, panel.At(2, 2))
	assert.Equal(t, 1.0, panel.At(3, 3))
	assert.Equal(t, 0.0, panel.At(2, 3))
	assert.Equal(t, 0.0, panel.At(3, 5))
	assert.Equal(t, 0.0, panel.At(2, 0))
	assert.Equal(t, c.At(4, 4), panel.At(0, 0))
	assert.Equal(t, c.At(4, 5), panel.At(0, 1))
	assert.Equal(t, 0.0, panel.At(1, 0))
	checkTriangularPack(t, 1.0, c, p, Flags{})
}

func TestPackTriangularReverse(t *testing.T) {
	c := newSource[float64](7, 7).AsTriangular(matrix.Upper, matrix.Unit)
	forward := fillSentinel(NewColStored[float64](nil, 7, 7, 3))
	reverse := fillSentinel(NewColStored[float64](nil, 7, 7, 3))
	flags := Flags{InvertDiag: true, RevIfUpper: true}
	PackTriangular(1.0, c, forward, Flags{InvertDiag: true})
	PackTriangular(1.0, c, reverse, flags)

	revLayout := TriangularLayout(c, reverse, flags)
	sources := make([]int, len(revLayout))
	for i, info := range revLayout {
		sources[i] = info.Source
	}
	assert.Equal(t, []int{6, 3, 0}, sources)
	assert.Equal(t, 0, revLayout[0].DstOffset)
	assert.Equal(t, 3, revLayout[1].DstOffset)
	assert.Equal(t, 15, revLayout[2].DstOffset)
	checkCoverage(t, 7, revLayout)
	checkTriangularPack(t, 1.0, c, reverse, flags)

	// Each panel holds the same contents whatever the packing order.
	fwdLayout := TriangularLayout(c, forward, Flags{InvertDiag: true})
	for _, rev := range revLayout {
		for _, fwd := range fwdLayout {
			if fwd.Source != rev.Source {
				continue
			}
			size := forward.PanelDim * fwd.LenMax
			if diff := cmp.Diff(forward.Data[fwd.DstOffset:fwd.DstOffset+size],
				reverse.Data[rev.DstOffset:rev.DstOffset+size]); diff != "" {
				t.Errorf("panel at source %d differs between orders (-forward +reverse):\n%s", fwd.Source, diff)
			}
		}
	}

	// RevIfLower doesn't apply to upper sources.
	layout := TriangularLayout(c, forward, Flags{RevIfLower: true})
	assert.Equal(t, 0, layout[0].Source)
}

func TestPackTriangularTransposed(t *testing.T) {
	const n = 6
	t.Run("real", func(t *testing.T) {
		stored := newSource[float64](n, n).AsTriangular(matrix.Lower, matrix.NonUnit).WithTrans(matrix.Transpose)
		explicit := matrix.ColMajor(make([]float64, n*n), n, n).AsTriangular(matrix.Upper, matrix.NonUnit)
		for i := range n {
			for j := range n {
				explicit.Set(i, j, stored.At(j, i))
			}
		}
		got := fillSentinel(NewColStored[float64](nil, n, n, 4))
		want := fillSentinel(NewColStored[float64](nil, n, n, 4))
		PackTriangular(1.5, stored, got, Flags{})
		PackTriangular(1.5, explicit, want, Flags{})
		if diff := cmp.Diff(want.Data, got.Data); diff != "" {
			t.Errorf("packing a transposed source differs from packing its explicit transpose:\n%s", diff)
		}
		checkTriangularPack(t, 1.5, stored, got, Flags{})
	})

	t.Run("conjugate", func(t *testing.T) {
		stored := newSource[complex128](n, n).AsTriangular(matrix.Upper, matrix.NonUnit).WithTrans(matrix.ConjTranspose)
		explicit := matrix.ColMajor(make([]complex128, n*n), n, n).AsTriangular(matrix.Lower, matrix.NonUnit)
		for i := range n {
			for j := range n {
				explicit.Set(i, j, dtypes.Conj(stored.At(j, i)))
			}
		}
		beta := complex(0.5, -1)
		got := fillSentinel(NewColStored[complex128](nil, n, n, 4))
		want := fillSentinel(NewColStored[complex128](nil, n, n, 4))
		PackTriangular(beta, stored, got, Flags{InvertDiag: true})
		PackTriangular(beta, explicit, want, Flags{InvertDiag: true})
		if diff := cmp.Diff(want.Data, got.Data); diff != "" {
			t.Errorf("packing a conjugate-transposed source differs from its explicit version:\n%s", diff)
		}
		checkTriangularPack(t, beta, stored, got, Flags{InvertDiag: true})
	})

	t.Run("row-major", func(t *testing.T) {
		src := newSource[float32](5, 4)
		rowMajor := matrix.RowMajor(make([]float32, 20), 5, 4).AsTriangular(matrix.Upper, matrix.NonUnit)
		for i := range 5 {
			for j := range 4 {
				rowMajor.Set(i, j, src.At(i, j))
			}
		}
		p := fillSentinel(NewColStored[float32](nil, 5, 4, 2))
		PackTriangular(float32(1), rowMajor, p, Flags{})
		checkTriangularPack(t, float32(1), rowMajor, p, Flags{})
	})
}

func TestPackDense(t *testing.T) {
	t.Run("row-stored", func(t *testing.T) {
		c := newSource[float64](5, 7)
		p := fillSentinel(NewRowStored[float64](nil, 5, 7, 3))
		require.Equal(t, 9, p.NMax)
		PackDense(2.0, c, p)
		layout := DenseLayout(c, p)
		require.Len(t, layout, 3)
		checkCoverage(t, 7, layout)
		for _, info := range layout {
			assert.Equal(t, info.Iter*15, info.DstOffset)
			panel := p.Panel(info)
			for i := range 5 {
				for j := range 3 {
					want := 0.0
					if j < info.Dim {
						want = 2 * c.At(i, info.Source+j)
					}
					require.Equalf(t, want, panel.At(i, j), "panel %d, element (%d, %d)", info.Index, i, j)
				}
			}
		}
	})

	t.Run("col-stored-with-stride", func(t *testing.T) {
		c := newSource[complex64](5, 3).WithTrans(matrix.ConjTranspose)
		// c is 3 x 5 after transposition.
		p := NewColStored[complex64](nil, 3, 5, 2)
		p.PS = 2*5 + 3
		p.Data = make([]complex64, p.RequiredSize())
		fillSentinel(p)
		PackDense(complex64(1), c, p)
		for _, info := range DenseLayout(c, p) {
			assert.Equal(t, info.Iter*13, info.DstOffset)
			panel := p.Panel(info)
			for i := range 2 {
				for j := range 5 {
					want := complex64(0)
					if i < info.Dim {
						want = logicalAt(c, info.Source+i, j)
					}
					require.Equal(t, want, panel.At(i, j))
				}
			}
		}
		// The gap between panels is left alone.
		assert.Equal(t, complex64(sentinel), p.Data[10])
		assert.Equal(t, complex64(sentinel), p.Data[12])
	})

	t.Run("long-pad", func(t *testing.T) {
		c := newSource[float64](4, 3)
		p := fillSentinel(NewColStored[float64](nil, 4, 3, 4).WithLenMax(5))
		PackDense(1.0, c, p)
		panel := p.Panel(DenseLayout(c, p)[0])
		for i := range 4 {
			assert.Equal(t, c.At(i, 2), panel.At(i, 2))
			assert.Equal(t, 0.0, panel.At(i, 3))
			assert.Equal(t, 0.0, panel.At(i, 4))
		}
	})
}

// symmetricPair returns a full n x n matrix with the requested symmetry, and a copy where only the uplo
// triangle is kept, the rest being overwritten with garbage.
func symmetricPair[T dtypes.Number](n int, hermitian bool, uplo matrix.Uplo) (full, stored *matrix.View[T]) {
	full = matrix.ColMajor(make([]T, n*n), n, n)
	stored = matrix.ColMajor(make([]T, n*n), n, n)
	for j := range n {
		for i := range j + 1 {
			v := value[T](float64(1+i+10*j), float64(j-i)+0.25)
			if i == j && hermitian {
				v = dtypes.DropImag(v)
			}
			full.Set(i, j, v)
			if hermitian {
				full.Set(j, i, dtypes.Conj(v))
			} else {
				full.Set(j, i, v)
			}
		}
	}
	for j := range n {
		for i := range n {
			v := full.At(i, j)
			if !matrix.InStoredRegion(0, uplo, i, j) {
				v = value[T](999, 999)
			} else if i == j && hermitian {
				// Imaginary parts of a Hermitian diagonal are never read.
				v += value[T](0, 5)
			}
			stored.Set(i, j, v)
		}
	}
	if hermitian {
		stored.AsHermitian(uplo)
	} else {
		stored.AsSymmetric(uplo)
	}
	return
}

func TestPackDenseSymmetric(t *testing.T) {
	for _, hermitian := range []bool{false, true} {
		for _, uplo := range []matrix.Uplo{matrix.Lower, matrix.Upper} {
			for _, storage := range []Storage{ColStored, RowStored} {
				t.Run(fmt.Sprintf("hermitian=%v/%s/%s", hermitian, uplo, storage), func(t *testing.T) {
					const n = 7
					full, stored := symmetricPair[complex128](n, hermitian, uplo)
					newBuffer := NewColStored[complex128]
					if storage == RowStored {
						newBuffer = NewRowStored[complex128]
					}
					want := newBuffer(nil, n, n, 3)
					got := newBuffer(nil, n, n, 3)
					beta := complex(2, 1)
					PackDense(beta, full, want)
					PackDense(beta, stored, got)
					if diff := cmp.Diff(want.Data, got.Data); diff != "" {
						t.Errorf("packing the stored triangle differs from packing the full matrix:\n%s", diff)
					}

					kinds := make(map[PanelKind]int)
					for _, info := range DenseLayout(stored, got) {
						kinds[info.Kind]++
					}
					assert.Equal(t, 3, kinds[Diagonal])
				})
			}
		}
	}

	t.Run("transposed", func(t *testing.T) {
		full, stored := symmetricPair[float64](5, false, matrix.Lower)
		stored.WithTrans(matrix.Transpose)
		want := NewColStored[float64](nil, 5, 5, 2)
		got := NewColStored[float64](nil, 5, 5, 2)
		PackDense(1.0, full, want)
		PackDense(1.0, stored, got)
		assert.Equal(t, want.Data, got.Data)
	})
}

func TestPackZeros(t *testing.T) {
	c := newSource[float64](4, 4).AsTriangular(matrix.Upper, matrix.NonUnit).AsZeros()
	p := fillSentinel(NewColStored[float64](nil, 4, 4, 2))
	Pack(1.0, c, p, Flags{})
	assert.Empty(t, TriangularLayout(c, p, Flags{}))
	for _, v := range p.Data {
		require.Equal(t, float64(sentinel), v)
	}

	general := newSource[float64](4, 4).AsZeros()
	PackDense(1.0, general, p)
	assert.Empty(t, DenseLayout(general, p))
	assert.Equal(t, float64(sentinel), p.Data[0])
}

func TestPackPanics(t *testing.T) {
	tri := newSource[float64](4, 4).AsTriangular(matrix.Upper, matrix.NonUnit)
	err := exceptions.TryCatch[error](func() {
		PackTriangular(1.0, tri, NewRowStored[float64](nil, 4, 4, 2), Flags{})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RowStored panels is not supported")

	assert.Panics(t, func() {
		PackTriangular(1.0, newSource[float64](4, 4), NewColStored[float64](nil, 4, 4, 2), Flags{})
	})
	assert.Panics(t, func() {
		dense := newSource[float64](4, 4).AsTriangular(matrix.Dense, matrix.NonUnit)
		PackTriangular(1.0, dense, NewColStored[float64](nil, 4, 4, 2), Flags{})
	})
	assert.Panics(t, func() { PackDense(1.0, tri, NewColStored[float64](nil, 4, 4, 2)) })
	assert.Panics(t, func() {
		p := NewColStored[float64](nil, 4, 4, 2)
		p.PanelDim = 0
		PackDense(1.0, newSource[float64](4, 4), p)
	})
}

type fakeObject dtypes.DType

func (f fakeObject) DType() dtypes.DType { return dtypes.DType(f) }

func TestPackObject(t *testing.T) {
	c := newSource[float32](5, 5).AsTriangular(matrix.Lower, matrix.NonUnit)
	want := NewColStored[float32](nil, 5, 5, 4)
	got := NewColStored[float32](nil, 5, 5, 4)
	Pack(float32(2), c, want, Flags{InvertDiag: true})
	PackObject(2, c, got, Flags{InvertDiag: true})
	assert.Equal(t, want.Data, got.Data)

	general := newSource[complex128](3, 4)
	pc := NewRowStored[complex128](nil, 3, 4, 2)
	PackObject(1.0, general, pc, Flags{})
	assert.Equal(t, general.At(2, 1), pc.Panel(DenseLayout(general, pc)[0]).At(2, 1))

	err := exceptions.TryCatch[error](func() {
		PackObject(1, fakeObject(dtypes.Int32), fakeObject(dtypes.Int32), Flags{})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dtype Int32 has no packing implementation")

	assert.Panics(t, func() { PackObject(1, c, pc, Flags{}) })
	assert.Panics(t, func() { PackObject(1, fakeObject(dtypes.Float32), got, Flags{}) })
}

func TestBufferGeometry(t *testing.T) {
	assert.Equal(t, 8, RoundUp(6, 4))
	assert.Equal(t, 0, RoundUp(0, 4))
	assert.Equal(t, 3, NumPanels(7, 3))
	assert.Equal(t, 0, NumPanels(0, 3))
	assert.Panics(t, func() { RoundUp(3, 0) })

	p := NewRowStored[float64](nil, 5, 7, 4)
	assert.Equal(t, 2, p.NumPanels())
	assert.Equal(t, 7, p.IterDim())
	assert.Equal(t, 5, p.PanelLen())
	assert.Equal(t, 20, p.PanelStride())
	assert.Equal(t, 40, p.RequiredSize())
	assert.Len(t, p.Data, 40)
	assert.Equal(t, 4, p.RS())
	assert.Equal(t, 1, p.CS())
	assert.Equal(t, dtypes.Float64, p.DType())

	p.WithLenMax(6)
	assert.Equal(t, 6, p.MMax)
	assert.Len(t, p.Data, 48)
	assert.Equal(t, "RowStored", p.Storage.String())
	assert.Equal(t, "unstored", Unstored.String())
}

func TestWithLenMaxBorrowedBuffer(t *testing.T) {
	// A caller workspace that is too small for the padded length is an error, never silently replaced.
	workspace := make([]float64, 48)
	err := exceptions.TryCatch[error](func() {
		NewColStored(workspace, 6, 6, 4).WithLenMax(10)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffer of 48 elements is too small")

	// A large enough workspace is kept, and packing writes into it.
	workspace = make([]float64, 80)
	for i := range workspace {
		workspace[i] = sentinel
	}
	c := newSource[float64](6, 6).AsTriangular(matrix.Upper, matrix.NonUnit)
	p := NewColStored(workspace, 6, 6, 4).WithLenMax(10)
	require.Same(t, &workspace[0], &p.Data[0])
	PackTriangular(1.0, c, p, Flags{})
	assert.Equal(t, c.At(0, 0), workspace[0])
	checkTriangularPack(t, 1.0, c, p, Flags{})

	// Buffers allocated by the constructor still grow.
	owned := NewColStored[float64](nil, 6, 6, 4)
	owned.WithLenMax(10)
	assert.Len(t, owned.Data, 80)
}
