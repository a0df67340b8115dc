// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package matrix

import "github.com/gomlx/blkpack/pkg/core/dtypes"

// Strided is a typed view over a flat slice: element (i, j) lives at Data[Off + i*RS + j*CS].
//
// Strides may be negative and may describe row-major, column-major or general layouts. Strided never
// checks that the addressed elements lie inside Data: that is a precondition of every caller, and a
// violation surfaces as a Go bounds-check panic.
type Strided[T dtypes.Number] struct {
	Data   []T
	Off    int
	RS, CS int
}

// Index returns the position in Data of element (i, j).
func (s Strided[T]) Index(i, j int) int {
	return s.Off + i*s.RS + j*s.CS
}

// At returns element (i, j).
func (s Strided[T]) At(i, j int) T {
	return s.Data[s.Off+i*s.RS+j*s.CS]
}

// Set element (i, j) to value.
func (s Strided[T]) Set(i, j int, value T) {
	s.Data[s.Off+i*s.RS+j*s.CS] = value
}

// Advance returns the view whose element (0, 0) is element (i, j) of s.
// It is the base-pointer arithmetic used by kernels to step over sub-tiles.
func (s Strided[T]) Advance(i, j int) Strided[T] {
	s.Off += i*s.RS + j*s.CS
	return s
}

// Transposed returns the view with row and column strides swapped.
func (s Strided[T]) Transposed() Strided[T] {
	s.RS, s.CS = s.CS, s.RS
	return s
}

// IsRowStored returns whether consecutive elements of a row are contiguous.
func (s Strided[T]) IsRowStored() bool {
	return s.CS == 1
}

// IsColStored returns whether consecutive elements of a column are contiguous.
func (s Strided[T]) IsColStored() bool {
	return s.RS == 1
}

// Row returns row i as a vector.
func (s Strided[T]) Row(i int) Vector[T] {
	return Vector[T]{Data: s.Data, Off: s.Off + i*s.RS, Inc: s.CS}
}

// Col returns column j as a vector.
func (s Strided[T]) Col(j int) Vector[T] {
	return Vector[T]{Data: s.Data, Off: s.Off + j*s.CS, Inc: s.RS}
}

// Vector is a strided 1-D view: element i lives at Data[Off + i*Inc].
type Vector[T dtypes.Number] struct {
	Data []T
	Off  int
	Inc  int
}

// At returns element i.
func (v Vector[T]) At(i int) T {
	return v.Data[v.Off+i*v.Inc]
}

// Set element i to value.
func (v Vector[T]) Set(i int, value T) {
	v.Data[v.Off+i*v.Inc] = value
}

// Contiguous returns the n elements of v as a sub-slice of Data, if v.Inc is 1.
func (v Vector[T]) Contiguous(n int) (values []T, ok bool) {
	if v.Inc != 1 && n > 1 {
		return nil, false
	}
	return v.Data[v.Off : v.Off+n], true
}
