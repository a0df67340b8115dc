// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmsup

import (
	"github.com/gomlx/exceptions"
)

// MaxRows is the largest number of rows Native6x8n accepts: 6 native rows plus a 3-row inline kernel.
const MaxRows = 9

// RowKernel identifies one of the kernels of the rd 6x8n family a row decomposition step runs.
type RowKernel int

const (
	KernelNative6x8n RowKernel = iota
	KernelInline4x8n
	KernelInline3x8n
	KernelInlineRx8n
)

func (k RowKernel) String() string {
	switch k {
	case KernelNative6x8n:
		return "native6x8n"
	case KernelInline4x8n:
		return "inline4x8n"
	case KernelInline3x8n:
		return "inline3x8n"
	case KernelInlineRx8n:
		return "inlineRx8n"
	}
	return "kernel(?)"
}

// RowStep is one call of a row decomposition: Rows rows of A and C, starting at RowOffset.
type RowStep struct {
	Kernel    RowKernel
	Rows      int
	RowOffset int
}

// RowSplit is the decomposition of a row count into at most two kernel calls. It is returned by value and
// never allocates.
type RowSplit struct {
	Steps [2]RowStep
	Len   int
}

// Rows is the total number of rows covered by the split.
func (s RowSplit) Rows() int {
	total := 0
	for i := range s.Len {
		total += s.Steps[i].Rows
	}
	return total
}

func split1(kernel RowKernel, rows int) RowSplit {
	return RowSplit{Steps: [2]RowStep{{Kernel: kernel, Rows: rows}}, Len: 1}
}

func split2(kernel1 RowKernel, rows1 int, kernel2 RowKernel, rows2 int) RowSplit {
	return RowSplit{
		Steps: [2]RowStep{
			{Kernel: kernel1, Rows: rows1},
			{Kernel: kernel2, Rows: rows2, RowOffset: rows1},
		},
		Len: 2,
	}
}

// PlanRows returns how Native6x8n decomposes m rows:
//
//	9 -> 6 (native) + 3    8 -> 6 (native) + 2    7 -> 3 + 4    6 -> native
//	5 -> 3 + 2             4 -> 4                 3 -> 3        1, 2 -> rx
//
// Zero rows is an empty split. It panics for m < 0 or m > MaxRows.
func PlanRows(m int) RowSplit {
	switch m {
	case 0:
		return RowSplit{}
	case 9:
		return split2(KernelNative6x8n, 6, KernelInline3x8n, 3)
	case 8:
		return split2(KernelNative6x8n, 6, KernelInlineRx8n, 2)
	case 7:
		return split2(KernelInline3x8n, 3, KernelInline4x8n, 4)
	case 6:
		return split1(KernelNative6x8n, 6)
	case 5:
		return split2(KernelInline3x8n, 3, KernelInlineRx8n, 2)
	case 4:
		return split1(KernelInline4x8n, 4)
	case 3:
		return split1(KernelInline3x8n, 3)
	case 1, 2:
		return split1(KernelInlineRx8n, m)
	}
	exceptions.Panicf("gemmsup: no row decomposition for m=%d, it must be between 0 and %d", m, MaxRows)
	return RowSplit{}
}

// ColumnSplit is how the 6-row native kernel covers n columns: Tiles4 calls of the 6x4 tile, then an
// optional 6x3 tile, then Edge (1 or 2) columns computed as two 3-row strips.
type ColumnSplit struct {
	Tiles4 int
	Tile3  bool
	Edge   int
}

// PlanColumns returns the column decomposition used by Native6x8n for 6 rows.
func PlanColumns(n int) ColumnSplit {
	s := ColumnSplit{Tiles4: n / 4, Edge: n % 4}
	if s.Edge >= 3 {
		s.Tile3 = true
		s.Edge -= 3
	}
	return s
}
