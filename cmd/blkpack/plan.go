// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"

	"github.com/gomlx/blkpack/pkg/gemmsup"
)

func runPlan(n int) {
	rows := newPlainTable()
	rows.Table.Headers("m", "Step 1", "Step 2")
	for m := 1; m <= gemmsup.MaxRows; m++ {
		split := gemmsup.PlanRows(m)
		cells := []string{strconv.Itoa(m), "", ""}
		for i := range split.Len {
			step := split.Steps[i]
			cells[i+1] = fmt.Sprintf("%s: rows %d..%d", step.Kernel, step.RowOffset, step.RowOffset+step.Rows-1)
		}
		rows.Row(false, cells...)
	}
	printTable("Row decomposition", rows)

	cols := newPlainTable()
	split := gemmsup.PlanColumns(n)
	cols.Table.Headers("n", "6x4 tiles", "6x3 tile", "edge columns")
	cols.Row(false, strconv.Itoa(n), strconv.Itoa(split.Tiles4), strconv.FormatBool(split.Tile3), strconv.Itoa(split.Edge))
	printTable("Column decomposition of the native 6-row kernel", cols)
}
