// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/blkpack/pkg/cntx"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/blkpack/pkg/gemmsup"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

func runBench(cx *cntx.Context) error {
	n, k, reps := *flagN, *flagK, *flagReps
	if n <= 0 || k < 0 || reps <= 0 {
		return errors.Errorf("invalid benchmark shape -n=%d -k=%d -reps=%d", n, k, reps)
	}
	tiers := *flagTiers
	bar := progressbar.NewOptions(len(tiers)*gemmsup.MaxRows,
		progressbar.OptionSetDescription("gemmsup"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("shapes"),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
	)

	// A is row-major and B column-major, the unit-stride layouts of the native tier.
	a := make([]float64, gemmsup.MaxRows*k)
	b := make([]float64, k*n)
	c := make([]float64, gemmsup.MaxRows*n)
	for i := range a {
		a[i] = float64(i%7) - 3
	}
	for i := range b {
		b[i] = float64(i%5) - 2
	}
	aS := matrix.Strided[float64]{Data: a, RS: max(k, 1), CS: 1}
	bS := matrix.Strided[float64]{Data: b, RS: 1, CS: max(k, 1)}
	cS := matrix.Strided[float64]{Data: c, RS: n, CS: 1}

	results := newPlainTable()
	results.Table.Headers("tier", "m", "n", "k", "time/call", "flop/s")
	for _, tier := range tiers {
		tierCx := *cx
		tierCx.Tier = tier
		family := gemmsup.NewRDFamily[float64](tier)
		for m := 1; m <= gemmsup.MaxRows; m++ {
			start := time.Now()
			for range reps {
				family.Native6x8n(matrix.NoConj, matrix.NoConj, m, n, k, 1, aS, bS, 0.5, cS, nil, &tierCx)
			}
			elapsed := time.Since(start)
			perCall := elapsed / time.Duration(reps)
			flops := 2 * float64(m) * float64(n) * float64(k) * float64(reps) / elapsed.Seconds()
			results.Row(false, tier.String(), strconv.Itoa(m), strconv.Itoa(n), strconv.Itoa(k),
				perCall.String(), humanize.SI(flops, "flop/s"))
			_ = bar.Add(1)
		}
	}
	_ = bar.Finish()
	printTable("gemmsup rd 6x8n on "+cx.Name, results)
	return nil
}
