// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/blkpack/pkg/packm"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// newSource builds the m x n column-major source selected by the flags. Element (i, j) is 1 + i + j*m, so
// every packed value tells where it came from.
func newSource(m, n int) (*matrix.View[float64], error) {
	data := make([]float64, m*n)
	for i := range data {
		data[i] = float64(i + 1)
	}
	src := matrix.ColMajor(data, m, n)
	diag := matrix.NonUnit
	if *flagUnit {
		diag = matrix.Unit
	}
	switch *flagUplo {
	case "upper":
		src.AsTriangular(matrix.Upper, diag)
	case "lower":
		src.AsTriangular(matrix.Lower, diag)
	case "symmetric":
		src.AsSymmetric(matrix.Upper)
	case "hermitian":
		src.AsHermitian(matrix.Upper)
	case "general":
	default:
		return nil, errors.Errorf("unknown -uplo=%q, valid values are upper, lower, general, symmetric or hermitian", *flagUplo)
	}
	if *flagTrans {
		src.WithTrans(matrix.Transpose)
	}
	return src, nil
}

func runPack() error {
	if *flagM < 0 || *flagN < 0 || *flagPanel <= 0 {
		return errors.Errorf("invalid shape -m=%d -n=%d -panel=%d", *flagM, *flagN, *flagPanel)
	}
	src, err := newSource(*flagM, *flagN)
	if err != nil {
		return err
	}
	p := packm.NewColStored[float64](nil, src.Length(), src.Width(), *flagPanel)
	if *flagNMax > p.NMax {
		p = p.WithLenMax(*flagNMax)
	}
	flags := packm.Flags{InvertDiag: *flagInvDiag, RevIfUpper: *flagRev, RevIfLower: *flagRev}

	var layout []packm.PanelInfo
	err = exceptions.TryCatch[error](func() {
		packm.Pack(*flagBeta, src, p, flags)
		if src.Struc == matrix.Triangular {
			layout = packm.TriangularLayout(src, p, flags)
		} else {
			layout = packm.DenseLayout(src, p)
		}
	})
	if err != nil {
		return errors.WithMessage(err, "packing failed")
	}

	summary := newPlainTable(lipgloss.Right, lipgloss.Left)
	summary.Row(false, "source", strconv.Itoa(src.M)+"x"+strconv.Itoa(src.N)+" "+src.Structure().String())
	summary.Row(false, "trans", src.Trans.String())
	summary.Row(false, "diag", src.Diag.String())
	summary.Row(false, "packed", strconv.Itoa(p.M)+"x"+strconv.Itoa(p.N)+" "+p.Storage.String())
	summary.Row(false, "allocated", strconv.Itoa(p.MMax)+"x"+strconv.Itoa(p.NMax))
	summary.Row(false, "panels", humanize.Comma(int64(len(layout))))
	used := 0
	for _, info := range layout {
		if info.Kind != packm.Unstored {
			used = info.DstOffset + p.PanelDim*info.LenMax
		}
	}
	summary.Row(false, "buffer", humanize.Bytes(uint64(dtypes.Float64.SizeForElements(len(p.Data)))))
	summary.Row(false, "used", humanize.Bytes(uint64(dtypes.Float64.SizeForElements(used))))
	printTable("Summary", summary)

	panels := newPlainTable()
	panels.Table.Headers("Iter", "Panel", "Source", "Dim", "Kind", "DiagOff", "Off", "Len", "LenMax", "DstOffset")
	for _, info := range layout {
		panels.Row(info.Kind == packm.Unstored,
			strconv.Itoa(info.Iter), strconv.Itoa(info.Index), strconv.Itoa(info.Source), strconv.Itoa(info.Dim),
			info.Kind.String(), strconv.Itoa(info.DiagOff), strconv.Itoa(info.Off), strconv.Itoa(info.Len),
			strconv.Itoa(info.LenMax), strconv.Itoa(info.DstOffset))
	}
	printTable("Layout", panels)

	for _, info := range layout {
		if info.Kind == packm.Unstored {
			continue
		}
		printTable("Panel "+strconv.Itoa(info.Index)+" ("+info.Kind.String()+")", panelTable(p, info))
	}
	return nil
}

// panelTable shows the packed panel in source orientation, with the padding in red.
func panelTable(p *packm.PanelBuffer[float64], info packm.PanelInfo) *TableWithReds {
	t := newPlainTable()
	panel := p.Panel(info)
	header := []string{"row"}
	for j := range info.LenMax {
		header = append(header, strconv.Itoa(info.Off+j))
	}
	t.Table.Headers(header...)
	for i := range p.PanelDim {
		row := []string{strconv.Itoa(info.Source + i)}
		for j := range info.LenMax {
			row = append(row, formatValue(panel.At(i, j)))
		}
		t.Row(i >= info.Dim, row...)
	}
	return t
}
