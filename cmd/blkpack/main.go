// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// blkpack inspects the packing engine and the gemmsup kernels from the command line.
//
// Modes (-mode):
//
//   - pack: packs a float64 source and prints the panel layout and the packed panels;
//   - plan: prints the row and column decompositions of the rd 6x8n kernels;
//   - bench: times gemmsup for m = 1..9 on every selected tier.
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/blkpack/pkg/cntx"
	"github.com/gomlx/blkpack/pkg/support/xslices"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagMode    = flag.String("mode", "pack", "What to do: pack, plan or bench.")
	flagConfig  = flag.String("config", "", "Context configuration used by -mode=bench, see cntx.New. Defaults to $"+cntx.ConfigEnv+".")
	flagNoColor = flag.Bool("no_color", false, "Disable colors in the tables.")

	flagM       = flag.Int("m", 7, "Number of rows of the source packed by -mode=pack.")
	flagN       = flag.Int("n", 7, "Number of columns of the source (pack), of the planned C (plan) or of C for every m=1..9 (bench).")
	flagPanel   = flag.Int("panel", 4, "Panel dimension (MR) used by -mode=pack.")
	flagUplo    = flag.String("uplo", "upper", "Structure of the source packed: upper, lower, general, symmetric or hermitian.")
	flagUnit    = flag.Bool("unit", false, "Triangular source with implicit unit diagonal.")
	flagTrans   = flag.Bool("trans", false, "Transpose the source before packing.")
	flagInvDiag = flag.Bool("invdiag", false, "Invert the packed diagonal of triangular panels.")
	flagRev     = flag.Bool("rev", false, "Pack triangular panels in reverse order.")
	flagBeta    = flag.Float64("beta", 1, "Scale factor applied while packing.")
	flagNMax    = flag.Int("nmax", 0, "Allocated panel length, if larger than the source. 0 uses the source width.")

	flagK     = flag.Int("k", 64, "Inner dimension used by -mode=bench.")
	flagReps  = flag.Int("reps", 2000, "Number of kernel calls timed per shape by -mode=bench.")
	flagTiers = xslices.Flag("tiers", []cntx.Tier{cntx.Native, cntx.Portable, cntx.Reference},
		"Comma-separated list of kernel tiers benchmarked by -mode=bench.", cntx.ParseTier)
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cx := cntx.Default()
	if *flagConfig != "" {
		cx = must.M1(cntx.New(*flagConfig))
	}
	klog.V(1).Infof("context: %s", cx)

	var err error
	switch *flagMode {
	case "pack":
		err = runPack()
	case "plan":
		runPlan(*flagN)
	case "bench":
		err = runBench(cx)
	default:
		err = errors.Errorf("unknown -mode=%q, see 'blkpack -help'", *flagMode)
	}
	if err != nil {
		klog.Errorf("blkpack: %+v", err)
		os.Exit(1)
	}
}
