// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package cntx

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Features are the CPU capabilities relevant to the kernels.
type Features struct {
	// amd64
	AVX2, AVX512F, FMA bool

	// arm64
	ASIMD, SVE bool
}

// DetectFeatures reads the CPU features of the current machine.
func DetectFeatures() Features {
	return Features{
		AVX2:    cpu.X86.HasAVX2,
		AVX512F: cpu.X86.HasAVX512F,
		FMA:     cpu.X86.HasFMA,
		ASIMD:   cpu.ARM64.HasASIMD,
		SVE:     cpu.ARM64.HasSVE,
	}
}

// ArchName returns the name of the configuration family matching the features, in the usual BLAS naming
// ("haswell", "skx", "armv8a", "armsve", "generic").
func (f Features) ArchName() string {
	switch {
	case f.AVX512F:
		return "skx"
	case f.AVX2 && f.FMA:
		return "haswell"
	case f.SVE:
		return "armsve"
	case f.ASIMD || runtime.GOARCH == "arm64":
		return "armv8a"
	}
	return "generic"
}

// List returns the names of the features present.
func (f Features) List() []string {
	var names []string
	for _, feature := range []struct {
		name    string
		present bool
	}{
		{"avx2", f.AVX2}, {"avx512f", f.AVX512F}, {"fma", f.FMA}, {"asimd", f.ASIMD}, {"sve", f.SVE},
	} {
		if feature.present {
			names = append(names, feature.name)
		}
	}
	return names
}

// String implements fmt.Stringer.
func (f Features) String() string {
	names := f.List()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
