// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package cntx holds the runtime context the kernels are selected with: the detected CPU features, the
// SIMD target go-highway runs on, the kernel tier and the register block sizes.
//
// The default context is built once, from BLKPACK_CONFIG if set:
//
//	BLKPACK_CONFIG="tier=portable,trsm_mr=8"
package cntx

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ConfigEnv is the environment variable with the configuration of the default context.
// See New for the format.
const ConfigEnv = "BLKPACK_CONFIG"

// Tier selects how the micro-kernels are implemented.
type Tier int

const (
	// Native kernels use go-highway vectors for the float32 and float64 cases with unit-stride operands,
	// and fall back to Portable otherwise.
	Native Tier = iota

	// Portable kernels are scalar register-tile loops over any strides and any element type.
	Portable

	// Reference kernels compute each element of C with one dotxv.
	Reference
)

var tierNames = []string{"native", "portable", "reference"}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "tier(" + strconv.Itoa(int(t)) + ")"
	}
	return tierNames[t]
}

// ParseTier converts a tier name (as returned by Tier.String) to a Tier.
func ParseTier(name string) (Tier, error) {
	for ii, tierName := range tierNames {
		if strings.EqualFold(name, tierName) {
			return Tier(ii), nil
		}
	}
	return Native, errors.Errorf("unknown kernel tier %q, valid values are %q", name, tierNames)
}

// BlockSizes are the register blocking (MR x NR micro-tiles) of a kernel family.
type BlockSizes struct {
	MR, NR int
}

// Context describes the machine the kernels run on and how they are selected.
// It is read-only once built: kernels take it as an argument and never modify it.
type Context struct {
	// Name is the name of the configuration, derived from the architecture and SIMD target.
	Name string

	// Tier of the kernels to use.
	Tier Tier

	// SIMD is the go-highway target name ("avx2", "neon", "scalar", ...).
	SIMD string

	// NoSIMD disables go-highway vectors: the Native tier then runs the portable kernels.
	NoSIMD bool

	Features Features

	// Sup are the block sizes of the small/unpacked gemm family. MR and NR are fixed by the kernel shapes.
	Sup BlockSizes

	// Trsm are the block sizes of the packed TRSM solver.
	Trsm BlockSizes
}

// Detect returns the context for the current machine, with the default tier and block sizes.
func Detect() *Context {
	features := DetectFeatures()
	cx := &Context{
		Tier:     Native,
		SIMD:     hwy.CurrentName(),
		NoSIMD:   hwy.NoSimdEnv() || hwy.CurrentLevel() == hwy.DispatchScalar,
		Features: features,
		Sup:      BlockSizes{MR: 6, NR: 8},
		Trsm:     BlockSizes{MR: 4, NR: 4},
	}
	cx.Name = features.ArchName()
	if cx.SIMD != "" {
		cx.Name += "-" + cx.SIMD
	}
	return cx
}

// New creates a context from the detected one, modified by config.
//
// The format of config is a comma-separated list of "key=value" (or "key" for boolean keys) entries:
//
//   - tier=native|portable|reference: kernel tier;
//   - trsm_mr=N, trsm_nr=N: register block sizes of the TRSM micro-kernel;
//   - nosimd: disables go-highway vectors.
//
// An empty config returns the detected context.
func New(config string) (*Context, error) {
	cx := Detect()
	for _, entry := range strings.Split(config, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, hasValue := strings.Cut(entry, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		var err error
		switch key {
		case "tier":
			cx.Tier, err = ParseTier(value)
		case "trsm_mr":
			cx.Trsm.MR, err = parseBlockSize(value)
		case "trsm_nr":
			cx.Trsm.NR, err = parseBlockSize(value)
		case "nosimd":
			cx.NoSIMD = true
			if hasValue {
				cx.NoSIMD, err = strconv.ParseBool(value)
			}
		default:
			err = errors.Errorf("unknown key %q", key)
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "invalid entry %q in context configuration %q", entry, config)
		}
	}
	return cx, nil
}

func parseBlockSize(value string) (int, error) {
	size, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "block size %q is not an integer", value)
	}
	if size <= 0 {
		return 0, errors.Errorf("block size must be positive, got %d", size)
	}
	return size, nil
}

var (
	defaultOnce    sync.Once
	defaultContext *Context
)

// Default returns the context built from ConfigEnv, or the detected one if it is not set.
// It is built only once. An invalid configuration is logged and ignored.
func Default() *Context {
	defaultOnce.Do(func() {
		config := os.Getenv(ConfigEnv)
		cx, err := New(config)
		if err != nil {
			klog.Warningf("ignoring $%s: %v", ConfigEnv, err)
			cx = Detect()
		}
		defaultContext = cx
		klog.V(1).Infof("blkpack context: %s", cx)
	})
	return defaultContext
}

// UseSIMD returns whether native kernels should use go-highway vectors.
func (cx *Context) UseSIMD() bool {
	return cx.Tier == Native && !cx.NoSIMD
}

// String implements fmt.Stringer.
func (cx *Context) String() string {
	return fmt.Sprintf("%s (tier=%s, simd=%s, nosimd=%v, sup=%dx%d, trsm=%dx%d)",
		cx.Name, cx.Tier, cx.SIMD, cx.NoSIMD, cx.Sup.MR, cx.Sup.NR, cx.Trsm.MR, cx.Trsm.NR)
}
