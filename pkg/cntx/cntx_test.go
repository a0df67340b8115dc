// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package cntx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTier(t *testing.T) {
	for _, tier := range []Tier{Native, Portable, Reference} {
		parsed, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, parsed)
	}
	parsed, err := ParseTier("PORTABLE")
	require.NoError(t, err)
	assert.Equal(t, Portable, parsed)
	_, err = ParseTier("fast")
	require.Error(t, err)
	assert.Equal(t, "tier(7)", Tier(7).String())
}

func TestNew(t *testing.T) {
	detected := Detect()
	testCases := []struct {
		config  string
		check   func(t *testing.T, cx *Context)
		wantErr string
	}{
		{config: "", check: func(t *testing.T, cx *Context) {
			assert.Equal(t, detected, cx)
		}},
		{config: "tier=reference", check: func(t *testing.T, cx *Context) {
			assert.Equal(t, Reference, cx.Tier)
			assert.False(t, cx.UseSIMD())
		}},
		{config: " tier = portable , trsm_mr=8,trsm_nr=2 ", check: func(t *testing.T, cx *Context) {
			assert.Equal(t, Portable, cx.Tier)
			assert.Equal(t, BlockSizes{MR: 8, NR: 2}, cx.Trsm)
			assert.Equal(t, BlockSizes{MR: 6, NR: 8}, cx.Sup)
		}},
		{config: "nosimd", check: func(t *testing.T, cx *Context) {
			assert.True(t, cx.NoSIMD)
			assert.False(t, cx.UseSIMD())
		}},
		{config: "nosimd=true,tier=native", check: func(t *testing.T, cx *Context) {
			assert.True(t, cx.NoSIMD)
		}},
		{config: "tier=turbo", wantErr: "unknown kernel tier"},
		{config: "trsm_mr=0", wantErr: "must be positive"},
		{config: "trsm_nr=four", wantErr: "not an integer"},
		{config: "nosimd=maybe", wantErr: "invalid entry"},
		{config: "threads=4", wantErr: "unknown key"},
	}
	for _, tc := range testCases {
		t.Run(tc.config, func(t *testing.T) {
			cx, err := New(tc.config)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cx)
		})
	}
}

func TestDefault(t *testing.T) {
	cx := Default()
	require.NotNil(t, cx)
	assert.Same(t, cx, Default())
	assert.NotEmpty(t, cx.Name)
	assert.Contains(t, cx.String(), "sup=6x8")
}

func TestFeatures(t *testing.T) {
	assert.Equal(t, "none", Features{}.String())
	// Without features the name only depends on GOARCH.
	assert.Contains(t, []string{"generic", "armv8a"}, Features{}.ArchName())
	f := Features{AVX2: true, FMA: true}
	assert.Equal(t, "haswell", f.ArchName())
	assert.Equal(t, "avx2,fma", f.String())
	assert.Equal(t, "skx", Features{AVX512F: true, AVX2: true}.ArchName())
	assert.Equal(t, "armsve", Features{ASIMD: true, SVE: true}.ArchName())
	assert.Equal(t, "armv8a", Features{ASIMD: true}.ArchName())
}
