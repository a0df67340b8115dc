// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes includes the DType enum for the element types a matrix view can hold.
//
// It is a reduced fork of GoMLX's dtypes package: the tags keep the same numbering, and it includes
// the mapping to Go native types, the constraint interfaces used with generics (Supported, Number,
// Float) and the Dispatcher used to select an implementation from a runtime DType.
package dtypes

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/gomlx/blkpack/pkg/core/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// panicf panics with the formatted description.
//
// It is only used for "bugs in the code" -- when parameters don't follow the specifications.
// In principle, it should never happen -- the same way nil-pointer panics should never happen.
func panicf(format string, args ...any) {
	panic(errors.Errorf(format, args...))
}

func init() {
	// Add a mapping to the lower-case version of dtypes.
	keys := slices.Collect(maps.Keys(MapOfNames))
	for _, key := range keys {
		lowerKey := strings.ToLower(key)
		if lowerKey == key {
			continue
		}
		if _, found := MapOfNames[lowerKey]; found {
			continue
		}
		MapOfNames[lowerKey] = MapOfNames[key]
	}
}

// FromGenericsType returns the DType enum for the given type that this package knows about.
func FromGenericsType[T Supported]() DType {
	var t T
	switch (any(t)).(type) {
	case float64:
		return Float64
	case float32:
		return Float32
	case float16.Float16:
		return Float16
	case bfloat16.BFloat16:
		return BFloat16
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	case int32:
		return Int32
	case int64:
		return Int64
	}
	return InvalidDType
}

// Pre-generate constant reflect.TypeOf for convenience.
var (
	float32Type    = reflect.TypeOf(float32(0))
	float64Type    = reflect.TypeOf(float64(0))
	float16Type    = reflect.TypeOf(float16.Float16(0))
	bfloat16Type   = reflect.TypeOf(bfloat16.BFloat16(0))
	complex64Type  = reflect.TypeOf(complex64(0))
	complex128Type = reflect.TypeOf(complex128(0))
	int32Type      = reflect.TypeOf(int32(0))
	int64Type      = reflect.TypeOf(int64(0))
)

// GoType returns the Go `reflect.Type` corresponding to the DType.
func (dtype DType) GoType() reflect.Type {
	switch dtype {
	case Float16:
		return float16Type
	case BFloat16:
		return bfloat16Type
	case Float32:
		return float32Type
	case Float64:
		return float64Type
	case Complex64:
		return complex64Type
	case Complex128:
		return complex128Type
	case Int32:
		return int32Type
	case Int64:
		return int64Type
	default:
		// This should never happen, except if someone entered an invalid DType number beyond the values
		// defined.
		panicf("unknown dtype %q (%d) in DType.GoType", dtype, dtype)
		panic(nil)
	}
}

// Size returns the number of bytes for the given DType.
func (dtype DType) Size() int {
	return int(dtype.GoType().Size())
}

// SizeForElements returns the number of bytes used by numElements values of dtype.
func (dtype DType) SizeForElements(numElements int) int {
	if numElements < 0 {
		panicf("number of elements cannot be negative for SizeForElements, got %d", numElements)
	}
	return numElements * dtype.Size()
}

// IsKernelType returns whether dtype is one of the four element types with packing and kernel
// implementations: Float32, Float64, Complex64, Complex128.
func (dtype DType) IsKernelType() bool {
	return dtype == Float32 || dtype == Float64 || dtype == Complex64 || dtype == Complex128
}

// Supported lists the Go types this package knows how to map to a DType.
// Used as traits for generics.
type Supported interface {
	float16.Float16 | bfloat16.BFloat16 | float32 | float64 | complex64 | complex128 | int32 | int64
}

// Number are the element types the packing engine and the kernels are instantiated for.
// It doesn't include float16.Float16 or bfloat16.BFloat16 because they are not native number types.
type Number interface {
	float32 | float64 | complex64 | complex128
}

// Float represents the real Number types.
type Float interface {
	float32 | float64
}
