// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"github.com/gomlx/exceptions"
)

// FuncForDispatcher is type of functions that the Dispatcher can handle.
type FuncForDispatcher func(params ...any)

// MaxDTypes is the size of the dispatch tables: every DType value must be smaller than it.
const MaxDTypes = 32

// Dispatcher maps a runtime DType to the generic implementation instantiated for it.
//
// It is the Go version of a per-datatype function pointer table: each operation that works on untyped
// matrices creates one Dispatcher and registers one function per supported dtype, usually from an
// init() function.
type Dispatcher struct {
	Name  string
	fnMap [MaxDTypes]FuncForDispatcher
}

// NewDispatcher creates a new dispatcher for a class of functions.
func NewDispatcher(name string) *Dispatcher {
	return &Dispatcher{
		Name: name,
	}
}

// Dispatch call the function that matches the dtype.
func (d *Dispatcher) Dispatch(dtype DType, params ...any) {
	if dtype < 0 || dtype >= MaxDTypes {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	fn := d.fnMap[dtype]
	if fn == nil {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	fn(params...)
}

// IsSupported returns whether a function was registered for the dtype.
func (d *Dispatcher) IsSupported(dtype DType) bool {
	return dtype >= 0 && dtype < MaxDTypes && d.fnMap[dtype] != nil
}

// Register a function to handle a specific dtype.
// This overwrites any previous setting for the same dtype.
func (d *Dispatcher) Register(dtype DType, fn FuncForDispatcher) {
	if dtype < 0 || dtype >= MaxDTypes {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	d.fnMap[dtype] = fn
}
