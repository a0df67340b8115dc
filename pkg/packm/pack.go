// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package packm is the packing engine: it copies a strided matrix, possibly structured (triangular,
// symmetric, Hermitian) and possibly transposed, into the fixed-width zero-padded panels a micro-kernel
// consumes.
//
// Packing is synchronous, allocation free and only writes to the destination PanelBuffer. Concurrent
// calls are safe as long as their destinations don't overlap.
//
// Contract violations (unsupported orientation/structure combinations) panic with an error, built with
// exceptions.Panicf.
package packm

import (
	"github.com/gomlx/blkpack/pkg/core/dtypes"
	"github.com/gomlx/blkpack/pkg/core/matrix"
	"github.com/gomlx/exceptions"
)

// Object is a PanelBuffer of any element type.
type Object interface {
	matrix.Object
}

// Pack packs c, scaled by beta, into p, choosing the variant from the structure of c: triangular sources
// go through PackTriangular, all others through PackDense (which ignores flags).
func Pack[T dtypes.Number](beta T, c *matrix.View[T], p *PanelBuffer[T], flags Flags) {
	if c.Struc == matrix.Triangular {
		PackTriangular(beta, c, p, flags)
		return
	}
	PackDense(beta, c, p)
}

var packDispatcher = dtypes.NewDispatcher("packm.Pack")

func init() {
	registerPack[float32]()
	registerPack[float64]()
	registerPack[complex64]()
	registerPack[complex128]()
}

func registerPack[T dtypes.Number]() {
	packDispatcher.Register(dtypes.FromGenericsType[T](), func(params ...any) {
		beta := dtypes.Cast[T](params[0])
		c, ok := params[1].(*matrix.View[T])
		if !ok {
			exceptions.Panicf("packm.PackObject: source must be a *matrix.View[%s], got %T",
				dtypes.FromGenericsType[T](), params[1])
		}
		p, ok := params[2].(*PanelBuffer[T])
		if !ok {
			exceptions.Panicf("packm.PackObject: destination must be a *packm.PanelBuffer[%s], got %T",
				dtypes.FromGenericsType[T](), params[2])
		}
		Pack(beta, c, p, params[3].(Flags))
	})
}

// PackObject is the untyped front door of Pack: the implementation is selected by the runtime dtype of c,
// and beta may be any Go number (it's converted to the element type).
//
// It panics if the dtype has no packing implementation, or if c and p hold different element types.
func PackObject(beta any, c matrix.Object, p Object, flags Flags) {
	if c.DType() != p.DType() {
		exceptions.Panicf("packm.PackObject: source dtype %s doesn't match destination dtype %s", c.DType(), p.DType())
	}
	if dtype := c.DType(); !dtype.IsKernelType() || !packDispatcher.IsSupported(dtype) {
		exceptions.Panicf("packm.PackObject: dtype %s has no packing implementation", dtype)
	}
	packDispatcher.Dispatch(c.DType(), beta, c, p, flags)
}
