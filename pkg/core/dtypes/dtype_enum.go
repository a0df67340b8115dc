// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import "strconv"

// DType is an enum represents the data type of a matrix or a scalar.
//
// The numeric values follow the PJRT buffer type numbering used across GoMLX, so tags can be exchanged
// with other GoMLX packages unchanged. Only the subset relevant to packing is listed.
type DType int32

const (
	// InvalidDType is the default value, not a valid data type.
	InvalidDType DType = 0

	// Int32 is a 32-bit signed integer.
	Int32 DType = 4

	// Int64 is a 64-bit signed integer.
	Int64 DType = 5

	// Float16 is the IEEE 754 half-precision floating point (see github.com/x448/float16).
	Float16 DType = 10

	// Float32 is the IEEE 754 single-precision floating point.
	Float32 DType = 11

	// Float64 is the IEEE 754 double-precision floating point.
	Float64 DType = 12

	// BFloat16 is the brain floating point, see package bfloat16.
	BFloat16 DType = 13

	// Complex64 is a pair of float32 values.
	Complex64 DType = 14

	// Complex128 is a pair of float64 values.
	Complex128 DType = 15
)

// Aliases using the PJRT/BLAS style short names.
const (
	S32  = Int32
	S64  = Int64
	F16  = Float16
	F32  = Float32
	F64  = Float64
	BF16 = BFloat16
	C64  = Complex64
	C128 = Complex128
)

// MapOfNames to their dtypes. It includes also aliases to the various dtypes.
// It is also later initialized to include the lower-case version of the names.
var MapOfNames = map[string]DType{
	"InvalidDType": InvalidDType,
	"Int32":        Int32,
	"S32":          Int32,
	"Int64":        Int64,
	"S64":          Int64,
	"Float16":      Float16,
	"F16":          Float16,
	"Float32":      Float32,
	"F32":          Float32,
	"Float64":      Float64,
	"F64":          Float64,
	"BFloat16":     BFloat16,
	"BF16":         BFloat16,
	"Complex64":    Complex64,
	"C64":          Complex64,
	"Complex128":   Complex128,
	"C128":         Complex128,

	// BLAS single-letter prefixes.
	"s": Float32,
	"d": Float64,
	"c": Complex64,
	"z": Complex128,
}

var dtypeNames = map[DType]string{
	InvalidDType: "InvalidDType",
	Int32:        "Int32",
	Int64:        "Int64",
	Float16:      "Float16",
	Float32:      "Float32",
	Float64:      "Float64",
	BFloat16:     "BFloat16",
	Complex64:    "Complex64",
	Complex128:   "Complex128",
}

// String implements fmt.Stringer.
func (dtype DType) String() string {
	if name, found := dtypeNames[dtype]; found {
		return name
	}
	return "DType(" + strconv.Itoa(int(dtype)) + ")"
}
