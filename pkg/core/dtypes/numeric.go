// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

// Conj returns the complex conjugate of x. It is the identity for real types.
func Conj[T Number](x T) T {
	switch v := any(x).(type) {
	case complex64:
		return any(complex(real(v), -imag(v))).(T)
	case complex128:
		return any(complex(real(v), -imag(v))).(T)
	}
	return x
}

// ConjIf returns Conj(x) if conj is true, x otherwise.
func ConjIf[T Number](conj bool, x T) T {
	if conj {
		return Conj(x)
	}
	return x
}

// DropImag zeroes the imaginary part of x. It is the identity for real types.
func DropImag[T Number](x T) T {
	switch v := any(x).(type) {
	case complex64:
		return any(complex(real(v), 0)).(T)
	case complex128:
		return any(complex(real(v), 0)).(T)
	}
	return x
}

// One returns the multiplicative identity for T.
func One[T Number]() T {
	return T(1)
}

// Cast converts a scalar held in an `any` to T.
//
// It accepts any Number (real and complex) and also Go's untyped-constant defaults (int and float64),
// which is what callers naturally pass as alpha/beta. Converting a complex value with a non-zero
// imaginary part to a real type panics.
func Cast[T Number](value any) T {
	var re, im float64
	switch v := value.(type) {
	case T:
		return v
	case float32:
		re = float64(v)
	case float64:
		re = v
	case int:
		re = float64(v)
	case complex64:
		re, im = float64(real(v)), float64(imag(v))
	case complex128:
		re, im = real(v), imag(v)
	default:
		panicf("cannot cast scalar %v (%T) to %s", value, value, FromGenericsType[T]())
	}
	var zero T
	switch any(zero).(type) {
	case float32:
		if im != 0 {
			panicf("cannot cast complex scalar %v to %s", value, Float32)
		}
		return any(float32(re)).(T)
	case float64:
		if im != 0 {
			panicf("cannot cast complex scalar %v to %s", value, Float64)
		}
		return any(re).(T)
	case complex64:
		return any(complex(float32(re), float32(im))).(T)
	default:
		return any(complex(re, im)).(T)
	}
}
