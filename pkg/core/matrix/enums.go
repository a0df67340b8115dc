// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package matrix

// Struc is the storage semantics of a matrix.
type Struc int

const (
	General Struc = iota
	Hermitian
	Symmetric
	Triangular
)

func (s Struc) String() string {
	switch s {
	case General:
		return "General"
	case Hermitian:
		return "Hermitian"
	case Symmetric:
		return "Symmetric"
	case Triangular:
		return "Triangular"
	}
	return "Struc(?)"
}

// Uplo tells which part of a structured matrix is stored, relative to its diagonal.
type Uplo int

const (
	// Zeros marks a matrix with no stored element: every element is implicitly zero.
	Zeros Uplo = iota
	Lower
	Upper
	// Dense marks every element as stored.
	Dense
)

// Toggle swaps Lower and Upper. Zeros and Dense are returned unchanged.
func (u Uplo) Toggle() Uplo {
	switch u {
	case Lower:
		return Upper
	case Upper:
		return Lower
	}
	return u
}

func (u Uplo) String() string {
	switch u {
	case Zeros:
		return "Zeros"
	case Lower:
		return "Lower"
	case Upper:
		return "Upper"
	case Dense:
		return "Dense"
	}
	return "Uplo(?)"
}

// ShrinkDiagOff shifts diagOff so the region described by u no longer includes the diagonal.
func (u Uplo) ShrinkDiagOff(diagOff int) int {
	switch u {
	case Upper:
		return diagOff + 1
	case Lower:
		return diagOff - 1
	}
	return diagOff
}

// Diag tells whether the diagonal of a triangular matrix is stored or implicitly one.
type Diag int

const (
	NonUnit Diag = iota
	Unit
)

func (d Diag) String() string {
	if d == Unit {
		return "Unit"
	}
	return "NonUnit"
}

// Conj is the conjugation status of an operand.
type Conj int

const (
	NoConj Conj = iota
	Conjugate
)

// Toggle flips the conjugation.
func (c Conj) Toggle() Conj {
	if c == Conjugate {
		return NoConj
	}
	return Conjugate
}

// IsConj returns whether c requests conjugation.
func (c Conj) IsConj() bool { return c == Conjugate }

func (c Conj) String() string {
	if c == Conjugate {
		return "Conj"
	}
	return "NoConj"
}

// Trans is the transposition and conjugation status of an operand.
type Trans int

const (
	NoTranspose Trans = iota
	Transpose
	ConjNoTranspose
	ConjTranspose
)

// DoesTrans returns whether t transposes.
func (t Trans) DoesTrans() bool {
	return t == Transpose || t == ConjTranspose
}

// Conj extracts the conjugation component of t.
func (t Trans) Conj() Conj {
	if t == ConjNoTranspose || t == ConjTranspose {
		return Conjugate
	}
	return NoConj
}

func (t Trans) String() string {
	switch t {
	case NoTranspose:
		return "NoTranspose"
	case Transpose:
		return "Transpose"
	case ConjNoTranspose:
		return "ConjNoTranspose"
	case ConjTranspose:
		return "ConjTranspose"
	}
	return "Trans(?)"
}

// Structure is the single structure tag of a view, combining Struc and Uplo.
type Structure int

const (
	StructureGeneral Structure = iota
	StructureUpper
	StructureLower
	StructureSymmetric
	StructureHermitian
	StructureZero
)

func (s Structure) String() string {
	switch s {
	case StructureGeneral:
		return "general"
	case StructureUpper:
		return "upper-triangular"
	case StructureLower:
		return "lower-triangular"
	case StructureSymmetric:
		return "symmetric"
	case StructureHermitian:
		return "hermitian"
	case StructureZero:
		return "zero"
	}
	return "structure(?)"
}
