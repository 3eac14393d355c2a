package field

import "math/big"

// Element represents an element in a finite field
type Element interface {
	// Add returns a + b in the field
	Add(b Element) Element

	// Sub returns a - b in the field
	Sub(b Element) Element

	// Neg returns -a in the field
	Neg() Element

	// Mul returns a * b in the field
	Mul(b Element) Element

	// Inv returns the multiplicative inverse of a in the field
	Inv() Element

	// IsZero returns true if the element is the zero element
	IsZero() bool

	// IsOne returns true if the element is the multiplicative identity
	IsOne() bool

	// Equal returns true if two elements are equal
	Equal(b Element) bool

	// Clone returns a copy of the element
	Clone() Element

	// Bytes returns the byte representation of the element
	Bytes() []byte

	// String returns the string representation of the element
	String() string
}

// Field represents a finite field
type Field interface {
	// Zero returns the zero element of the field
	Zero() Element

	// One returns the one element of the field
	One() Element

	// Random returns a random element in the field
	Random() (Element, error)

	// FromInt64 maps an integer into the field, reducing it modulo the characteristic
	FromInt64(v int64) Element

	// FromBytes creates a field element from bytes
	FromBytes(data []byte) Element

	// Order returns the order (size) of the field
	Order() *big.Int
}
