package field

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// PrimeField represents a prime finite field F_p
type PrimeField struct {
	p *big.Int // the prime modulus
}

// NewPrimeField creates a new prime field
func NewPrimeField(p *big.Int) *PrimeField {
	return &PrimeField{p: new(big.Int).Set(p)}
}

// NewPrimeFieldInt64 creates GF(p) for a small prime p
func NewPrimeFieldInt64(p int64) *PrimeField {
	return NewPrimeField(big.NewInt(p))
}

// PrimeFieldElement represents an element in a prime field
type PrimeFieldElement struct {
	value *big.Int    // element value in range [0, p-1]
	field *PrimeField // reference to parent field
}

// Field interface implementation for PrimeField

// Zero returns the additive identity element (0)
func (f *PrimeField) Zero() Element {
	return &PrimeFieldElement{
		value: big.NewInt(0),
		field: f,
	}
}

// One returns the multiplicative identity element (1)
func (f *PrimeField) One() Element {
	return &PrimeFieldElement{
		value: big.NewInt(1),
		field: f,
	}
}

// Random returns a uniformly random field element
func (f *PrimeField) Random() (Element, error) {
	val, err := rand.Int(rand.Reader, f.p)
	if err != nil {
		return nil, err
	}
	return &PrimeFieldElement{
		value: val,
		field: f,
	}, nil
}

// FromInt64 maps v into [0, p-1]; negative values wrap around
func (f *PrimeField) FromInt64(v int64) Element {
	val := big.NewInt(v)
	val.Mod(val, f.p)
	return &PrimeFieldElement{
		value: val,
		field: f,
	}
}

// FromBytes creates a field element from byte array
func (f *PrimeField) FromBytes(data []byte) Element {
	val := new(big.Int).SetBytes(data)
	val.Mod(val, f.p)
	return &PrimeFieldElement{
		value: val,
		field: f,
	}
}

// Order returns the order (size) of the field, which is p for a prime field
func (f *PrimeField) Order() *big.Int {
	return new(big.Int).Set(f.p)
}

// String returns a short description such as GF(7)
func (f *PrimeField) String() string {
	return fmt.Sprintf("GF(%s)", f.p)
}

// PrimeFieldElement methods implementing Element interface

func (e *PrimeFieldElement) other(b Element) *PrimeFieldElement {
	other, ok := b.(*PrimeFieldElement)
	if !ok || other.field.p.Cmp(e.field.p) != 0 {
		panic("incompatible field elements")
	}
	return other
}

// Add returns e + b in the field
func (e *PrimeFieldElement) Add(b Element) Element {
	other := e.other(b)

	result := new(big.Int).Add(e.value, other.value)
	result.Mod(result, e.field.p)

	return &PrimeFieldElement{
		value: result,
		field: e.field,
	}
}

// Sub returns e - b in the field
func (e *PrimeFieldElement) Sub(b Element) Element {
	other := e.other(b)

	result := new(big.Int).Sub(e.value, other.value)
	result.Mod(result, e.field.p)

	return &PrimeFieldElement{
		value: result,
		field: e.field,
	}
}

// Neg returns -e in the field
func (e *PrimeFieldElement) Neg() Element {
	result := new(big.Int).Neg(e.value)
	result.Mod(result, e.field.p)

	return &PrimeFieldElement{
		value: result,
		field: e.field,
	}
}

// Mul returns e * b in the field
func (e *PrimeFieldElement) Mul(b Element) Element {
	other := e.other(b)

	result := new(big.Int).Mul(e.value, other.value)
	result.Mod(result, e.field.p)

	return &PrimeFieldElement{
		value: result,
		field: e.field,
	}
}

// Inv returns the multiplicative inverse of e
func (e *PrimeFieldElement) Inv() Element {
	inv := new(big.Int).ModInverse(e.value, e.field.p)
	if inv == nil {
		panic("element is not invertible")
	}

	return &PrimeFieldElement{
		value: inv,
		field: e.field,
	}
}

// IsZero returns true if e equals zero
func (e *PrimeFieldElement) IsZero() bool {
	return e.value.Sign() == 0
}

// IsOne returns true if e equals one
func (e *PrimeFieldElement) IsOne() bool {
	return e.value.IsInt64() && e.value.Int64() == 1
}

// Equal returns true if e equals b
func (e *PrimeFieldElement) Equal(b Element) bool {
	other, ok := b.(*PrimeFieldElement)
	if !ok {
		return false
	}

	return e.value.Cmp(other.value) == 0
}

// Clone returns a copy of e
func (e *PrimeFieldElement) Clone() Element {
	return &PrimeFieldElement{
		value: new(big.Int).Set(e.value),
		field: e.field,
	}
}

// Bytes returns the byte representation of e
func (e *PrimeFieldElement) Bytes() []byte {
	return e.value.Bytes()
}

// String returns the string representation of e
func (e *PrimeFieldElement) String() string {
	return e.value.String()
}

// BigInt returns the underlying big.Int value
func (e *PrimeFieldElement) BigInt() *big.Int {
	return new(big.Int).Set(e.value)
}
