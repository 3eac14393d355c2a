package field

import (
	"crypto/rand"
	"math/big"
)

// BitField is GF(2). Addition is XOR and multiplication is AND, so every
// matrix over it is a plain 0/1 combination matrix.
type BitField struct{}

// NewBitField returns GF(2)
func NewBitField() *BitField {
	return &BitField{}
}

// Bit is an element of GF(2). Only the lowest bit is meaningful.
type Bit uint8

// Zero returns the additive identity element (0)
func (f *BitField) Zero() Element {
	return Bit(0)
}

// One returns the multiplicative identity element (1)
func (f *BitField) One() Element {
	return Bit(1)
}

// Random returns a uniformly random bit
func (f *BitField) Random() (Element, error) {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	return Bit(b[0] & 1), nil
}

// FromInt64 returns v mod 2
func (f *BitField) FromInt64(v int64) Element {
	return Bit(v & 1)
}

// FromBytes returns the parity of the last byte, i.e. the integer value mod 2
func (f *BitField) FromBytes(data []byte) Element {
	if len(data) == 0 {
		return Bit(0)
	}
	return Bit(data[len(data)-1] & 1)
}

// Order returns 2
func (f *BitField) Order() *big.Int {
	return big.NewInt(2)
}

// String returns GF(2)
func (f *BitField) String() string {
	return "GF(2)"
}

func toBit(b Element) Bit {
	other, ok := b.(Bit)
	if !ok {
		panic("incompatible field elements")
	}
	return other & 1
}

// Add returns e + b in the field (XOR operation)
func (e Bit) Add(b Element) Element {
	return (e ^ toBit(b)) & 1
}

// Sub returns e - b in the field (same as Add in GF(2))
func (e Bit) Sub(b Element) Element {
	return e.Add(b)
}

// Neg returns e; every element of GF(2) is its own negative
func (e Bit) Neg() Element {
	return e & 1
}

// Mul returns e * b in the field (AND operation)
func (e Bit) Mul(b Element) Element {
	return e & toBit(b) & 1
}

// Inv returns the multiplicative inverse of e, which is e itself for e = 1
func (e Bit) Inv() Element {
	if e.IsZero() {
		panic("zero element is not invertible")
	}
	return Bit(1)
}

// IsZero returns true if e equals zero
func (e Bit) IsZero() bool {
	return e&1 == 0
}

// IsOne returns true if e equals one
func (e Bit) IsOne() bool {
	return e&1 == 1
}

// Equal returns true if e equals b
func (e Bit) Equal(b Element) bool {
	other, ok := b.(Bit)
	if !ok {
		return false
	}
	return e&1 == other&1
}

// Clone returns e; bits are values
func (e Bit) Clone() Element {
	return e & 1
}

// Bytes returns the byte representation of e
func (e Bit) Bytes() []byte {
	return []byte{byte(e & 1)}
}

// String returns "0" or "1"
func (e Bit) String() string {
	if e.IsZero() {
		return "0"
	}
	return "1"
}
