package field

import (
	"math/big"
	"testing"
)

var p = big.NewInt(101) // small prime field for test consistency

// TestPrimeFieldBasic tests the arithmetic of GF(101)
func TestPrimeFieldBasic(t *testing.T) {
	field := NewPrimeField(p)

	a := field.FromInt64(57)
	b := field.FromInt64(60)

	// 57 + 60 = 117 = 16 mod 101
	if !a.Add(b).Equal(field.FromInt64(16)) {
		t.Errorf("Addition failed: expected 16, got %s", a.Add(b))
	}
	// 57 - 60 = -3 = 98 mod 101
	if !a.Sub(b).Equal(field.FromInt64(98)) {
		t.Errorf("Subtraction failed: expected 98, got %s", a.Sub(b))
	}
	if !a.Neg().Add(a).IsZero() {
		t.Errorf("a + (-a) should be zero")
	}
	// 57 * 60 = 3420 = 87 mod 101
	if !a.Mul(b).Equal(field.FromInt64(87)) {
		t.Errorf("Multiplication failed: expected 87, got %s", a.Mul(b))
	}
	if !a.Mul(a.Inv()).IsOne() {
		t.Errorf("a * a^-1 should be one")
	}
}

// TestPrimeFieldFromInt64Negative tests that negative integers wrap into the field
func TestPrimeFieldFromInt64Negative(t *testing.T) {
	field := NewPrimeFieldInt64(7)

	if !field.FromInt64(-1).Equal(field.FromInt64(6)) {
		t.Errorf("-1 should map to 6 in GF(7)")
	}
	if !field.FromInt64(14).IsZero() {
		t.Errorf("14 should map to 0 in GF(7)")
	}
	if field.Order().Int64() != 7 {
		t.Errorf("Expected order 7, got %s", field.Order())
	}
	if field.String() != "GF(7)" {
		t.Errorf("Expected GF(7), got %s", field.String())
	}
}

// TestPrimeFieldInverseOfZero tests that inverting zero panics
func TestPrimeFieldInverseOfZero(t *testing.T) {
	field := NewPrimeField(p)
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic when inverting zero")
		}
	}()
	field.Zero().Inv()
}

// TestPrimeFieldIncompatible tests that mixing fields panics
func TestPrimeFieldIncompatible(t *testing.T) {
	f7 := NewPrimeFieldInt64(7)
	f11 := NewPrimeFieldInt64(11)
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic when adding elements of different fields")
		}
	}()
	f7.One().Add(f11.One())
}

// TestPrimeFieldRandom tests that random elements lie in the field
func TestPrimeFieldRandom(t *testing.T) {
	field := NewPrimeFieldInt64(13)
	for i := 0; i < 100; i++ {
		e, err := field.Random()
		if err != nil {
			t.Fatalf("Random failed: %v", err)
		}
		v := e.(*PrimeFieldElement).BigInt()
		if v.Sign() < 0 || v.Cmp(big.NewInt(13)) >= 0 {
			t.Fatalf("Random element %s outside [0, 13)", v)
		}
	}
}

// TestPrimeFieldCloneIndependent tests that a clone does not alias the original
func TestPrimeFieldCloneIndependent(t *testing.T) {
	field := NewPrimeField(p)
	a := field.FromInt64(5)
	c := a.Clone()
	c.(*PrimeFieldElement).value.SetInt64(9)
	if !a.Equal(field.FromInt64(5)) {
		t.Errorf("Mutating a clone changed the original: %s", a)
	}
}
