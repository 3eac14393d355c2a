package field

// Conversion utilities between 0/1 indicator vectors and field elements

// BoolsToElements maps an indicator vector onto field elements, true to One and false to Zero
func BoolsToElements(bits []bool, field Field) []Element {
	result := make([]Element, len(bits))
	for i, bit := range bits {
		if bit {
			result[i] = field.One()
		} else {
			result[i] = field.Zero()
		}
	}
	return result
}

// BoolMatrixToElements converts every row of an indicator matrix with BoolsToElements
func BoolMatrixToElements(rows [][]bool, field Field) [][]Element {
	result := make([][]Element, len(rows))
	for i, row := range rows {
		result[i] = BoolsToElements(row, field)
	}
	return result
}

// ElementsToBools reports which entries of a vector are nonzero
func ElementsToBools(elements []Element) []bool {
	result := make([]bool, len(elements))
	for i, element := range elements {
		result[i] = !element.IsZero()
	}
	return result
}

// ZeroVector returns a vector of n zero elements
func ZeroVector(n int, field Field) []Element {
	result := make([]Element, n)
	for i := range result {
		result[i] = field.Zero()
	}
	return result
}
