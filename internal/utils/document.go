package utils

import "strings"

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights1  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights2  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits removes every non-numeric character, e.g. the dots, slash and dash
// of a formatted CNPJ
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCNPJ validates a CNPJ, formatted or not, using the official check digits
func IsValidCNPJ(cnpj string) bool {
	return validDocument(Digits(cnpj), 14, cnpjWeights1, cnpjWeights2)
}

// IsValidCPF validates a CPF, formatted or not, using the official check digits
func IsValidCPF(cpf string) bool {
	return validDocument(Digits(cpf), 11, cpfWeights1, cpfWeights2)
}

func validDocument(cleaned string, size int, first, second []int) bool {
	if len(cleaned) != size || strings.Count(cleaned, cleaned[:1]) == size {
		return false
	}

	digits := make([]int, size)
	for i := 0; i < size; i++ {
		digits[i] = int(cleaned[i] - '0')
	}

	return checkDigit(digits[:size-2], first) == digits[size-2] &&
		checkDigit(digits[:size-1], second) == digits[size-1]
}

// checkDigit is the modulo-11 digit shared by CNPJ and CPF
func checkDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}
