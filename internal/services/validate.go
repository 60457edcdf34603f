package services

import (
	"strings"
)

// digitsOnly strips everything but 0-9; CPF and phone values are stored
// normalized this way.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validCPF runs the CPF check-digit algorithm over an already-normalized
// string of digits.
func validCPF(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}

	// All-equal digits pass the checksum but are not valid CPFs.
	allEqual := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	digit := func(i int) int { return int(cpf[i] - '0') }

	sum := 0
	for i := 0; i < 9; i++ {
		sum += digit(i) * (10 - i)
	}
	dv1 := 0
	if rest := sum % 11; rest >= 2 {
		dv1 = 11 - rest
	}
	if digit(9) != dv1 {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += digit(i) * (11 - i)
	}
	dv2 := 0
	if rest := sum % 11; rest >= 2 {
		dv2 = 11 - rest
	}
	return digit(10) == dv2
}

// validPhone accepts 10 or 11 digits (landline or mobile, with area code).
func validPhone(phone string) bool {
	n := len(phone)
	return n >= 10 && n <= 11
}
