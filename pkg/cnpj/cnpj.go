// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

// Package cnpj validates and formats Brazilian CNPJ company identifiers.
//
// # Usage
//
// Health units are registered under their CNPJ. The platform stores the
// bare 14-digit form; the gateway validates check digits on write and
// attaches the display mask (NN.NNN.NNN/NNNN-NN) on read.
package cnpj

import "strings"

// weights for the two verification digits, per the Receita Federal algorithm.
var (
	firstDigitWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondDigitWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits strips every non-digit character, accepting both masked and bare input.
func Digits(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Valid reports whether the value is a well-formed CNPJ with correct check digits.
func Valid(value string) bool {
	digits := Digits(value)
	if len(digits) != 14 {
		return false
	}

	// All-equal sequences (00000000000000, 11111111111111, ...) pass the
	// checksum but are not assignable identifiers.
	if strings.Count(digits, digits[:1]) == 14 {
		return false
	}

	if checkDigit(digits, firstDigitWeights) != int(digits[12]-'0') {
		return false
	}
	return checkDigit(digits, secondDigitWeights) == int(digits[13]-'0')
}

// Format applies the display mask NN.NNN.NNN/NNNN-NN.
//
// Values that are not exactly 14 digits are returned unchanged, matching how
// the admin screens render unexpected upstream data verbatim.
func Format(value string) string {
	digits := Digits(value)
	if len(digits) != 14 {
		return value
	}

	var builder strings.Builder
	builder.Grow(18)
	builder.WriteString(digits[0:2])
	builder.WriteByte('.')
	builder.WriteString(digits[2:5])
	builder.WriteByte('.')
	builder.WriteString(digits[5:8])
	builder.WriteByte('/')
	builder.WriteString(digits[8:12])
	builder.WriteByte('-')
	builder.WriteString(digits[12:14])
	return builder.String()
}

// checkDigit computes a verification digit over the weighted prefix.
func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, weight := range weights {
		sum += int(digits[i]-'0') * weight
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
