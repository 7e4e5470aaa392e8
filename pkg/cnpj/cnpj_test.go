// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package cnpj_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediscan/gateway/pkg/cnpj"
)

func TestDigits(t *testing.T) {
	assert.Equal(t, "11444777000161", cnpj.Digits("11.444.777/0001-61"))
	assert.Equal(t, "11444777000161", cnpj.Digits("11444777000161"))
	assert.Equal(t, "", cnpj.Digits("abc"))
}

func TestValid(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"masked", "11.444.777/0001-61", true},
		{"bare", "11444777000161", true},
		{"bad_first_digit", "11444777000151", false},
		{"bad_second_digit", "11444777000162", false},
		{"too_short", "114447770001", false},
		{"too_long", "114447770001611", false},
		{"all_zeros", "00000000000000", false},
		{"letters", "aa.bbb.ccc/dddd-ee", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, cnpj.Valid(tt.value))
		})
	}
}

func TestFormat(t *testing.T) {
	// 14 digits get the display mask, masked input is normalized first.
	assert.Equal(t, "11.444.777/0001-61", cnpj.Format("11444777000161"))
	assert.Equal(t, "11.444.777/0001-61", cnpj.Format("11.444.777/0001-61"))

	// Anything else passes through untouched.
	assert.Equal(t, "12345", cnpj.Format("12345"))
	assert.Equal(t, "", cnpj.Format(""))
}
