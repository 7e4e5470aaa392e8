// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediscan/gateway/pkg/normalize"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"accents_stripped", "São José", "sao jose"},
		{"case_folded", "MARIA Clara", "maria clara"},
		{"whitespace_collapsed", "  Ana   Souza  ", "ana souza"},
		{"cedilla", "Conceição", "conceicao"},
		{"already_plain", "joao", "joao"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize.Key(tt.input))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, normalize.Matches("José da Silva", "jose"))
	assert.True(t, normalize.Matches("José da Silva", "SILVA"))
	assert.True(t, normalize.Matches("José da Silva", ""))
	assert.False(t, normalize.Matches("José da Silva", "maria"))
}
