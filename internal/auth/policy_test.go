// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "testing"

func TestValidPassword(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		want bool
	}{
		{"all classes", "Abc12!", true},
		{"longer valid", "Sup3rSecr3t!", true},
		{"symbol from set only", `Aa1"x?`, true},
		{"too short", "Ab1!x", false},
		{"empty", "", false},
		{"no uppercase", "abc12!", false},
		{"no lowercase", "ABC12!", false},
		{"no digit", "Abcdef!", false},
		{"no symbol", "Abc123", false},
		{"symbol outside set", "Abc123_", false},
		{"symbol outside set dash", "Abc123-", false},
		{"spaces are not symbols", "Abc 123", false},
		{"exactly six with all classes", "Aa1!bc", true},
		{"five chars with multi-byte rune", "Aa1!é", false},
		{"six chars with multi-byte rune", "Aa1!éx", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPassword(tt.pw); got != tt.want {
				t.Errorf("ValidPassword(%q) = %v, want %v", tt.pw, got, tt.want)
			}
		})
	}
}

func TestValidPassword_EverySymbolInSet(t *testing.T) {
	for _, sym := range PasswordSymbols {
		pw := "Aa1xy" + string(sym)
		if !ValidPassword(pw) {
			t.Errorf("ValidPassword(%q) = false, want true for symbol %q", pw, sym)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleUser, true},
		{"editor", false},
		{"", false},
		{"Admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := IsValidRole(tt.role); got != tt.want {
				t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
