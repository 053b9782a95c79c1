package domain

import "testing"

func TestConditionStyleToken(t *testing.T) {
	tests := []struct {
		condition string
		want      string
	}{
		{"Novo", "novo"},
		{"Seminovo", "seminovo"},
		{"Bom estado", "bom-estado"},
		{"Usado ótimo", "usado-otimo"},
		{"  Usado   Ótimo  ", "usado-otimo"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := ConditionStyleToken(tc.condition); got != tc.want {
			t.Errorf("ConditionStyleToken(%q) = %q, want %q", tc.condition, got, tc.want)
		}
	}
}
