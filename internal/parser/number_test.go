package parser_test

import (
	"testing"

	"github.com/Angeloac12/siigo-cotizador/internal/parser"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"10", 10, true},
		{"12.5", 12.5, true},
		{"1,5", 1.5, true},
		{"1.234,56", 1234.56, true},
		{"2.500,00", 2500, true},
		{" 3 ", 3, true},
		{"0", 0, false},
		{"-4", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"12x", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parser.ParseQuantity(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseQuantity(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseQuantity(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
