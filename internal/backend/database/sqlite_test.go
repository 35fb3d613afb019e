package database

import (
	"database/sql/driver"
	"testing"
)

func TestUnicodeLower(t *testing.T) {
	tests := []struct {
		name     string
		arg      driver.Value
		expected driver.Value
	}{
		{name: "ascii", arg: "CHANEL", expected: "chanel"},
		{name: "accented", arg: "HERMÈS Élégante", expected: "hermès élégante"},
		{name: "bytes", arg: []byte("ÖKO"), expected: "öko"},
		{name: "null", arg: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unicodeLower(nil, []driver.Value{tt.arg})
			if err != nil {
				t.Fatalf("unicodeLower error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUnicodeLower_RejectsNumbers(t *testing.T) {
	if _, err := unicodeLower(nil, []driver.Value{int64(5)}); err == nil {
		t.Error("expected error for integer argument")
	}
}
