package digits

import (
	"errors"
	"testing"

	pierrors "github.com/mkoster/pibauhaus/pkg/errors"
)

func TestFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "1415926535", false},
		{"single", "3", false},
		{"all zeros", "0000", false},

		{"empty", "", true},
		{"letter", "14a5", true},
		{"space", "14 5", true},
		{"sign", "-145", true},
		{"decimal point", "3.14", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && s.String() != tt.input {
				t.Errorf("round trip = %q, want %q", s.String(), tt.input)
			}
		})
	}
}

func TestDigitAt(t *testing.T) {
	s, err := FromString("1415926535")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}

	t.Run("first", func(t *testing.T) {
		d, err := s.DigitAt(0)
		if err != nil {
			t.Fatalf("DigitAt(0): %v", err)
		}
		if d != 1 {
			t.Errorf("DigitAt(0) = %d, want 1", d)
		}
	})

	t.Run("last", func(t *testing.T) {
		d, err := s.DigitAt(9)
		if err != nil {
			t.Fatalf("DigitAt(9): %v", err)
		}
		if d != 5 {
			t.Errorf("DigitAt(9) = %d, want 5", d)
		}
	})

	t.Run("past end", func(t *testing.T) {
		_, err := s.DigitAt(10)
		if err == nil {
			t.Fatal("DigitAt(10) expected error, got nil")
		}

		var oor *pierrors.OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("error type = %T, want *OutOfRangeError", err)
		}
		if oor.Index != 10 || oor.Length != 10 {
			t.Errorf("OutOfRangeError = %+v, want Index 10 Length 10", oor)
		}
	})

	t.Run("negative", func(t *testing.T) {
		if _, err := s.DigitAt(-1); err == nil {
			t.Error("DigitAt(-1) expected error, got nil")
		}
	})
}

func TestSlice(t *testing.T) {
	s, err := FromString("1415926535")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}

	t.Run("middle", func(t *testing.T) {
		got, err := s.Slice(2, 5)
		if err != nil {
			t.Fatalf("Slice(2, 5): %v", err)
		}
		want := []int{1, 5, 9}
		if len(got) != len(want) {
			t.Fatalf("Slice(2, 5) length = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Slice(2, 5)[%d] = %d, want %d", i, got[i], want[i])
			}
		}
	})

	t.Run("empty range", func(t *testing.T) {
		got, err := s.Slice(4, 4)
		if err != nil {
			t.Fatalf("Slice(4, 4): %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Slice(4, 4) length = %d, want 0", len(got))
		}
	})

	t.Run("past end", func(t *testing.T) {
		if _, err := s.Slice(8, 12); err == nil {
			t.Error("Slice(8, 12) expected error, got nil")
		}
	})

	t.Run("inverted", func(t *testing.T) {
		if _, err := s.Slice(5, 2); err == nil {
			t.Error("Slice(5, 2) expected error, got nil")
		}
	})
}

func TestPrefix(t *testing.T) {
	s, err := FromString("141592")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}

	if got := s.Prefix(3); got != "141" {
		t.Errorf("Prefix(3) = %q, want %q", got, "141")
	}
	if got := s.Prefix(100); got != "141592" {
		t.Errorf("Prefix(100) = %q, want full string %q", got, "141592")
	}
}
