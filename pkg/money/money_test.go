package money

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "whole", in: "100", want: 10_000},
		{name: "two_decimals", in: "12.34", want: 1_234},
		{name: "one_decimal_padded", in: "5.5", want: 550},
		{name: "leading_plus", in: "+3.00", want: 300},
		{name: "surrounding_spaces", in: "  7.25 ", want: 725},
		{name: "zero_rejected", in: "0", wantErr: true},
		{name: "zero_decimal_rejected", in: "0.00", wantErr: true},
		{name: "negative_rejected", in: "-5.00", wantErr: true},
		{name: "three_decimals_rejected", in: "1.234", wantErr: true},
		{name: "trailing_dot_rejected", in: "1.", wantErr: true},
		{name: "double_dot_rejected", in: "1.2.3", wantErr: true},
		{name: "empty_rejected", in: "", wantErr: true},
		{name: "junk_rejected", in: "abc", wantErr: true},
		{name: "int64_wrap_rejected", in: "184467440737095517", wantErr: true},
		{name: "max_int64_cents_rejected", in: "9223372036854775807", wantErr: true},
		{name: "near_max_accepted", in: "92233720368547758.07", want: 9223372036854775807},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAmount(tt.in)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("want %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 0, want: "0.00"},
		{cents: 5, want: "0.05"},
		{cents: 150_00, want: "150.00"},
		{cents: 1_234, want: "12.34"},
		{cents: -1_234, want: "-12.34"},
	}

	for _, tt := range tests {
		got := Format(tt.cents)
		if got != tt.want {
			t.Fatalf("Format(%d): want %s, got %s", tt.cents, tt.want, got)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"0.01", "10.15", "300.00", "9999.99"} {
		cents, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got := Format(cents); got != s {
			t.Fatalf("round trip %q: got %q", s, got)
		}
	}
}
