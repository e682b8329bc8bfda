package id

import "testing"

func TestNewIDFormat(t *testing.T) {
	got := NewID()
	if len(got) != 20 {
		t.Fatalf("expected 20-character id, got %d (%q)", len(got), got)
	}
	for _, r := range got {
		if (r < 'a' || r > 'v') && (r < '0' || r > '9') {
			t.Fatalf("unexpected character %q in id", r)
		}
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		value := NewID()
		if _, ok := seen[value]; ok {
			t.Fatalf("duplicate id %q", value)
		}
		seen[value] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "generated", value: NewID(), want: true},
		{name: "empty", value: "", want: false},
		{name: "garbage", value: "not-an-id", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Valid(tc.value); got != tc.want {
				t.Fatalf("Valid(%q) = %t, want %t", tc.value, got, tc.want)
			}
		})
	}
}
