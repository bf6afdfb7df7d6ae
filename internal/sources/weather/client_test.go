package weather

import "testing"

func TestFahrenheitToCelsius(t *testing.T) {
	tests := []struct {
		f    float64
		want float64
	}{
		{f: 32, want: 0},
		{f: 212, want: 100},
		{f: 80.6, want: 27},
		{f: 81.5, want: 27.5},
		{f: 0, want: -17.8},
	}

	for _, tt := range tests {
		if got := fahrenheitToCelsius(tt.f); got != tt.want {
			t.Errorf("fahrenheitToCelsius(%v) = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestDisabledClient(t *testing.T) {
	c := New("", nil)
	if c.Enabled() {
		t.Fatal("client with no key should be disabled")
	}
	if _, err := c.Current(nil, 26.0, -80.0); err == nil {
		t.Fatal("expected error from disabled client")
	}
}
