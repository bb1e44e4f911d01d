package cmd

import "testing"

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in   string
		want byte
		ok   bool
	}{
		{"0", 0, true},
		{"64", 64, true},
		{"255", 255, true},
		{"0x40", 0x40, true},
		{"0xff", 0xFF, true},
		{"0%", 0, true},
		{"1%", 2, true},   // 1.27 rounds up
		{"50%", 64, true}, // 63.5 rounds up
		{"100%", 127, true},
		{"200%", 254, true},
		{"62.5%", 80, true},
		{"256", 0, false},
		{"0x100", 0, false},
		{"-1", 0, false},
		{"201%", 0, false},
		{"-1%", 0, false},
		{"abc", 0, false},
		{"%", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseVolume(tt.in)
		if tt.ok {
			if err != nil {
				t.Errorf("ParseVolume(%q) error: %v", tt.in, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseVolume(%q) = %d, want %d", tt.in, got, tt.want)
			}
		} else if err == nil {
			t.Errorf("ParseVolume(%q) = %d, want error", tt.in, got)
		}
	}
}
