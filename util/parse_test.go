package util_test

import (
	"testing"

	"github.com/msarti/mandan/util"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		fallback int
		want     int
	}{
		{"123", 0, 123},
		{"0", 99, 0},
		{"-5", 0, -5},
		{" 17 ", 0, 17},
		{"abc", 42, 42},
		{"", 7, 7},
	}

	for _, tt := range tests {
		got := util.ParseInt(tt.input, tt.fallback)
		if got != tt.want {
			t.Errorf("ParseInt(%q, %d) = %d; want %d", tt.input, tt.fallback, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		fallback bool
		want     bool
	}{
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"yes", false, false},
		{"", true, true},
	}

	for _, tt := range tests {
		got := util.ParseBool(tt.input, tt.fallback)
		if got != tt.want {
			t.Errorf("ParseBool(%q, %v) = %v; want %v", tt.input, tt.fallback, got, tt.want)
		}
	}
}

func TestParseUint16(t *testing.T) {
	tests := []struct {
		input   string
		want    uint16
		wantErr bool
	}{
		{"0", 0, false},
		{"7", 7, false},
		{"65535", 65535, false},
		{"65536", 0, true},
		{"-1", 0, true},
		{"seg", 0, true},
	}

	for _, tt := range tests {
		got, err := util.ParseUint16(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUint16(%q) error = %v; wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUint16(%q) = %d; want %d", tt.input, got, tt.want)
		}
	}
}
