package util

import (
	"fmt"
	"strconv"
	"strings"
)

func ParseInt(str string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		return v
	}
	return fallback
}

func ParseBool(str string, fallback bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(str)); err == nil {
		return v
	}
	return fallback
}

// ParseUint16 parses partition and segment numbers.
func ParseUint16(str string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(str), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid uint16 %q: %w", str, err)
	}
	return uint16(v), nil
}
