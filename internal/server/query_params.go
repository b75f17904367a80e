package server

import (
	"strconv"
	"strings"
)

func parseIntParam(value string, fallback int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	return strconv.Atoi(trimmed)
}
