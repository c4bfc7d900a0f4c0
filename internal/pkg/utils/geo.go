package utils

import (
	"strconv"
	"strings"
)

// ParseCoordinate разбирает числовой query-параметр.
// Пустая строка или мусор дают nil.
func ParseCoordinate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// FirstNonEmpty возвращает первое непустое значение (snake_case / camelCase алиасы)
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
