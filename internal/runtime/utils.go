package runtime

import (
	"os"
	"strings"
)

// LookupFunc reads a single environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// OSLookup reads from the process environment.
var OSLookup LookupFunc = os.LookupEnv

// --- helpers ---
func (l LookupFunc) get(k string) string {
	if l == nil {
		return ""
	}
	v, _ := l(k)
	return strings.TrimSpace(v)
}

// MapLookup serves variables from a fixed map; handy for tests and .env files.
func MapLookup(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// Overlay consults each lookup in order and returns the first hit.
func Overlay(lookups ...LookupFunc) LookupFunc {
	return func(k string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(k); ok {
				return v, true
			}
		}
		return "", false
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
func formatOrNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "<none>"
	}
	return s
}
