// Package httpheaders builds request header sets for remote MCP calls.
package httpheaders

import (
	"fmt"
	"sort"
	"strings"
)

// Parse reads "Name: value" or "Name=value" entries, as given to --header.
// Later entries replace earlier ones regardless of name casing.
func Parse(entries []string) (map[string]string, error) {
	var headers map[string]string
	for _, entry := range entries {
		sep := strings.IndexAny(entry, ":=")
		if sep <= 0 {
			return nil, fmt.Errorf("invalid header %q: want Name: value", entry)
		}
		name := strings.TrimSpace(entry[:sep])
		if name == "" {
			return nil, fmt.Errorf("invalid header %q: empty name", entry)
		}
		headers = Set(headers, name, strings.TrimSpace(entry[sep+1:]))
	}
	return headers, nil
}

// Set writes a header value using case-insensitive key matching.
func Set(headers map[string]string, name, value string) map[string]string {
	name = strings.TrimSpace(name)
	if name == "" {
		return headers
	}

	if headers == nil {
		headers = make(map[string]string, 1)
	}
	if existing, ok := lookupKeyFold(headers, name); ok && existing != name {
		delete(headers, existing)
	}
	headers[name] = value
	return headers
}

// Merge applies src onto a copy of base; src wins on case-insensitive
// name collisions.
func Merge(base, src map[string]string) map[string]string {
	if len(base) == 0 && len(src) == 0 {
		return nil
	}

	out := make(map[string]string, len(base)+len(src))
	for _, key := range sortedKeys(base) {
		out = Set(out, key, base[key])
	}
	for _, key := range sortedKeys(src) {
		out = Set(out, key, src[key])
	}
	return out
}

func sortedKeys(src map[string]string) []string {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func lookupKeyFold(headers map[string]string, name string) (string, bool) {
	for key := range headers {
		if strings.EqualFold(strings.TrimSpace(key), name) {
			return key, true
		}
	}
	return "", false
}
