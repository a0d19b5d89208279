package command

import "strings"

// Quote returns raw as a POSIX single-quoted shell literal. Embedded single
// quotes are closed, emitted as a double-quoted quote, and reopened.
func Quote(raw string) string {
	return "'" + strings.ReplaceAll(raw, "'", `'"'"'`) + "'"
}
