package cli

import "strings"

// reservedToolFlagNames collide with homemcp's own call flags.
var reservedToolFlagNames = map[string]struct{}{
	"config":  {},
	"url":     {},
	"header":  {},
	"json":    {},
	"verbose": {},
	"quiet":   {},
	"help":    {},
}

func isReservedToolFlagName(name string) bool {
	_, ok := reservedToolFlagNames[name]
	return ok
}

// toolFlagNames returns the --flag spelling for a tool parameter, plus the
// --no- form for booleans.
func toolFlagNames(name, typ string) (base string, negative string) {
	prefix := ""
	if isReservedToolFlagName(name) {
		prefix = "tool-"
	}

	base = "--" + prefix + name
	if typ == "boolean" && !strings.HasPrefix(name, "no-") {
		negative = "--" + prefix + "no-" + name
	}
	return base, negative
}
