package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// outputMode selects how call prints a response.
type outputMode int

const (
	outputModeText outputMode = iota
	outputModeJSON
)

func (m outputMode) isJSON() bool { return m == outputModeJSON }

// toolCallArgs is the parsed form of `homemcp call <tool> [FLAGS]`.
type toolCallArgs struct {
	tool       string
	toolArgs   map[string]any
	configPath string
	url        string
	headers    []string
	output     outputMode
	verbose    bool
	quiet      bool
	help       bool
}

// parseToolCallArgs splits call arguments into homemcp flags and tool
// arguments. Tool arguments come from --key=value flags, one positional JSON
// object, or JSON on stdin when nothing else was given.
func parseToolCallArgs(args []string, stdin io.Reader, stdinIsTTY bool) (*toolCallArgs, error) {
	parsed := &toolCallArgs{
		toolArgs: make(map[string]any),
	}

	var positionalJSON string
	hasToolFlags := false
	afterSeparator := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			afterSeparator = true
			continue
		}

		if !afterSeparator {
			handled, err := parseGlobalCallFlag(parsed, args, &i)
			if err != nil {
				return nil, err
			}
			if handled {
				continue
			}
		}

		if strings.HasPrefix(arg, "--") {
			if parsed.tool == "" {
				return nil, fmt.Errorf("tool name must come before tool flags")
			}
			if positionalJSON != "" {
				return nil, fmt.Errorf("cannot mix positional JSON arguments with --flags")
			}
			flagArg := arg
			if strings.HasPrefix(arg, "--tool-") {
				flagArg = "--" + strings.TrimPrefix(arg, "--tool-")
			}

			key, value, err := parseLongFlagValue(args, &i, flagArg)
			if err != nil {
				return nil, err
			}
			putArgValue(parsed.toolArgs, key, value)
			hasToolFlags = true
			continue
		}

		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("unsupported short flag: %s", arg)
		}

		if parsed.tool == "" {
			parsed.tool = arg
			continue
		}
		if hasToolFlags {
			return nil, fmt.Errorf("unexpected positional argument: %s", arg)
		}
		if positionalJSON != "" {
			return nil, fmt.Errorf("multiple positional arguments are not supported")
		}
		positionalJSON = arg
	}

	if parsed.tool == "" && !parsed.help {
		return nil, fmt.Errorf("missing tool name")
	}

	if positionalJSON != "" {
		obj, err := parseJSONObject(positionalJSON)
		if err != nil {
			return nil, err
		}
		parsed.toolArgs = obj
		return parsed, nil
	}

	if !hasToolFlags && !parsed.help && !stdinIsTTY && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		trimmed := strings.TrimSpace(string(data))
		if trimmed != "" {
			obj, err := parseJSONObject(trimmed)
			if err != nil {
				return nil, err
			}
			parsed.toolArgs = obj
		}
	}

	return parsed, nil
}

// parseGlobalCallFlag consumes one homemcp flag at args[*idx], if present.
func parseGlobalCallFlag(parsed *toolCallArgs, args []string, idx *int) (bool, error) {
	arg := args[*idx]
	switch arg {
	case "-v", "--verbose":
		parsed.verbose = true
		return true, nil
	case "-q", "--quiet":
		parsed.quiet = true
		return true, nil
	case "-h", "--help":
		parsed.help = true
		return true, nil
	case "--json":
		parsed.output = outputModeJSON
		return true, nil
	}

	name, value, hasValue := strings.Cut(arg, "=")
	var dst *string
	switch name {
	case "--config", "-c":
		dst = &parsed.configPath
	case "--url":
		dst = &parsed.url
	case "--header", "-H":
		if !hasValue {
			v, err := requireFlagValue(args, idx, name)
			if err != nil {
				return false, err
			}
			value = v
		}
		parsed.headers = append(parsed.headers, value)
		return true, nil
	default:
		return false, nil
	}

	if !hasValue {
		v, err := requireFlagValue(args, idx, name)
		if err != nil {
			return false, err
		}
		value = v
	}
	*dst = value
	return true, nil
}

func requireFlagValue(args []string, idx *int, name string) (string, error) {
	if *idx+1 >= len(args) {
		return "", fmt.Errorf("missing value for %s", name)
	}
	*idx = *idx + 1
	return args[*idx], nil
}

func parseJSONObject(raw string) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON arguments: %w", err)
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("JSON arguments must be an object")
	}
	return obj, nil
}

func parseLongFlagValue(args []string, idx *int, token string) (string, any, error) {
	body := strings.TrimPrefix(token, "--")
	if body == "" {
		return "", nil, fmt.Errorf("invalid flag: %s", token)
	}

	if eq := strings.Index(body, "="); eq >= 0 {
		key := body[:eq]
		value := body[eq+1:]
		if key == "" {
			return "", nil, fmt.Errorf("invalid flag: %s", token)
		}
		return key, value, nil
	}

	key := body
	if *idx+1 < len(args) && !strings.HasPrefix(args[*idx+1], "--") {
		*idx = *idx + 1
		return key, args[*idx], nil
	}

	if strings.HasPrefix(key, "no-") && len(key) > len("no-") {
		return strings.TrimPrefix(key, "no-"), false, nil
	}
	return key, true, nil
}

func putArgValue(dst map[string]any, key string, value any) {
	if existing, ok := dst[key]; ok {
		switch v := existing.(type) {
		case []any:
			dst[key] = append(v, value)
		default:
			dst[key] = []any{v, value}
		}
		return
	}
	dst[key] = value
}
