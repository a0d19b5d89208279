package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lydakis/homemcp/internal/command"
	"github.com/mark3labs/mcp-go/mcp"
)

type flagLine struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Enum        []string
}

func inputFlagLines(schema mcp.ToolInputSchema) []flagLine {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]flagLine, 0, len(names))
	for _, name := range names {
		prop, _ := schema.Properties[name].(map[string]any)
		line := flagLine{Name: name, Type: "any", Required: required[name]}
		if typ, ok := prop["type"].(string); ok {
			line.Type = typ
		}
		line.Description, _ = prop["description"].(string)
		line.Enum = enumValues(prop["enum"])
		lines = append(lines, line)
	}
	return lines
}

func enumValues(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

func optionSemantics(line flagLine) string {
	var parts []string
	if line.Required {
		parts = append(parts, "required")
	}
	if len(line.Enum) > 0 {
		parts = append(parts, "one of: "+strings.Join(line.Enum, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}

func printToolHelp(w io.Writer, tool mcp.Tool) {
	fmt.Fprintf(w, "Usage: homemcp call %s [FLAGS]\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(w, "\nDescription:\n  %s\n", tool.Description)
	}

	fmt.Fprintln(w, "\nOptions:")
	fmt.Fprintln(w, "  Tool flags:")
	printToolInputFlags(w, tool.InputSchema)
	fmt.Fprintln(w, "\n  Call flags:")
	printCallFlags(w)
	fmt.Fprintln(w, "\n  Namespace:")
	fmt.Fprintln(w, "    Prefix colliding tool params with --tool- (for example: --tool-url).")
	fmt.Fprintln(w, "    Use -- to force all following flags to tool parameters.")

	fmt.Fprintln(w, "\nExit codes:")
	fmt.Fprintln(w, "  0 success, 1 tool error, 2 usage error, 3 internal error.")
	fmt.Fprintln(w, "  Quick actions report missing shortcuts as setup guidance with exit 0.")

	fmt.Fprintln(w, "\nExamples:")
	for _, ex := range toolExamples(tool) {
		fmt.Fprintf(w, "  %s\n", ex)
	}
}

func printToolInputFlags(w io.Writer, schema mcp.ToolInputSchema) {
	lines := inputFlagLines(schema)
	if len(lines) == 0 {
		fmt.Fprintln(w, "    (none)")
		return
	}

	for _, line := range lines {
		baseFlag, negFlag := toolFlagNames(line.Name, line.Type)
		fmt.Fprintf(w, "    %s <%s>%s\n", baseFlag, line.Type, optionSemantics(line))
		if line.Description != "" {
			fmt.Fprintf(w, "      %s\n", line.Description)
		}
		if negFlag != "" {
			fmt.Fprintf(w, "    %s <%s>\n", negFlag, line.Type)
		}
	}
}

func printCallFlags(w io.Writer) {
	fmt.Fprintln(w, "    --config, -c <path>  Read configuration from path.")
	fmt.Fprintln(w, "    --url <url>          Call a homemcp instance served over HTTP.")
	fmt.Fprintln(w, "    --header, -H <h>     Extra HTTP header for --url (\"Name: value\"), repeatable.")
	fmt.Fprintln(w, "    --json               Print the full response as JSON.")
	fmt.Fprintln(w, "    --verbose, -v        Log invocation details to stderr.")
	fmt.Fprintln(w, "    --quiet, -q          Suppress stderr output.")
	fmt.Fprintln(w, "    --help, -h           Show this help output.")
}

func toolExamples(tool mcp.Tool) []string {
	lines := inputFlagLines(tool.InputSchema)

	flagArgs := []string{"homemcp", "call", tool.Name}
	jsonArgs := make(map[string]any)
	for _, line := range lines {
		if !line.Required {
			continue
		}
		base, _ := toolFlagNames(line.Name, line.Type)
		value := exampleValue(line)
		flagArgs = append(flagArgs, fmt.Sprintf("%s=%v", base, value))
		jsonArgs[line.Name] = value
	}

	examples := []string{strings.Join(flagArgs, " ")}
	if len(jsonArgs) > 0 {
		raw, err := json.Marshal(jsonArgs)
		if err == nil {
			examples = append(examples, fmt.Sprintf("homemcp call %s %s", tool.Name, command.Quote(string(raw))))
		}
	}
	return examples
}

func exampleValue(line flagLine) any {
	if len(line.Enum) > 0 {
		return line.Enum[0]
	}
	switch line.Type {
	case "number", "integer":
		return 72
	case "boolean":
		return true
	default:
		return "value"
	}
}

