package command

import "strings"

// Line is a program plus its ordered arguments. It is only turned into shell
// text by String, which quotes every token.
type Line struct {
	Program string
	Args    []string
}

// New returns a Line for program with a copy of args.
func New(program string, args ...string) Line {
	return Line{
		Program: program,
		Args:    append([]string(nil), args...),
	}
}

// Script builds `<interpreter> -e <body>`.
func Script(interpreter, body string) Line {
	return New(interpreter, "-e", body)
}

// Automation builds `<runner> run <name>` with `-i <input>` appended when
// input is non-empty.
func Automation(runner, name, input string) Line {
	line := New(runner, "run", name)
	if input != "" {
		line.Args = append(line.Args, "-i", input)
	}
	return line
}

// List builds `<runner> list`.
func List(runner string) Line {
	return New(runner, "list")
}

// String serializes the line for `sh -c`.
func (l Line) String() string {
	parts := make([]string, 0, len(l.Args)+1)
	parts = append(parts, Quote(l.Program))
	for _, arg := range l.Args {
		parts = append(parts, Quote(arg))
	}
	return strings.Join(parts, " ")
}
