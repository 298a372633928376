// Package diag renders a pipeline-stage error as a single human-
// readable diagnostic: the stage it came from, the error's own
// message, and, when the error carries a line number, the offending
// source line with a caret under it. Errors carry no column, so the
// caret always sits under the line's first character.
package diag

import (
	"fmt"
	"strings"

	"github.com/skx/cc-subset/lexer"
	"github.com/skx/cc-subset/parser"
	"github.com/skx/cc-subset/semantic"
)

// Diagnostic is a formatted, stage-attributed compiler error.
type Diagnostic struct {
	Stage   string
	Line    int // 0 when the error carries no line information
	Message string
	Source  string
}

// From inspects err, extracting a source line where the originating
// package's error type carries one, and returns a Diagnostic for the
// given stage ready to Format.
func From(stage string, source string, err error) *Diagnostic {
	d := &Diagnostic{Stage: stage, Message: err.Error(), Source: source}

	switch e := err.(type) {
	case *lexer.LexError:
		d.Line = e.Line
	case *parser.ParseError:
		d.Line = e.Found.Line
	case *semantic.SemError:
		d.Line = e.Line
	}

	return d
}

// Format renders the diagnostic, including a caret-annotated source
// line when Line is known and resolves within Source.
func (d *Diagnostic) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error: %s\n", d.Stage, d.Message)

	line := d.sourceLine()
	if line == "" {
		return b.String()
	}

	prefix := fmt.Sprintf("%4d | ", d.Line)
	fmt.Fprintf(&b, "%s%s\n", prefix, line)
	b.WriteString(strings.Repeat(" ", len(prefix)))
	b.WriteString("^\n")
	return b.String()
}

func (d *Diagnostic) sourceLine() string {
	if d.Line <= 0 || d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if d.Line > len(lines) {
		return ""
	}
	return lines[d.Line-1]
}
