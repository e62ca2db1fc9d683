// assembler.go - public assembly API

/*
assembler.go ties the lexer, parser, layout, label-resolution, and emission
stages into the two entry points callers use: AssembleCode for a single
in-memory source string, AssembleFiles for one or more named sources with
`.include` resolved between them. Grounded on
original_source/src/assembler/mod.rs's top-level `assemble` entry point,
adapted to Go's (value, error) idiom with all non-fatal problems returned as
a Diagnostics slice rather than a single error.
*/

// License: GPLv3 or later

package assembler

import "strings"

// Result is a completed assembly: the flat binary image, the address it is
// meant to be loaded at, and every diagnostic collected along the way (even
// on success there may be warnings).
type Result struct {
	Image      []byte
	LoadAddr   uint16
	Diagnostics []Diagnostic
}

// AssembleCode assembles a single in-memory source string; file is used only
// to label diagnostics.
func AssembleCode(file, source string) (Result, error) {
	return AssembleFiles(map[string]string{file: source}, file)
}

// AssembleFiles assembles entry (a key of sources) and resolves `.include
// "name"` directives by looking up other entries of sources by that same
// name; includes referencing a name not present in sources are reported as
// diagnostics rather than read from disk (callers that want real filesystem
// includes should pre-populate sources with the resolved file contents).
func AssembleFiles(sources map[string]string, entry string) (Result, error) {
	diags := &diagBag{}

	src, ok := sources[entry]
	if !ok {
		diags.errorf(Span{}, "entry file %q not found", entry)
		return Result{Diagnostics: diags.diags}, errAssembly
	}

	stmts := assembleFile(entry, src, sources, diags, map[string]bool{entry: true})

	sections := layoutSections(stmts, diags)
	env := resolveLabels(sections, diags)
	image, loadAddr := emit(sections, env, diags)

	res := Result{Image: image, LoadAddr: loadAddr, Diagnostics: diags.diags}
	if diags.hasErrors() {
		return res, errAssembly
	}
	return res, nil
}

// assembleFile lexes and parses one file, inlining any `.include`d file's
// statements at the point of inclusion; visiting guards against cycles.
func assembleFile(name, src string, sources map[string]string, diags *diagBag, visiting map[string]bool) []Statement {
	toks := lex(name, src, diags)
	stmts := parseProgram(toks, diags)

	var out []Statement
	for _, s := range stmts {
		if s.Kind == StmtDirective && s.Directive == "include" {
			if visiting[s.DirStr] {
				diags.errorf(s.Span, "circular .include of %q", s.DirStr)
				continue
			}
			incSrc, ok := sources[s.DirStr]
			if !ok {
				diags.errorf(s.Span, "cannot resolve .include %q", s.DirStr)
				continue
			}
			visiting[s.DirStr] = true
			out = append(out, assembleFile(s.DirStr, incSrc, sources, diags, visiting)...)
			delete(visiting, s.DirStr)
			continue
		}
		out = append(out, s)
	}
	return out
}

// FormatDiagnostics renders diagnostics one per line with ANSI color spans
// for terminal output, matching the teacher/ecosystem convention of
// colorizing CLI diagnostics rather than plain text. Grounded on
// original_source/src/assembler/mod.rs's format_code_hint, simplified to a
// single-line-per-diagnostic rendering (no inline source excerpt) since this
// port has no shared source-span file server to pull the offending line
// from outside the assembler package.
func FormatDiagnostics(diags []Diagnostic) string {
	const (
		bold = "\x1b[1m"
		red  = "\x1b[31m"
		yel  = "\x1b[33m"
		rst  = "\x1b[0m"
	)
	var sb strings.Builder
	for _, d := range diags {
		color := red
		if d.Severity == SeverityWarning {
			color = yel
		}
		sb.WriteString(bold)
		sb.WriteString(color)
		sb.WriteString(d.String())
		sb.WriteString(rst)
		sb.WriteString("\n")
	}
	return sb.String()
}

var errAssembly = assemblyError{}

type assemblyError struct{}

func (assemblyError) Error() string { return "assembler: one or more errors during assembly" }
