package assembler

import "strings"

// Assemble runs the whole pipeline over a single source unit. It returns the
// finished Result, or the first error encountered in stage order: later
// stages assume a well-formed stream, so assembly never continues past a
// structural defect.
func Assemble(source string) (*Result, *AssemblyError) {
	return AssembleFiles([]SourceFile{{Text: source}})
}

// AssembleFiles assembles an ordered list of source files as one logically
// concatenated token stream. Labels, sublabels and macros share a single
// namespace across all files.
func AssembleFiles(files []SourceFile) (*Result, *AssemblyError) {
	var tokens []Token
	fileContents := make(map[string][]string, len(files))
	for _, f := range files {
		tokens = append(tokens, Tokenize(f.Name, f.Text)...)
		fileContents[f.Name] = strings.Split(f.Text, "\n")
	}

	w := newWalker()
	if err := w.run(tokens); err != nil {
		return nil, err
	}
	w.symbols.Freeze()

	if err := resolveReferences(w.stmts, w.symbols); err != nil {
		return nil, err
	}

	img := generate(w.stmts)
	return &Result{
		ROM:          img.ROM(),
		Origin:       imageOrigin,
		Symbols:      w.symbols,
		Warnings:     w.symbols.unusedWarnings(),
		fileContents: fileContents,
	}, nil
}
