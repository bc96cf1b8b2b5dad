package assembler

// MacroTable owns every macro definition of one assembly run.
type MacroTable struct {
	defs map[string]*MacroDefinition
}

func NewMacroTable() *MacroTable {
	return &MacroTable{defs: make(map[string]*MacroDefinition)}
}

func (mt *MacroTable) Define(def *MacroDefinition, tok Token) *AssemblyError {
	if _, ok := mt.defs[def.Name]; ok {
		return Errors.DuplicateMacroDefinition(tok, def.Name)
	}
	mt.defs[def.Name] = def
	return nil
}

func (mt *MacroTable) Get(name string) (*MacroDefinition, bool) {
	def, ok := mt.defs[name]
	return def, ok
}

// expansionStack is the set of macros currently being inlined. A frame lives
// exactly as long as one expansion, so membership is checked against the
// macros actually reached through invocation, never against the whole table.
type expansionStack struct {
	frames []string
	active map[string]struct{}
}

func newExpansionStack() *expansionStack {
	return &expansionStack{active: make(map[string]struct{})}
}

// push begins expanding name. It fails when name is already in flight, which
// catches direct self-reference and indirect cycles of any length; the error
// names the chain from the first occurrence of name down to the repeated
// invocation.
func (s *expansionStack) push(name string, tok Token) *AssemblyError {
	if _, ok := s.active[name]; ok {
		cycle := make([]string, 0, len(s.frames)+1)
		seen := false
		for _, frame := range s.frames {
			if frame == name {
				seen = true
			}
			if seen {
				cycle = append(cycle, frame)
			}
		}
		cycle = append(cycle, name)
		return Errors.RecursiveMacroExpansion(tok, cycle)
	}
	s.frames = append(s.frames, name)
	s.active[name] = struct{}{}
	return nil
}

func (s *expansionStack) pop() {
	name := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	delete(s.active, name)
}
