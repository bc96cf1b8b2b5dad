package assembler

import (
	"sort"
	"strings"
)

// SymbolTable maps label names to labels. It is append-only during pass 1
// and must be frozen before pass 2 reads it; defining a symbol on a frozen
// table is a programming error and panics.
type SymbolTable struct {
	labels map[string]*Label
	order  []string
	frozen bool
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{labels: make(map[string]*Label)}
}

func (st *SymbolTable) DefineLabel(name string, tok Token, address uint16) (*Label, *AssemblyError) {
	if st.frozen {
		panic("assembler: label defined on a frozen symbol table")
	}
	if _, ok := st.labels[name]; ok {
		return nil, Errors.DuplicateLabelDefinition(tok, name)
	}
	label := &Label{
		Name:      name,
		Address:   address,
		File:      tok.File,
		Range:     tok.Range,
		Sublabels: make(map[string]*Sublabel),
	}
	st.labels[name] = label
	st.order = append(st.order, name)
	return label, nil
}

func (st *SymbolTable) DefineSublabel(parent *Label, name string, tok Token, address uint16) *AssemblyError {
	if st.frozen {
		panic("assembler: sublabel defined on a frozen symbol table")
	}
	if _, ok := parent.Sublabels[name]; ok {
		return Errors.DuplicateLabelDefinition(tok, parent.Name+"/"+name)
	}
	parent.Sublabels[name] = &Sublabel{
		Name:    name,
		Address: address,
		File:    tok.File,
		Range:   tok.Range,
	}
	return nil
}

func (st *SymbolTable) Freeze() {
	st.frozen = true
}

// Resolve looks up a plain label name or a Label/sublabel path and marks the
// symbol as referenced. The caller has already validated the path shape.
func (st *SymbolTable) Resolve(ident string) (uint16, bool) {
	name, sub, isPath := strings.Cut(ident, "/")
	label, ok := st.labels[name]
	if !ok {
		return 0, false
	}
	if !isPath {
		label.Referenced = true
		return label.Address, true
	}
	sublabel, ok := label.Sublabels[sub]
	if !ok {
		return 0, false
	}
	sublabel.Referenced = true
	return sublabel.Address, true
}

// Lookup is Resolve without the referenced-marking side effect, for tooling
// such as hover.
func (st *SymbolTable) Lookup(ident string) (uint16, bool) {
	name, sub, isPath := strings.Cut(ident, "/")
	label, ok := st.labels[name]
	if !ok {
		return 0, false
	}
	if !isPath {
		return label.Address, true
	}
	sublabel, ok := label.Sublabels[sub]
	if !ok {
		return 0, false
	}
	return sublabel.Address, true
}

// Labels returns the labels in definition order.
func (st *SymbolTable) Labels() []*Label {
	labels := make([]*Label, 0, len(st.order))
	for _, name := range st.order {
		labels = append(labels, st.labels[name])
	}
	return labels
}

// SublabelsInOrder returns the sublabels sorted by address, then name.
func (l *Label) SublabelsInOrder() []*Sublabel {
	subs := make([]*Sublabel, 0, len(l.Sublabels))
	for _, sub := range l.Sublabels {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Address != subs[j].Address {
			return subs[i].Address < subs[j].Address
		}
		return subs[i].Name < subs[j].Name
	})
	return subs
}

// unusedWarnings reports labels and sublabels that were never referenced.
// Names starting with a capital letter are exempt, which is the conventional
// way to mark device and data layout labels.
func (st *SymbolTable) unusedWarnings() []Diagnostic {
	var warnings []Diagnostic
	for _, name := range st.order {
		label := st.labels[name]
		if name[0] >= 'A' && name[0] <= 'Z' {
			continue
		}
		if !label.Referenced {
			warnings = append(warnings, Warnings.LabelUnused(label))
		}
		subNames := make([]string, 0, len(label.Sublabels))
		for subName := range label.Sublabels {
			subNames = append(subNames, subName)
		}
		// map order is fine for assembly, but warnings should be stable
		sort.Strings(subNames)
		for _, subName := range subNames {
			sub := label.Sublabels[subName]
			if !sub.Referenced {
				warnings = append(warnings, Warnings.SublabelUnused(label, sub))
			}
		}
	}
	return warnings
}
