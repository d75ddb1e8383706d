package ir

// similarNameThreshold is the maximum normalized edit distance for a
// "did you mean" suggestion.
const similarNameThreshold = 0.1

// Scope is one level of the symbol and type tables. Child scopes are
// pushed and popped in block order.
type Scope struct {
	parent   *Scope
	symbols  []Decl
	types    map[string]Type
	children []*Scope
}

// NewGlobalScope creates the root scope with every primitive type and its
// aliases registered.
func NewGlobalScope() *Scope {
	s := &Scope{types: make(map[string]Type, len(Primitives)+len(TypeAliases))}
	for _, p := range Primitives {
		s.AddType(p.TypeName(), p)
	}
	for name, p := range TypeAliases {
		s.AddType(name, p)
	}
	return s
}

// Parent returns the enclosing scope, or nil for the global scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Symbols returns the symbols declared directly in s.
func (s *Scope) Symbols() []Decl { return s.symbols }

// AddSymbol declares d in s.
func (s *Scope) AddSymbol(d Decl) {
	s.symbols = append(s.symbols, d)
}

// RemoveSymbol removes d from s.
func (s *Scope) RemoveSymbol(d Decl) {
	for i, e := range s.symbols {
		if e == d {
			s.symbols = append(s.symbols[:i], s.symbols[i+1:]...)
			return
		}
	}
}

// FindSymbol looks name up, most recently added first, then in the
// parents when up is set.
func (s *Scope) FindSymbol(name string, up bool) Decl {
	for i := len(s.symbols) - 1; i >= 0; i-- {
		if s.symbols[i].DeclName() == name {
			return s.symbols[i]
		}
	}
	if up && s.parent != nil {
		return s.parent.FindSymbol(name, true)
	}
	return nil
}

// FindSymbols collects every symbol called name, outermost scope first.
func (s *Scope) FindSymbols(name string) []Decl {
	var found []Decl
	if s.parent != nil {
		found = s.parent.FindSymbols(name)
	}
	for _, d := range s.symbols {
		if d.DeclName() == name {
			found = append(found, d)
		}
	}
	return found
}

// ContainsSymbolHere reports whether name is declared in s itself.
func (s *Scope) ContainsSymbolHere(name string) bool {
	return s.FindSymbol(name, false) != nil
}

// ContainsSymbolHereOrUp reports whether name is visible from s.
func (s *Scope) ContainsSymbolHereOrUp(name string) bool {
	return s.FindSymbol(name, true) != nil
}

// FindSymbolWithSimilarName returns the symbol whose name is closest to
// name by normalized Levenshtein distance, if any is close enough.
func (s *Scope) FindSymbolWithSimilarName(name string) Decl {
	var best Decl
	minDistance := 2.0
	for i := len(s.symbols) - 1; i >= 0; i-- {
		symName := s.symbols[i].DeclName()
		if symName == name {
			continue
		}
		d := float64(levenshtein(symName, name)) / float64(max(len(symName), len(name)))
		if d <= similarNameThreshold && d < minDistance {
			best = s.symbols[i]
			minDistance = d
		}
	}
	if best != nil {
		return best
	}
	if s.parent != nil {
		return s.parent.FindSymbolWithSimilarName(name)
	}
	return nil
}

// AddType registers t under name.
func (s *Scope) AddType(name string, t Type) {
	if s.types == nil {
		s.types = make(map[string]Type)
	}
	s.types[name] = t
}

// FindType looks a type name up in s and its parents.
func (s *Scope) FindType(name string) Type {
	if t, ok := s.types[name]; ok {
		return t
	}
	if s.parent != nil {
		return s.parent.FindType(name)
	}
	return nil
}

// PushChild opens a nested scope.
func (s *Scope) PushChild() *Scope {
	child := &Scope{parent: s}
	s.children = append(s.children, child)
	return child
}

// PopChild closes the most recently opened nested scope.
func (s *Scope) PopChild() {
	if n := len(s.children); n > 0 {
		s.children = s.children[:n-1]
	}
}

// levenshtein returns the edit distance between a and b.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
