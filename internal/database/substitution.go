package database

// Substitution is a finite map from Label (a variable placeholder) to
// Formula. It is the second argument of Formula.Unify and
// Formula.Substitute. The zero value is an empty, usable substitution.
type Substitution struct {
	bindings map[Label]Formula
}

// NewSubstitution returns an empty substitution.
func NewSubstitution() Substitution {
	return Substitution{bindings: make(map[Label]Formula)}
}

// Insert binds label to f, overwriting any prior binding.
func (s *Substitution) Insert(label Label, f Formula) {
	if s.bindings == nil {
		s.bindings = make(map[Label]Formula)
	}
	s.bindings[label] = f
}

// Get looks up label without mutating s.
func (s Substitution) Get(label Label) (Formula, bool) {
	if s.bindings == nil {
		return Formula{}, false
	}
	f, ok := s.bindings[label]
	return f, ok
}

// Len reports the number of bindings.
func (s Substitution) Len() int { return len(s.bindings) }

// Each iterates bindings in an unspecified order; callers needing
// determinism must not rely on it. None of the interpreter's observable
// orderings depend on substitution iteration order.
func (s Substitution) Each(fn func(Label, Formula)) {
	for k, v := range s.bindings {
		fn(k, v)
	}
}

// Extend merges other into a copy of s; keys present in other override s's.
func (s Substitution) Extend(other Substitution) Substitution {
	out := s.clone()
	other.Each(func(l Label, f Formula) {
		out.Insert(l, f)
	})
	return out
}

// clone returns a shallow copy whose map is independent of s's, so that
// callers can speculatively extend it (Formula.Unify's trial-then-commit)
// without mutating the original on failure.
func (s Substitution) clone() Substitution {
	out := NewSubstitution()
	s.Each(func(l Label, f Formula) {
		out.Insert(l, f)
	})
	return out
}
