// Package conventions projects typed fields out of, and into, nested manifest
// fragments.
//
// A Lens[C, F] reads an F embedded in a C and writes a new C with the F
// replaced. Lenses compose: Compose(DeploymentTemplate, TemplateMeta) reaches
// the pod template metadata of a deployment. Writing through an absent
// intermediate value fills it with its zero value first.
package conventions

// Lens reads and writes a field F of a container type C.
type Lens[C, F any] struct {
	get func(C) (F, bool)
	set func(C, F) C
}

// NewLens builds a lens from a getter reporting presence and a setter
// returning the updated container.
func NewLens[C, F any](get func(C) (F, bool), set func(C, F) C) Lens[C, F] {
	return Lens[C, F]{get: get, set: set}
}

// Get returns the field held by c, or false when it is absent.
func (l Lens[C, F]) Get(c C) (F, bool) {
	return l.get(c)
}

// With returns c with the field replaced by f.
func (l Lens[C, F]) With(c C, f F) C {
	return l.set(c, f)
}

// WithFn maps the field held by c through fn. c is returned unchanged when
// the field is absent.
func (l Lens[C, F]) WithFn(c C, fn func(F) F) C {
	f, ok := l.get(c)
	if !ok {
		return c
	}
	return l.set(c, fn(f))
}

// WithOr maps the field held by c through fn, substituting def when the
// field is absent.
func (l Lens[C, F]) WithOr(c C, fn func(F) F, def F) C {
	f, ok := l.get(c)
	if !ok {
		f = def
	}
	return l.set(c, fn(f))
}

// Compose chains outer and inner into a lens from C to F.
func Compose[C, G, F any](outer Lens[C, G], inner Lens[G, F]) Lens[C, F] {
	return Lens[C, F]{
		get: func(c C) (F, bool) {
			g, ok := outer.get(c)
			if !ok {
				var zero F
				return zero, false
			}
			return inner.get(g)
		},
		set: func(c C, f F) C {
			// a missing intermediate is synthesized as its zero value
			g, _ := outer.get(c)
			return outer.set(c, inner.set(g, f))
		},
	}
}

// present is the getter for fields which always exist.
func present[C, F any](at func(C) F) func(C) (F, bool) {
	return func(c C) (F, bool) { return at(c), true }
}
