package object

// Mode tells whether a binding may be reassigned.
type Mode uint8

const (
	ReadWrite Mode = iota
	ReadOnly
)

func (m Mode) String() string {
	if m == ReadOnly {
		return "read-only"
	}
	return "read-write"
}

// Binding is a single name → value entry.
type Binding struct {
	Name  string
	Value Object
	Mode  Mode
}

// cell is one link of the persistent binding chain. A cell with scope set
// carries no binding and marks the start of a call scope.
type cell struct {
	Binding
	scope bool
	next  *cell
}

// Environment is an immutable mapping from names to bindings. Every
// operation that changes bindings returns a new Environment and leaves the
// receiver untouched, so a snapshot can be kept and reused freely.
//
// The zero value is an empty environment.
type Environment struct {
	head *cell
}

// NewEnvironment returns an environment holding the given bindings.
func NewEnvironment(bindings ...Binding) *Environment {
	env := &Environment{}
	for _, b := range bindings {
		env = &Environment{head: &cell{Binding: b, next: env.head}}
	}
	return env
}

func (e *Environment) find(name string) *cell {
	for c := e.head; c != nil; c = c.next {
		if !c.scope && c.Name == name {
			return c
		}
	}
	return nil
}

// Get retrieves the value bound to name, searching outer scopes.
func (e *Environment) Get(name string) (Object, bool) {
	if c := e.find(name); c != nil {
		return c.Value, true
	}
	return nil, false
}

// Lookup is Get returning an UndeclaredIdentifier error for a missing name.
func (e *Environment) Lookup(name string) (Object, error) {
	if c := e.find(name); c != nil {
		return c.Value, nil
	}
	return nil, NewError(UndeclaredIdentifier, "%s is not declared", name)
}

// Mode returns the mode of the visible binding for name.
func (e *Environment) Mode(name string) (Mode, bool) {
	if c := e.find(name); c != nil {
		return c.Mode, true
	}
	return 0, false
}

// Declare adds a binding to the current scope. It fails with
// RedeclaredIdentifier if the current scope already binds name; bindings in
// enclosing call scopes may be shadowed.
func (e *Environment) Declare(name string, value Object, mode Mode) (*Environment, error) {
	for c := e.head; c != nil && !c.scope; c = c.next {
		if c.Name == name {
			return e, NewError(RedeclaredIdentifier, "%s is already declared", name)
		}
	}
	return &Environment{head: &cell{Binding: Binding{Name: name, Value: value, Mode: mode}, next: e.head}}, nil
}

// Assign replaces the value of the visible binding for name. The cells in
// front of the replaced one are copied; the rest of the chain is shared.
func (e *Environment) Assign(name string, value Object) (*Environment, error) {
	var prefix []*cell
	c := e.head
	for ; c != nil; c = c.next {
		if !c.scope && c.Name == name {
			break
		}
		prefix = append(prefix, c)
	}
	if c == nil {
		return e, NewError(UndeclaredIdentifier, "cannot assign to %s: not declared", name)
	}
	if c.Mode == ReadOnly {
		return e, NewError(ReadOnlyViolation, "cannot assign to %s: binding is read-only", name)
	}

	head := &cell{Binding: Binding{Name: name, Value: value, Mode: c.Mode}, next: c.next}
	for i := len(prefix) - 1; i >= 0; i-- {
		cp := *prefix[i]
		cp.next = head
		head = &cp
	}
	return &Environment{head: head}, nil
}

// ExtendForCall opens a new scope holding the given bindings as read-only.
// It never fails; duplicate names are the caller's concern.
func (e *Environment) ExtendForCall(bindings ...Binding) *Environment {
	head := &cell{scope: true, next: e.head}
	for _, b := range bindings {
		b.Mode = ReadOnly
		head = &cell{Binding: b, next: head}
	}
	return &Environment{head: head}
}

// Bindings returns the visible bindings, innermost first. Shadowed bindings
// are omitted.
func (e *Environment) Bindings() []Binding {
	seen := map[string]bool{}
	var r []Binding
	for c := e.head; c != nil; c = c.next {
		if c.scope || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		r = append(r, c.Binding)
	}
	return r
}

// Names returns the names of the visible bindings, innermost first.
func (e *Environment) Names() []string {
	bs := e.Bindings()
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
	}
	return names
}
