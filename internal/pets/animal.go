// Package pets holds a small animal/owner entity model.
package pets

// Animal is anything an Owner can keep.
type Animal interface {
	Name() string
	Speak() string
}

// Base carries the state shared by every animal. It has no Speak method,
// so a bare Base is not an Animal; variants embed it and add their own.
type Base struct {
	name string
}

// NewBase returns a Base with the given name.
func NewBase(name string) Base {
	return Base{name: name}
}

// Name returns the name given at construction.
func (b Base) Name() string {
	return b.name
}
