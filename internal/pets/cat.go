package pets

// Cat is an Animal with a coat color.
type Cat struct {
	Base
	color string
}

// NewCat returns a Cat.
func NewCat(name, color string) *Cat {
	return &Cat{Base: NewBase(name), color: color}
}

func (c *Cat) Color() string {
	return c.color
}

// Speak always returns "Meow!".
func (c *Cat) Speak() string {
	return "Meow!"
}

func (c *Cat) Purr() string {
	return "Purrr..."
}
