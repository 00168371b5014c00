package walk

type walker interface {
	walk()
}

type Runner interface {
	Run()
}

type dog struct{}

func (d dog) walk() {}
func (d dog) Run()  {}

type Cat struct {
	Name  string
	lives int
}

func (c Cat) Run() {}
func (c Cat) nap() {}

func (c Cat) Lives() int {
	return c.lives
}
