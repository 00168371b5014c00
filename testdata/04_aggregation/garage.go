package garage

type Engine struct {
	Power int
}

type Wheel struct{}

type Driver interface {
	Drive() string
}

type Car struct {
	Engine  *Engine
	Wheels  [4]Wheel
	Drivers []Driver
	Spares  map[string]*Wheel
	Model   string
}
