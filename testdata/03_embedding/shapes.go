package shapes

type Namer interface {
	Name() string
}

type Sizer interface {
	Size() float64
}

type Shape interface {
	Namer
	Sizer
}

type Base struct {
	Label string
}

func (b Base) Name() string { return b.Label }

type Square struct {
	Base
	Side float64
}

func (s Square) Size() float64 { return s.Side * s.Side }
