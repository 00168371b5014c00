package animals

type Speaker interface {
	Speak() string
}

type Dog struct{}

func (d Dog) Speak() string { return "woof" }

type Cat struct{}

func (c Cat) Speak() string { return "meow" }

// Fish has no Speak and implements nothing.
type Fish struct {
	Fins int
}
