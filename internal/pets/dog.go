package pets

import "fmt"

// Dog is an Animal with a breed that can fetch things.
type Dog struct {
	Base
	breed string
}

// NewDog returns a Dog.
func NewDog(name, breed string) *Dog {
	return &Dog{Base: NewBase(name), breed: breed}
}

// Breed returns the dog's breed.
func (d *Dog) Breed() string {
	return d.breed
}

// Speak always returns "Woof!".
func (d *Dog) Speak() string {
	return "Woof!"
}

// Fetch describes the dog fetching item. Any item is accepted, including "".
func (d *Dog) Fetch(item string) string {
	return fmt.Sprintf("%s fetches the %s", d.Name(), item)
}
