package pets

// Owner keeps an ordered list of animals. It references the animals but does
// not manage them; the same animal may be added more than once.
type Owner struct {
	name string
	pets []Animal
}

// NewOwner returns an Owner with no pets.
func NewOwner(name string) *Owner {
	return &Owner{name: name, pets: []Animal{}}
}

func (o *Owner) Name() string {
	return o.name
}

// AddPet appends pet to the end of the owner's list. A nil interface value
// is ignored; a nil *Dog or *Cat is a non-nil Animal and is stored as is.
func (o *Owner) AddPet(pet Animal) {
	if pet == nil {
		return
	}
	o.pets = append(o.pets, pet)
}

// ListPets returns the pet names in the order the pets were added.
func (o *Owner) ListPets() []string {
	names := make([]string, len(o.pets))
	for i, p := range o.pets {
		names[i] = p.Name()
	}
	return names
}

// Pets returns a copy of the owner's animals.
func (o *Owner) Pets() []Animal {
	out := make([]Animal, len(o.pets))
	copy(out, o.pets)
	return out
}

// Len reports how many pets have been added.
func (o *Owner) Len() int {
	return len(o.pets)
}
