package home

type Pet interface {
	Name() string
}

type Bowl struct{}

type Pets = []Pet

type Dish = *Bowl

type Home struct {
	All  Pets
	Food Dish
}
