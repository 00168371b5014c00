// Package demo runs the sample owner/pets scenario.
package demo

import (
	"fmt"
	"io"
	"strings"

	"github.com/olehluchkiv/pets/internal/pets"
)

// Sample holds the instances built by Scenario.
type Sample struct {
	Owner *pets.Owner
	Dog   *pets.Dog
	Cat   *pets.Cat
}

// Scenario builds John with Buddy and Whiskers, added in that order.
func Scenario() Sample {
	dog := pets.NewDog("Buddy", "Golden Retriever")
	cat := pets.NewCat("Whiskers", "Orange")
	owner := pets.NewOwner("John")

	owner.AddPet(dog)
	owner.AddPet(cat)

	return Sample{Owner: owner, Dog: dog, Cat: cat}
}

// Run writes the scenario report to w.
func Run(w io.Writer) error {
	s := Scenario()
	lines := []string{
		fmt.Sprintf("%s's pets: %s", s.Owner.Name(), FormatNames(s.Owner.ListPets())),
		fmt.Sprintf("%s says: %s", s.Dog.Name(), s.Dog.Speak()),
		fmt.Sprintf("%s says: %s", s.Cat.Name(), s.Cat.Speak()),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing demo output: %w", err)
		}
	}
	return nil
}

// FormatNames renders names as ['a', 'b'].
func FormatNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
