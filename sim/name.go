package sim

import "strings"

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name does not follow the naming convention.
// Names are organized in a hierarchical structure with "." as the
// separator. The individual elements are arbitrary, as long as they are
// not empty. For example, "alice" and "AliceBob.AliceQueue" are valid, but
// "Alice..Bob" and "Alice." are not.
func NameMustBeValid(name string) {
	tokens := strings.Split(name, ".")
	for _, token := range tokens {
		if token == "" {
			panic("Name " + name +
				" is not valid: element must not be empty")
		}
	}
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}
