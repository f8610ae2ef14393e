package entities

import "fmt"

// By identifies how a scene object is located
type By string

const (
	ByName By = "NAME"
	ByTag  By = "TAG"
	ByPath By = "PATH"
	ByID   By = "ID"
)

// Selector is a typed lookup criterion for a scene object.
// Build it with Name, Tag, Path or ID.
type Selector struct {
	by    By
	value string
}

// Name - selects an object by its name
func Name(name string) Selector {
	return Selector{by: ByName, value: name}
}

// Tag - selects an object by its tag
func Tag(tag string) Selector {
	return Selector{by: ByTag, value: tag}
}

// Path - selects an object by a raw object path expression
func Path(path string) Selector {
	return Selector{by: ByPath, value: path}
}

// ID - selects an object by its engine id
func ID(id string) Selector {
	return Selector{by: ByID, value: id}
}

// By - returns the lookup strategy
func (s Selector) By() By {
	return s.by
}

// Value - returns the lookup value
func (s Selector) Value() string {
	return s.value
}

// IsZero reports whether the selector was never built.
func (s Selector) IsZero() bool {
	return s.by == "" && s.value == ""
}

// ObjectPath - converts the selector into an object path expression
func (s Selector) ObjectPath() string {
	switch s.by {
	case ByName:
		return fmt.Sprintf("//*[@name=%s]", s.value)
	case ByTag:
		return fmt.Sprintf("//*[@tag=%s]", s.value)
	case ByID:
		return fmt.Sprintf("//*[@id=%s]", s.value)
	default:
		return s.value
	}
}

func (s Selector) String() string {
	return fmt.Sprintf("%s=%s", s.by, s.value)
}
