package scalar

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Literal is the text of a YAML scalar holding a number. It is kept as
// text so that it can be parsed exactly by the field it is loaded into.
type Literal string

func (l *Literal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected a number", value.Line)
	}
	*l = Literal(value.Value)
	return nil
}

// ParseAll parses every literal of ls with f.
func ParseAll[T any](f Field[T], ls []Literal) ([]T, error) {
	result := make([]T, len(ls))
	for i, l := range ls {
		x, err := f.Parse(string(l))
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		result[i] = x
	}
	return result, nil
}
