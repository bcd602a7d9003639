package lemke

import (
	"encoding/gob"
	"io"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// SaveSolutions writes solutions to w as a gzipped gob stream.
func SaveSolutions[T any](w io.Writer, solutions []MixedSolution[T]) error {
	gz := gzip.NewWriter(w)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(solutions); err != nil {
		gz.Close()
		return errors.Wrap(err, "encoding solutions")
	}
	return gz.Close()
}

// LoadSolutions reads solutions written by SaveSolutions.
func LoadSolutions[T any](r io.Reader) ([]MixedSolution[T], error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening gzip stream")
	}
	defer gz.Close()

	var solutions []MixedSolution[T]
	dec := gob.NewDecoder(gz)
	if err := dec.Decode(&solutions); err != nil {
		return nil, errors.Wrap(err, "decoding solutions")
	}
	return solutions, nil
}
