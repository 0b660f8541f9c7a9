package export

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/jmespath/go-jmespath"
)

// Selector projects JSON output through a JMESPath expression.
type Selector struct {
	expression string
	compiled   *jmespath.JMESPath
}

// NewSelector compiles expression. An empty expression selects everything.
func NewSelector(expression string) (*Selector, error) {
	if expression == "" {
		return &Selector{}, nil
	}
	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid select expression %q: %s", expression, err)
	}
	return &Selector{expression: expression, compiled: compiled}, nil
}

func (s *Selector) Empty() bool {
	return s.compiled == nil
}

// Select evaluates the expression against v as it would appear in JSON.
func (s *Selector) Select(v any) (any, error) {
	if s.Empty() {
		return v, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode for select: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode for select: %w", err)
	}

	result, err := s.compiled.Search(data)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "failed to evaluate select expression %q: %s", s.expression, err)
	}
	return result, nil
}

// WriteJSON writes the selected part of v as indented JSON.
func (s *Selector) WriteJSON(w io.Writer, v any) error {
	selected, err := s.Select(v)
	if err != nil {
		return err
	}
	return WriteJSON(w, selected)
}
