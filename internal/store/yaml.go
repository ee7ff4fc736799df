package store

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeTermsYAML reads a term list for ImportTerms. Each item is either a
// plain string or a mapping with "term" and an optional "note":
//
//	- แพทองธาร
//	- term: เชียงใหม่
//	  note: city
func DecodeTermsYAML(r io.Reader) ([]Term, error) {
	var nodes []yaml.Node
	if err := yaml.NewDecoder(r).Decode(&nodes); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse term list: %w", err)
	}

	terms := make([]Term, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		var t Term
		switch n.Kind {
		case yaml.ScalarNode:
			t.Term = n.Value
		case yaml.MappingNode:
			if err := n.Decode(&t); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
		default:
			return nil, fmt.Errorf("line %d: expected a string or a mapping", n.Line)
		}
		terms = append(terms, t)
	}
	return terms, nil
}
