// Package nodemap loads the static node adjacency list NeighbouringLRU
// strategies use in place of a connect-trail heuristic.
package nodemap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// schema constrains the node map to { "nodes": { id: [neighbour, ...] } }
// before it is unmarshalled, so malformed topology files fail with a
// descriptive error rather than a zero-value strategy.
const schema = `{
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "nodes": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": { "type": "string" }
      }
    }
  }
}`

type document struct {
	Nodes map[string][]string `json:"nodes"`
}

// Load reads a JSON node map file, validates it against schema, and
// returns the adjacency list keyed by node id.
func Load(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading node map %q: %w", path, err)
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validating node map %q: %w", path, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("node map %q fails schema validation: %s", path, formatErrors(result.Errors()))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing node map %q: %w", path, err)
	}
	return doc.Nodes, nil
}

func formatErrors(errs []gojsonschema.ResultError) string {
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += e.String()
	}
	return msg
}
