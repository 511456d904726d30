package tools

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/lexandro/guidelines-mcp/phase"
)

// MustInputSchema infers the input schema for an argument struct and, when it
// has a "phase" property, restricts that property to the known phases.
// It panics if the schema cannot be inferred, which only happens for
// unsupported Go types.
func MustInputSchema[T any]() *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: inferring input schema: %v", err))
	}
	if prop, ok := schema.Properties["phase"]; ok {
		known := phase.Known()
		prop.Enum = make([]any, 0, len(known))
		for _, p := range known {
			prop.Enum = append(prop.Enum, string(p))
		}
	}
	return schema
}
