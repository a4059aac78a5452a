package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/invopop/jsonschema"

	"snibbets/internal/snippet"
)

// schemaTypes maps each schema kind to a value of the shape it describes.
var schemaTypes = map[string]any{
	"integration": []Item{},
	"plain":       []snippet.Snippet{},
	"list":        []Item{},
}

// SchemaKinds returns the accepted kinds for Schema, sorted.
func SchemaKinds() []string {
	kinds := make([]string, 0, len(schemaTypes))
	for k := range schemaTypes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Schema returns the JSON Schema of an output shape. Integration output is
// either an item array or the lone no-match item.
func Schema(kind string) (*jsonschema.Schema, error) {
	v, ok := schemaTypes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q (want one of %v)", kind, SchemaKinds())
	}

	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(v)
	schema.Title = kind + " output"

	if kind == "integration" {
		sentinel := reflector.Reflect(Item{})
		sentinel.Version = ""
		sentinel.Description = "Emitted alone when nothing matched: {\"title\": \"" + NoMatchesTitle + "\"}"
		array := *schema
		array.Version = ""
		array.Title = ""
		schema = &jsonschema.Schema{
			Version: jsonschema.Version,
			Title:   kind + " output",
			OneOf:   []*jsonschema.Schema{&array, sentinel},
		}
	}
	return schema, nil
}

// WriteSchema writes the indented schema for kind.
func WriteSchema(w io.Writer, kind string) error {
	schema, err := Schema(kind)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
