// Chunk documents.
//
// A decompressed segment is a BSON document. The decoder only checks that
// it is well formed and carries the anchor field every chunk has; the
// schema below that is left to consumers, who get the document either as
// raw BSON or as an ordered bson.D.
package region

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultRequiredField is the top-level key every chunk document carries.
const DefaultRequiredField = "Components"

// document validates data as a BSON document containing field.
func document(data []byte, field string) (bson.Raw, error) {
	raw := bson.Raw(data)
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if _, err := raw.LookupErr(field); err != nil {
		return nil, fmt.Errorf("%w: missing top-level %q", ErrMalformedDocument, field)
	}
	return raw, nil
}

// parse unmarshals a validated document into its ordered form.
func parse(raw bson.Raw) (bson.D, error) {
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return doc, nil
}

// ExtJSON renders a document as relaxed MongoDB extended JSON, indented for
// reading. Binary fields such as block sections come out base64 encoded.
func ExtJSON(raw bson.Raw) ([]byte, error) {
	out, err := bson.MarshalExtJSONIndent(raw, false, false, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("extjson: %w", err)
	}
	return out, nil
}
