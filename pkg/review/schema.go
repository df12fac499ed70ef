package review

import (
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// replySchema pins the structural contract for provider replies.
// Severity and category vocabularies are deliberately left open so the
// normalizer can default unknown values instead of rejecting the reply.
const replySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["proposals"],
  "properties": {
    "summary": {"type": "string"},
    "proposals": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description", "anchorText", "replacementText"],
        "properties": {
          "id": {"type": "string"},
          "description": {"type": "string"},
          "anchorText": {"type": "string"},
          "replacementText": {"type": "string"},
          "lineStart": {"type": "integer", "minimum": 1},
          "lineEnd": {"type": "integer", "minimum": 1},
          "severity": {"type": "string"},
          "category": {"type": "string"}
        }
      }
    }
  }
}`

//nolint:gochecknoglobals // Schema is compiled once and reused for every reply
var (
	schemaOnce       sync.Once
	replyValidator   *jsonschema.Schema
	schemaCompileErr error
)

func compiledReplySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("reply.schema.json", strings.NewReader(replySchema)); err != nil {
			schemaCompileErr = err
			return
		}
		replyValidator, schemaCompileErr = compiler.Compile("reply.schema.json")
	})
	return replyValidator, schemaCompileErr
}

// validateReply checks a decoded reply value against the reply schema.
func validateReply(decoded any) error {
	schema, err := compiledReplySchema()
	if err != nil {
		return fmt.Errorf("compile reply schema: %w", err)
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("reply schema: %w", err)
	}
	return nil
}
