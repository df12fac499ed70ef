package review

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/yaklabco/gorevise/pkg/config"
)

// Sentinel errors for reply parsing.
var (
	// ErrEmptyReply indicates the model returned no usable payload.
	ErrEmptyReply = errors.New("empty model reply")

	// ErrMalformedReply indicates the payload could not be salvaged.
	ErrMalformedReply = errors.New("malformed model reply")
)

// Reply is the decoded payload of a model response.
type Reply struct {
	Summary   string     `json:"summary"`
	Proposals []Proposal `json:"proposals"`
}

// ParseReply turns a raw model reply into normalized proposals.
//
// The pipeline is extract, validate, decode: the JSON payload is pulled
// out of the (possibly markdown-wrapped) reply, checked against the
// reply schema, and decoded strictly. When validation fails the payload
// is salvaged field by field instead, so a single wrong-typed field
// degrades that field to its default rather than losing the reply.
func ParseReply(reply string) (*Reply, error) {
	raw := ExtractJSON(reply)
	if raw == "" {
		return nil, ErrEmptyReply
	}

	parsed, err := parseStrict(raw)
	if err == nil {
		return parsed, nil
	}
	return parseTolerant(raw)
}

func parseStrict(raw string) (*Reply, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if err := validateReply(decoded); err != nil {
		return nil, err
	}

	var parsed Reply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	for i := range parsed.Proposals {
		parsed.Proposals[i] = parsed.Proposals[i].Normalize()
	}
	return &parsed, nil
}

// parseTolerant salvages what it can from a payload that failed strict
// validation. gjson coerces scalars (a numeric string still yields a
// line number) and both camelCase and snake_case field names are
// accepted.
func parseTolerant(raw string) (*Reply, error) {
	if !gjson.Valid(raw) {
		return nil, ErrMalformedReply
	}

	root := gjson.Parse(raw)
	items := root.Get("proposals")
	if !items.Exists() && root.IsArray() {
		// Some models return the proposal array with no envelope.
		items = root
	}
	if !items.Exists() || !items.IsArray() {
		return nil, ErrMalformedReply
	}

	parsed := &Reply{Summary: root.Get("summary").String()}
	items.ForEach(func(_, item gjson.Result) bool {
		proposal := Proposal{
			ID:              field(item, "id").String(),
			Description:     field(item, "description").String(),
			AnchorText:      field(item, "anchorText", "anchor_text").String(),
			ReplacementText: field(item, "replacementText", "replacement_text").String(),
			LineStart:       int(field(item, "lineStart", "line_start").Int()),
			LineEnd:         int(field(item, "lineEnd", "line_end").Int()),
			Severity:        config.ParseSeverity(field(item, "severity").String()),
			Category:        ParseCategory(field(item, "category").String()),
		}
		parsed.Proposals = append(parsed.Proposals, proposal.Normalize())
		return true
	})
	return parsed, nil
}

// field returns the first existing path from names.
func field(item gjson.Result, names ...string) gjson.Result {
	for _, name := range names {
		if value := item.Get(name); value.Exists() {
			return value
		}
	}
	return gjson.Result{}
}
