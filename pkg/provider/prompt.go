package provider

import (
	"fmt"
	"strings"
)

// PromptRequest carries everything the prompt builder needs about one
// file under review.
type PromptRequest struct {
	// Path is the file path shown to the model for context.
	Path string

	// Language is the detected language id ("Go", "JavaScript", ...).
	Language string

	// Source is the full file content.
	Source string

	// MaxProposals caps how many proposals the model is asked for.
	MaxProposals int
}

// BuildReviewPrompt renders the review prompt for one file. The reply
// contract is pinned here and parsed by the review package; the two
// must agree on field names.
func BuildReviewPrompt(req PromptRequest) string {
	lineCount := strings.Count(req.Source, "\n")
	if req.Source != "" && !strings.HasSuffix(req.Source, "\n") {
		lineCount++
	}

	var b strings.Builder

	b.WriteString("You are a precise code reviewer. Review the file below and propose concrete edits.\n\n")

	fmt.Fprintf(&b, "File: %s\n", req.Path)
	fmt.Fprintf(&b, "Language: %s\n", req.Language)
	fmt.Fprintf(&b, "Lines: %d\n\n", lineCount)

	b.WriteString("Respond with a single JSON object and nothing else:\n\n")
	b.WriteString("{\n")
	b.WriteString("  \"summary\": \"one paragraph describing the overall state of the file\",\n")
	b.WriteString("  \"proposals\": [\n")
	b.WriteString("    {\n")
	b.WriteString("      \"id\": \"short unique id\",\n")
	b.WriteString("      \"description\": \"what the edit does and why\",\n")
	b.WriteString("      \"anchorText\": \"the exact text to replace, copied verbatim from the file\",\n")
	b.WriteString("      \"replacementText\": \"the new text; empty string to delete the anchor\",\n")
	b.WriteString("      \"lineStart\": 1,\n")
	b.WriteString("      \"lineEnd\": 1,\n")
	b.WriteString("      \"severity\": \"error | warning | info\",\n")
	b.WriteString("      \"category\": \"bug | security | performance | style | feature\"\n")
	b.WriteString("    }\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- anchorText must match the file byte for byte, including whitespace.\n")
	b.WriteString("- Keep each anchorText unique within the file where possible.\n")
	b.WriteString("- lineStart and lineEnd are 1-based and refer to the anchor's location.\n")
	fmt.Fprintf(&b, "- Propose at most %d edits; fewer is fine. An empty proposals array means the file is fine.\n", req.MaxProposals)
	b.WriteString("- Do not propose overlapping edits.\n\n")

	fmt.Fprintf(&b, "```%s\n", strings.ToLower(req.Language))
	b.WriteString(req.Source)
	if req.Source != "" && !strings.HasSuffix(req.Source, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")

	return b.String()
}
