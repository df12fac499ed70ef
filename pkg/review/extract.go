package review

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ExtractJSON pulls the JSON payload out of a raw model reply.
//
// Models wrap payloads in markdown fences more often than not, so the
// reply is parsed as markdown and searched for fenced code blocks. A
// fence tagged json wins; otherwise the first fence whose content looks
// like JSON is used. A bare JSON reply is returned as-is, and as a last
// resort the text between the outermost braces is sliced out.
// Returns "" when no JSON-looking payload can be found.
func ExtractJSON(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return ""
	}
	if looksLikeJSON(trimmed) {
		return trimmed
	}

	src := []byte(reply)
	root := goldmark.New().Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	var jsonFence, firstFence string
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		content := strings.TrimSpace(fenceContent(fence, src))
		if content == "" {
			return ast.WalkContinue, nil
		}

		info := ""
		if fence.Info != nil {
			info = strings.ToLower(strings.TrimSpace(string(fence.Info.Value(src))))
		}
		if strings.HasPrefix(info, "json") {
			jsonFence = content
			return ast.WalkStop, nil
		}
		if firstFence == "" && looksLikeJSON(content) {
			firstFence = content
		}
		return ast.WalkContinue, nil
	})

	if jsonFence != "" {
		return jsonFence
	}
	if firstFence != "" {
		return firstFence
	}

	if start := strings.IndexAny(trimmed, "{["); start >= 0 {
		if end := strings.LastIndexAny(trimmed, "}]"); end > start {
			return trimmed[start : end+1]
		}
	}
	return ""
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// fenceContent joins the source segments of a fenced code block.
func fenceContent(fence *ast.FencedCodeBlock, src []byte) string {
	var builder strings.Builder
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		builder.Write(seg.Value(src))
	}
	return builder.String()
}
