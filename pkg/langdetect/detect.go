// Package langdetect classifies files for review. It answers two
// questions with go-enry: what language a file is written in, and
// whether the file is worth sending to a provider at all.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// LangText is the fallback language id when nothing matches. Plain
// text files are still reviewable.
const LangText = "Text"

// Detect returns the language id for a file ("Go", "JavaScript",
// "Python"). The filename carries most of the signal; content
// strategies cover extensionless files and ambiguous extensions.
func Detect(path string, content []byte) string {
	if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" {
		return lang
	}
	return LangText
}

// FenceTag converts a language id into a markdown fence tag.
func FenceTag(language string) string {
	switch language {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "C#":
		return "csharp"
	default:
		return strings.ToLower(language)
	}
}

// DefaultExtensions returns the extension allowlist used when the
// configuration names none. Lowercase, with the leading dot.
func DefaultExtensions() []string {
	return []string{
		".c", ".cc", ".cpp", ".cs", ".go", ".h", ".hpp",
		".java", ".js", ".jsx", ".kt", ".php", ".py", ".rb",
		".rs", ".scala", ".sh", ".sql", ".swift", ".ts", ".tsx",
	}
}
