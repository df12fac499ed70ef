package reporter

import (
	"context"

	"github.com/yaklabco/gorevise/pkg/analysis"
)

// Renderer turns an analyzed review report into output. Renderers hold
// no state between calls; everything they need arrives in the report.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}
