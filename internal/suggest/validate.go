package suggest

import (
	"fmt"

	"github.com/dataviz-ai/chart-insights/internal/models"
)

// Validate filters raw specs down to the structurally well-formed subset:
// labels must be present and the dataset list non-empty. Violating specs are
// dropped, never repaired. Surviving specs keep their relative order, and any
// spec without an id gets "chart_{n}" from its 1-based position in the
// accepted output. Title and id collisions are allowed.
func Validate(raw []models.ChartSpec) []models.ChartSpec {
	accepted := make([]models.ChartSpec, 0, len(raw))
	for _, spec := range raw {
		if spec.Labels == nil || len(spec.Datasets) == 0 {
			continue
		}
		if spec.ID == "" {
			spec.ID = fmt.Sprintf("chart_%d", len(accepted)+1)
		}
		accepted = append(accepted, spec)
	}
	return accepted
}
