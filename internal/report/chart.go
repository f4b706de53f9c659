package report

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/wafreport/wafreport/internal/models"
)

const maxPieSlices = 6

// attackTypePieChart renders the attack-type distribution as a PNG pie
// chart. Counts are already sorted most frequent first; anything past
// the slice cap collapses into a single remainder slice. Returns nil
// when there is nothing to draw.
func attackTypePieChart(types []models.AttackTypeCount) ([]byte, error) {
	var total int64
	for _, at := range types {
		total += at.Count
	}
	if total == 0 {
		return nil, nil
	}

	var values []chart.Value
	var rest int64
	for i, at := range types {
		if at.Count <= 0 {
			continue
		}
		if i >= maxPieSlices {
			rest += at.Count
			continue
		}
		values = append(values, chart.Value{
			Value: float64(at.Count),
			Label: fmt.Sprintf("%s (%d)", at.Name, at.Count),
		})
	}
	if rest > 0 {
		values = append(values, chart.Value{
			Value: float64(rest),
			Label: fmt.Sprintf("other (%d)", rest),
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Width:  640,
		Height: 640,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render attack type chart: %w", err)
	}
	return buf.Bytes(), nil
}
