package output

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomview/pkg/application/dto"
)

// FormatNumber renders v rounded half away from zero to places decimals.
// NaN and infinities are rendered as is.
func FormatNumber(v float64, places int32) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).Round(places).String()
}

// RoundNumber rounds v half away from zero to places decimals. NaN and
// infinities are returned unchanged.
func RoundNumber(v float64, places int32) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RoundResult returns a copy of result with every quantity, cost and duration
// rounded for display. result is not modified.
func RoundResult(result *dto.BOMResult, places int32) *dto.BOMResult {
	if result == nil {
		return nil
	}
	r := func(v float64) float64 { return RoundNumber(v, places) }

	rounded := &dto.BOMResult{
		Lines:   make([]dto.BomLineView, len(result.Lines)),
		Summary: result.Summary,
	}
	for i, line := range result.Lines {
		line.Quantity = r(line.Quantity)
		line.Total = r(line.Total)
		line.UnitCost = r(line.UnitCost)
		line.TotalCost = r(line.TotalCost)
		if line.Operations != nil {
			ops := make([]dto.OperationView, len(line.Operations))
			for j, op := range line.Operations {
				op.TotalDurationX1 = r(op.TotalDurationX1)
				op.TotalDurationX100 = r(op.TotalDurationX100)
				op.TotalDurationX1000 = r(op.TotalDurationX1000)
				op.Durations = roundDurations(op.Durations, places)
				ops[j] = op
			}
			line.Operations = ops
		}
		rounded.Lines[i] = line
	}

	rounded.Summary.MaterialCost = r(result.Summary.MaterialCost)
	rounded.Summary.TotalDurationX1 = r(result.Summary.TotalDurationX1)
	rounded.Summary.TotalDurationX100 = r(result.Summary.TotalDurationX100)
	rounded.Summary.TotalDurationX1000 = r(result.Summary.TotalDurationX1000)
	rounded.Summary.Durations = roundDurations(result.Summary.Durations, places)
	return rounded
}

func roundDurations(durations []dto.DurationAtVolume, places int32) []dto.DurationAtVolume {
	if durations == nil {
		return nil
	}
	out := make([]dto.DurationAtVolume, len(durations))
	for i, d := range durations {
		out[i] = dto.DurationAtVolume{
			Quantity:  d.Quantity,
			Evaluated: RoundNumber(d.Evaluated, places),
			Setup:     RoundNumber(d.Setup, places),
			Labor:     RoundNumber(d.Labor, places),
			Machine:   RoundNumber(d.Machine, places),
			Total:     RoundNumber(d.Total, places),
		}
	}
	return out
}
