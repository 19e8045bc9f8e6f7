package services

import (
	"github.com/vsinha/bomview/pkg/domain/entities"
)

const (
	defaultSetupUnit = entities.TotalMinutes
	defaultRunUnit   = entities.MinutesPerPiece
)

// ToMinutes converts a time value expressed in unit into minutes for a run of
// quantity pieces. Fixed units ignore quantity; rate units (pieces per time)
// are inverted and yield zero when the rate is zero.
func ToMinutes(value float64, unit entities.TimeUnit, quantity float64) float64 {
	switch unit {
	case entities.TotalHours:
		return value * 60
	case entities.TotalMinutes:
		return value
	case entities.HoursPerPiece:
		return value * 60 * quantity
	case entities.HoursPer100Pieces:
		return value * 60 * quantity / 100
	case entities.HoursPer1000Pieces:
		return value * 60 * quantity / 1000
	case entities.MinutesPerPiece:
		return value * quantity
	case entities.MinutesPer100Pieces:
		return value * quantity / 100
	case entities.MinutesPer1000Pieces:
		return value * quantity / 1000
	case entities.SecondsPerPiece:
		return value * quantity / 60
	case entities.PiecesPerHour:
		if value == 0 {
			return 0
		}
		return quantity / value * 60
	case entities.PiecesPerMinute:
		if value == 0 {
			return 0
		}
		return quantity / value
	default:
		return 0
	}
}

// ProjectDurations estimates the minutes an operation takes when its make
// method is run for quantity pieces. Setup defaults to a fixed unit, labor and
// machine default to minutes per piece.
func ProjectDurations(op entities.OperationRecord, quantity float64) entities.OperationDuration {
	setupUnit := op.SetupUnit
	if setupUnit == "" {
		setupUnit = defaultSetupUnit
	}
	laborUnit := op.LaborUnit
	if laborUnit == "" {
		laborUnit = defaultRunUnit
	}
	machineUnit := op.MachineUnit
	if machineUnit == "" {
		machineUnit = defaultRunUnit
	}

	d := entities.OperationDuration{
		Quantity: quantity,
		Setup:    ToMinutes(op.SetupTime, setupUnit, quantity),
		Labor:    ToMinutes(op.LaborTime, laborUnit, quantity),
		Machine:  ToMinutes(op.MachineTime, machineUnit, quantity),
	}
	d.Total = d.Setup + d.Labor + d.Machine
	return d
}

// ExtendedCost is the cost of totalQuantity units at unitCost
func ExtendedCost(unitCost, totalQuantity float64) float64 {
	return unitCost * totalQuantity
}
