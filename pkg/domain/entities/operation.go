package entities

import (
	"fmt"
	"math"
)

// OperationType tells whether an operation runs in-house or at a supplier
type OperationType string

const (
	OperationInside  OperationType = "Inside"
	OperationOutside OperationType = "Outside"
)

// String method for OperationType
func (o OperationType) String() string {
	return string(o)
}

// TimeUnit is the unit a setup, labor or machine time is expressed in
type TimeUnit string

const (
	TotalHours           TimeUnit = "Total Hours"
	TotalMinutes         TimeUnit = "Total Minutes"
	HoursPerPiece        TimeUnit = "Hours/Piece"
	HoursPer100Pieces    TimeUnit = "Hours/100 Pieces"
	HoursPer1000Pieces   TimeUnit = "Hours/1000 Pieces"
	MinutesPerPiece      TimeUnit = "Minutes/Piece"
	MinutesPer100Pieces  TimeUnit = "Minutes/100 Pieces"
	MinutesPer1000Pieces TimeUnit = "Minutes/1000 Pieces"
	SecondsPerPiece      TimeUnit = "Seconds/Piece"
	PiecesPerHour        TimeUnit = "Pieces/Hour"
	PiecesPerMinute      TimeUnit = "Pieces/Minute"
)

// TimeUnits lists every supported unit in display order
var TimeUnits = []TimeUnit{
	TotalHours,
	TotalMinutes,
	HoursPerPiece,
	HoursPer100Pieces,
	HoursPer1000Pieces,
	MinutesPerPiece,
	MinutesPer100Pieces,
	MinutesPer1000Pieces,
	SecondsPerPiece,
	PiecesPerHour,
	PiecesPerMinute,
}

// Valid reports whether the unit is known. The empty unit is valid and
// resolved to a default by the caller.
func (u TimeUnit) Valid() bool {
	if u == "" {
		return true
	}
	for _, known := range TimeUnits {
		if u == known {
			return true
		}
	}
	return false
}

// IsFixed reports whether the time does not depend on quantity
func (u TimeUnit) IsFixed() bool {
	return u == TotalHours || u == TotalMinutes
}

// String method for TimeUnit
func (u TimeUnit) String() string {
	return string(u)
}

// OperationRecord is one routing step of a make method
type OperationRecord struct {
	MakeMethodID  string        `json:"makeMethodId" yaml:"makeMethodId"`
	Order         int           `json:"order" yaml:"order"`
	Description   string        `json:"description" yaml:"description"`
	Process       string        `json:"process" yaml:"process"`
	WorkCenter    string        `json:"workCenter,omitempty" yaml:"workCenter,omitempty"`
	OperationType OperationType `json:"operationType" yaml:"operationType"`
	SetupTime     float64       `json:"setupTime" yaml:"setupTime"`
	SetupUnit     TimeUnit      `json:"setupUnit" yaml:"setupUnit"`
	LaborTime     float64       `json:"laborTime" yaml:"laborTime"`
	LaborUnit     TimeUnit      `json:"laborUnit" yaml:"laborUnit"`
	MachineTime   float64       `json:"machineTime" yaml:"machineTime"`
	MachineUnit   TimeUnit      `json:"machineUnit" yaml:"machineUnit"`
}

// Validate checks the numeric and unit fields. Descriptive fields such as
// process and work center are optional.
func (o *OperationRecord) Validate() error {
	times := []struct {
		name  string
		value float64
		unit  TimeUnit
	}{
		{"setup", o.SetupTime, o.SetupUnit},
		{"labor", o.LaborTime, o.LaborUnit},
		{"machine", o.MachineTime, o.MachineUnit},
	}
	for _, tm := range times {
		if math.IsNaN(tm.value) || math.IsInf(tm.value, 0) {
			return fmt.Errorf("%w: %s time must be finite for %q, got %v", ErrInvalidOperation, tm.name, o.Description, tm.value)
		}
		if tm.value < 0 {
			return fmt.Errorf("%w: %s time cannot be negative for %q, got %v", ErrInvalidOperation, tm.name, o.Description, tm.value)
		}
		if !tm.unit.Valid() {
			return fmt.Errorf("%w: unknown %s unit %q for %q", ErrInvalidOperation, tm.name, tm.unit, o.Description)
		}
	}
	return nil
}

// OperationDuration holds projected minutes for one operation at one quantity
type OperationDuration struct {
	Quantity float64 `json:"quantity"`
	Setup    float64 `json:"setup"`
	Labor    float64 `json:"labor"`
	Machine  float64 `json:"machine"`
	Total    float64 `json:"total"`
}
