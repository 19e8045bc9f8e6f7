package dto

// BOMResult contains the flattened, rolled-up view of one method tree
type BOMResult struct {
	Lines   []BomLineView `json:"lines"`
	Summary BOMSummary    `json:"summary"`
}

// BomLineView is one rendered row of the tree
type BomLineView struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId"`
	Description *string         `json:"description"`
	Quantity    float64         `json:"quantity"`
	Total       float64         `json:"total"`
	UnitCost    float64         `json:"unitCost"`
	TotalCost   float64         `json:"totalCost"`
	UOM         *string         `json:"uom"`
	MethodType  string          `json:"methodType"`
	ItemType    string          `json:"itemType"`
	Level       int             `json:"level"`
	Version     *string         `json:"version"`
	Operations  []OperationView `json:"operations,omitempty"`
}

// OperationView is a routing step with durations projected at several volumes.
// Durations are in minutes.
type OperationView struct {
	Description        string             `json:"description"`
	Process            string             `json:"process"`
	WorkCenter         *string            `json:"workCenter"`
	OperationType      string             `json:"operationType"`
	SetupTime          float64            `json:"setupTime"`
	SetupUnit          string             `json:"setupUnit"`
	LaborTime          float64            `json:"laborTime"`
	LaborUnit          string             `json:"laborUnit"`
	MachineTime        float64            `json:"machineTime"`
	MachineUnit        string             `json:"machineUnit"`
	TotalDurationX1    float64            `json:"totalDurationX1"`
	TotalDurationX100  float64            `json:"totalDurationX100"`
	TotalDurationX1000 float64            `json:"totalDurationX1000"`
	Durations          []DurationAtVolume `json:"durations,omitempty"`
}

// DurationAtVolume is an operation's projection for one requested quantity.
// Quantity is the requested build quantity of the root; Evaluated is the
// quantity of this line the operation was projected at.
type DurationAtVolume struct {
	Quantity  float64 `json:"quantity"`
	Evaluated float64 `json:"evaluated,omitempty"`
	Setup     float64 `json:"setup"`
	Labor     float64 `json:"labor"`
	Machine   float64 `json:"machine"`
	Total     float64 `json:"total"`
}

// BOMSummary aggregates a result
type BOMSummary struct {
	RootItemID         string             `json:"rootItemId"`
	Lines              int                `json:"lines"`
	MaxLevel           int                `json:"maxLevel"`
	MaterialCost       float64            `json:"materialCost"`
	Operations         int                `json:"operations"`
	TotalDurationX1    float64            `json:"totalDurationX1"`
	TotalDurationX100  float64            `json:"totalDurationX100"`
	TotalDurationX1000 float64            `json:"totalDurationX1000"`
	Durations          []DurationAtVolume `json:"durations,omitempty"`
}
