package events

import "time"

const (
	BOMExplodedEvent        = "bom.exploded"
	BOMExplosionFailedEvent = "bom.explosion_failed"
)

// Explosion sources
const (
	SourceAPI        = "api"
	SourceRepository = "repository"
	SourceFile       = "file"
	SourceUnknown    = "unknown"
)

// BOMExploded records a successful explosion. ElapsedMs is Elapsed in
// milliseconds and is filled in by NewBOMExplodedEvent.
type BOMExploded struct {
	RootItemID string        `json:"rootItemId"`
	Source     string        `json:"source"`
	Lines      int           `json:"lines"`
	MaxLevel   int           `json:"maxLevel"`
	Operations int           `json:"operations"`
	Elapsed    time.Duration `json:"-"`
	ElapsedMs  float64       `json:"elapsedMs"`
}

// BOMExplosionFailed records an explosion that returned an error. Invalid is
// set when the input was rejected rather than a collaborator failing.
type BOMExplosionFailed struct {
	RootItemID string        `json:"rootItemId"`
	Source     string        `json:"source"`
	Invalid    bool          `json:"invalid"`
	Error      string        `json:"error"`
	Elapsed    time.Duration `json:"-"`
	ElapsedMs  float64       `json:"elapsedMs"`
}

func NewBOMExplodedEvent(data BOMExploded) Event {
	data.ElapsedMs = milliseconds(data.Elapsed)
	return NewEvent(BOMExplodedEvent, data.RootItemID, data)
}

func NewBOMExplosionFailedEvent(data BOMExplosionFailed) Event {
	data.ElapsedMs = milliseconds(data.Elapsed)
	return NewEvent(BOMExplosionFailedEvent, data.RootItemID, data)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
