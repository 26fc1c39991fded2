package entity

import "github.com/shandysiswandi/gounified/unified"

// Analysis is a partition-balance report over a batch of generated identifiers.
type Analysis struct {
	ID       unified.ID     `json:"id"`
	Status   AnalysisStatus `json:"status"`
	Strategy Strategy       `json:"strategy"`
	Source   string         `json:"source"`

	// Length is the prefix length for StrategyKey, Count the partition
	// count for StrategyNumber. Only one of them is set.
	Length int    `json:"length,omitempty"`
	Count  uint32 `json:"count,omitempty"`

	Samples    int64 `json:"samples"`
	Partitions int   `json:"partitions"`

	Buckets map[string]int64 `json:"buckets,omitempty"`
	Min     int64            `json:"min"`
	Max     int64            `json:"max"`
	Mean    float64          `json:"mean"`
	// Spread is the largest deviation of any bucket from Mean, in percent.
	Spread float64 `json:"spread"`

	Err       string `json:"err,omitempty"`
	StartedAt int64  `json:"started_at"`
	EndedAt   int64  `json:"ended_at"`
}
