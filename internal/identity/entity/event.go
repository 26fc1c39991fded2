package entity

import "github.com/shandysiswandi/gounified/unified"

type AnalysisCompletedEvent struct {
	EventID    string
	AnalysisID unified.ID
	Strategy   Strategy
	Partitions int
	Samples    int64
	Spread     float64
}
