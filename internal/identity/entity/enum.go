package entity

type AnalysisStatus string

const (
	AnalysisStatusQueued     AnalysisStatus = "QUEUED"
	AnalysisStatusProcessing AnalysisStatus = "PROCESSING"
	AnalysisStatusDone       AnalysisStatus = "DONE"
	AnalysisStatusFailed     AnalysisStatus = "FAILED"
)

// Strategy selects how samples are bucketed during an analysis.
type Strategy string

const (
	// StrategyKey buckets by the leading characters of the canonical string.
	StrategyKey Strategy = "KEY"
	// StrategyNumber buckets by linear partition number.
	StrategyNumber Strategy = "NUMBER"
)
