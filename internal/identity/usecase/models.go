package usecase

import (
	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/unified"
)

// Settings are the service-wide identifier defaults.
type Settings struct {
	PartitionCount uint32
	Tier           unified.Tier
	GenerateMax    int
	MaxSamples     int64
	DefaultSource  string
}

type Description struct {
	ID             unified.ID
	Uint64         uint64
	Int64          int64
	Empty          bool
	TierKeys       map[string]string
	PartitionCount uint32
	Partition      uint64
	PartitionLabel string
}

type GenerateInput struct {
	Count  int
	Source string
}

type GenerateResult struct {
	Source string
	IDs    []unified.ID
}

// Derive kinds.
const (
	KindText     = "text"
	KindBytes    = "bytes"
	KindUUID     = "uuid"
	KindUint64   = "uint64"
	KindInt64    = "int64"
	KindRaw      = "raw"
	KindRawInt64 = "raw_int64"
	KindID       = "id"
	KindString   = "string"
)

type DeriveInput struct {
	Kind  string
	Value string
}

type CompareInput struct {
	Left      string
	Right     string
	RightKind string
}

type CompareResult struct {
	Left  unified.ID
	Order int
	Equal bool
}

// PartitionQuery zero values fall back to Settings.
type PartitionQuery struct {
	Length int
	Tier   string
	Count  uint32
}

type PartitionResult struct {
	ID          unified.ID
	Length      int
	Key         string
	Tier        unified.Tier
	TierKey     string
	Count       uint32
	Number      uint64
	NumberLabel string
}

type ValidateResult struct {
	Valid bool
	ID    unified.ID
}

type AnalysisInput struct {
	Samples  int64
	Strategy entity.Strategy
	Source   string
	Length   int
	Tier     string
	Count    uint32
}
