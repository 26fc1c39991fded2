package inbound

import (
	"net/http"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/unified"
)

type GenerateRequest struct {
	Count  int    `json:"count"`
	Source string `json:"source"`
}

type DeriveRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type CompareRequest struct {
	Left      string `json:"left"`
	Right     string `json:"right"`
	RightKind string `json:"right_kind"`
}

type AnalysisRequest struct {
	Samples  int64  `json:"samples"`
	Strategy string `json:"strategy"`
	Source   string `json:"source"`
	Length   int    `json:"length"`
	Tier     string `json:"tier"`
	Count    uint32 `json:"count"`
}

type GenerateResponse struct {
	Source string       `json:"source"`
	IDs    []unified.ID `json:"ids"`
}

func (GenerateResponse) StatusCode() int {
	return http.StatusCreated
}

func (r GenerateResponse) Meta() map[string]any {
	return map[string]any{"count": len(r.IDs)}
}

type DescribeResponse struct {
	ID             unified.ID        `json:"id"`
	Uint64         uint64            `json:"uint64"`
	Int64          int64             `json:"int64"`
	Empty          bool              `json:"empty"`
	TierKeys       map[string]string `json:"tier_keys"`
	PartitionCount uint32            `json:"partition_count"`
	Partition      uint64            `json:"partition"`
	PartitionLabel string            `json:"partition_label"`
}

type DeriveResponse struct {
	Kind string     `json:"kind"`
	ID   unified.ID `json:"id"`
}

type CompareResponse struct {
	Left  unified.ID `json:"left"`
	Order int        `json:"order"`
	Equal bool       `json:"equal"`
}

type PartitionsResponse struct {
	ID          unified.ID `json:"id"`
	Length      int        `json:"length"`
	Key         string     `json:"key"`
	Tier        string     `json:"tier"`
	TierKey     string     `json:"tier_key"`
	Count       uint32     `json:"count"`
	Number      uint64     `json:"number"`
	NumberLabel string     `json:"number_label"`
}

type ValidateResponse struct {
	Valid bool       `json:"valid"`
	ID    unified.ID `json:"id"`
}

type AnalysisAcceptedResponse struct {
	AnalysisID unified.ID `json:"analysis_id"`
}

func (AnalysisAcceptedResponse) StatusCode() int {
	return http.StatusAccepted
}

func (AnalysisAcceptedResponse) Message() string {
	return "analysis accepted"
}

type AnalysisResponse struct {
	ID         unified.ID            `json:"id"`
	Status     entity.AnalysisStatus `json:"status"`
	Strategy   entity.Strategy       `json:"strategy"`
	Source     string                `json:"source"`
	Length     int                   `json:"length,omitempty"`
	Count      uint32                `json:"count,omitempty"`
	Samples    int64                 `json:"samples"`
	Partitions int                   `json:"partitions"`
	Buckets    map[string]int64      `json:"buckets,omitempty"`
	Min        int64                 `json:"min"`
	Max        int64                 `json:"max"`
	Mean       float64               `json:"mean"`
	Spread     float64               `json:"spread"`
	Error      string                `json:"error,omitempty"`
	StartedAt  int64                 `json:"started_at"`
	EndedAt    int64                 `json:"ended_at"`
}
