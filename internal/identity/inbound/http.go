package inbound

import (
	"context"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/identity/usecase"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gounified/unified"
)

type uc interface {
	Describe(ctx context.Context, raw string) (usecase.Description, error)
	Generate(ctx context.Context, in usecase.GenerateInput) (usecase.GenerateResult, error)
	Derive(ctx context.Context, in usecase.DeriveInput) (unified.ID, error)
	Compare(ctx context.Context, in usecase.CompareInput) (usecase.CompareResult, error)
	Partitions(ctx context.Context, raw string, q usecase.PartitionQuery) (usecase.PartitionResult, error)
	Validate(ctx context.Context, raw string) usecase.ValidateResult
	StartAnalysis(ctx context.Context, in usecase.AnalysisInput) (unified.ID, error)
	GetAnalysis(ctx context.Context, raw string) (entity.Analysis, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/ids", end.Generate)
	r.POST("/ids/derive", end.Derive)
	r.POST("/ids/compare", end.Compare)
	r.GET("/ids/:id", end.Describe)
	r.GET("/ids/:id/partitions", end.Partitions) // ?length=&tier=&count=
	r.GET("/validate", end.Validate)             // ?id=

	r.POST("/analyses", end.StartAnalysis)
	r.GET("/analyses/:id", end.GetAnalysis)
}
