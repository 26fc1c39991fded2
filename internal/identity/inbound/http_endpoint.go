package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/identity/usecase"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgrouter"
)

const maxBodyBytes = 1 << 20

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Generate(ctx context.Context, r *http.Request) (any, error) {
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	res, err := h.uc.Generate(ctx, usecase.GenerateInput{Count: req.Count, Source: req.Source})
	if err != nil {
		return nil, err
	}

	return GenerateResponse{Source: res.Source, IDs: res.IDs}, nil
}

func (h *HTTPEndpoint) Describe(ctx context.Context, r *http.Request) (any, error) {
	res, err := h.uc.Describe(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return DescribeResponse{
		ID:             res.ID,
		Uint64:         res.Uint64,
		Int64:          res.Int64,
		Empty:          res.Empty,
		TierKeys:       res.TierKeys,
		PartitionCount: res.PartitionCount,
		Partition:      res.Partition,
		PartitionLabel: res.PartitionLabel,
	}, nil
}

func (h *HTTPEndpoint) Derive(ctx context.Context, r *http.Request) (any, error) {
	var req DeriveRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	id, err := h.uc.Derive(ctx, usecase.DeriveInput{Kind: req.Kind, Value: req.Value})
	if err != nil {
		return nil, err
	}

	return DeriveResponse{Kind: strings.ToLower(req.Kind), ID: id}, nil
}

func (h *HTTPEndpoint) Compare(ctx context.Context, r *http.Request) (any, error) {
	var req CompareRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	res, err := h.uc.Compare(ctx, usecase.CompareInput{
		Left:      req.Left,
		Right:     req.Right,
		RightKind: req.RightKind,
	})
	if err != nil {
		return nil, err
	}

	return CompareResponse{Left: res.Left, Order: res.Order, Equal: res.Equal}, nil
}

func (h *HTTPEndpoint) Partitions(ctx context.Context, r *http.Request) (any, error) {
	length, ok := pkgrouter.QueryInt(r, "length", 0)
	if !ok {
		return nil, pkgerror.NewInvalidFormat(errors.New("length must be an integer"))
	}

	count, ok := pkgrouter.QueryInt(r, "count", 0)
	if !ok {
		return nil, pkgerror.NewInvalidFormat(errors.New("count must be an integer"))
	}
	if count < 0 || count > math.MaxUint32 {
		return nil, pkgerror.NewOutOfRange(fmt.Errorf("count %d out of range", count))
	}

	res, err := h.uc.Partitions(ctx, pkgrouter.GetParam(ctx, "id"), usecase.PartitionQuery{
		Length: int(length),
		Tier:   r.URL.Query().Get("tier"),
		Count:  uint32(count),
	})
	if err != nil {
		return nil, err
	}

	return PartitionsResponse{
		ID:          res.ID,
		Length:      res.Length,
		Key:         res.Key,
		Tier:        res.Tier.String(),
		TierKey:     res.TierKey,
		Count:       res.Count,
		Number:      res.Number,
		NumberLabel: res.NumberLabel,
	}, nil
}

func (h *HTTPEndpoint) Validate(ctx context.Context, r *http.Request) (any, error) {
	res := h.uc.Validate(ctx, r.URL.Query().Get("id"))
	return ValidateResponse{Valid: res.Valid, ID: res.ID}, nil
}

func (h *HTTPEndpoint) StartAnalysis(ctx context.Context, r *http.Request) (any, error) {
	var req AnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	id, err := h.uc.StartAnalysis(ctx, usecase.AnalysisInput{
		Samples:  req.Samples,
		Strategy: entity.Strategy(req.Strategy),
		Source:   req.Source,
		Length:   req.Length,
		Tier:     req.Tier,
		Count:    req.Count,
	})
	if err != nil {
		return nil, err
	}

	return AnalysisAcceptedResponse{AnalysisID: id}, nil
}

func (h *HTTPEndpoint) GetAnalysis(ctx context.Context, r *http.Request) (any, error) {
	a, err := h.uc.GetAnalysis(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return AnalysisResponse{
		ID:         a.ID,
		Status:     a.Status,
		Strategy:   a.Strategy,
		Source:     a.Source,
		Length:     a.Length,
		Count:      a.Count,
		Samples:    a.Samples,
		Partitions: a.Partitions,
		Buckets:    a.Buckets,
		Min:        a.Min,
		Max:        a.Max,
		Mean:       a.Mean,
		Spread:     a.Spread,
		Error:      a.Err,
		StartedAt:  a.StartedAt,
		EndedAt:    a.EndedAt,
	}, nil
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerror.NewInvalidInput(errors.New("empty request body"))
		}
		return pkgerror.NewInvalidFormat(err)
	}

	return nil
}
