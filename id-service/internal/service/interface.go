package service

import (
	"context"

	"github.com/weiawesome/prefixid/id-service/internal/domain"
)

// IDService defines the interface for identifier business logic.
type IDService interface {
	ListKinds(ctx context.Context) []domain.KindResponse
	Generate(ctx context.Context, subject, prefix string, count int) (*domain.GenerateResponse, error)
	Inspect(ctx context.Context, id string) (*domain.InspectResponse, error)
	Validate(ctx context.Context, req *domain.ValidateRequest) *domain.ValidateResponse
}
