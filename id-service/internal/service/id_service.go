package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/weiawesome/prefixid/id-service/internal/audit"
	"github.com/weiawesome/prefixid/id-service/internal/domain"
	"github.com/weiawesome/prefixid/id-service/internal/generator"
	"github.com/weiawesome/prefixid/id-service/internal/repository"
	"github.com/weiawesome/prefixid/pkg/log"
	"github.com/weiawesome/prefixid/pkg/payload"
	"github.com/weiawesome/prefixid/pkg/pubsub"
	"github.com/weiawesome/prefixid/pkg/typeid"
)

// batchSource orders batch ids by issue time.
var batchSource = payload.ULID

type idService struct {
	generators *generator.Set
	registry   *typeid.Registry
	ledger     repository.LedgerRepository
	publisher  pubsub.Publisher
	maxBatch   int
}

// NewIDService creates a new IDService. Batch ids are registered in the
// set's registry so that they can be inspected too.
func NewIDService(generators *generator.Set, ledger repository.LedgerRepository, publisher pubsub.Publisher, maxBatch int) (IDService, error) {
	batchSpec, err := typeid.SpecOf[domain.Batch]()
	if err != nil {
		return nil, err
	}
	if err := generators.Registry().Register(batchSpec); err != nil {
		return nil, fmt.Errorf("register batch kind: %w", err)
	}
	return &idService{
		generators: generators,
		registry:   generators.Registry(),
		ledger:     ledger,
		publisher:  publisher,
		maxBatch:   maxBatch,
	}, nil
}

func (s *idService) ListKinds(ctx context.Context) []domain.KindResponse {
	gens := s.generators.List()
	kinds := make([]domain.KindResponse, len(gens))
	for i, g := range gens {
		spec := g.Spec()
		kinds[i] = domain.KindResponse{
			Prefix:        spec.Prefix.String(),
			Width:         spec.Width,
			EncodedLength: spec.EncodedLen(),
			Source:        g.Source(),
		}
	}
	return kinds
}

func (s *idService) Generate(ctx context.Context, subject, prefix string, count int) (*domain.GenerateResponse, error) {
	l := log.Ctx(ctx)

	if count < 1 || count > s.maxBatch {
		return nil, fmt.Errorf("%w: must be between 1 and %d, got %d", ErrInvalidCount, s.maxBatch, count)
	}
	gen, ok := s.generators.Get(prefix)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, prefix)
	}

	ids, err := gen.GenerateBatch(count)
	if err != nil {
		return nil, err
	}
	batchID, err := typeid.NewFrom[domain.Batch](batchSource)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Record(ctx, batchID, gen.Source(), ids); err != nil {
		return nil, fmt.Errorf("failed to record batch: %w", err)
	}

	resp := &domain.GenerateResponse{
		BatchID: batchID.String(),
		Prefix:  prefix,
		Source:  gen.Source(),
		IDs:     make([]string, len(ids)),
	}
	for i, id := range ids {
		resp.IDs[i] = id.String()
	}

	audit.LogBatch(ctx, subject, resp.BatchID, prefix, resp.Source, count)
	s.publishIssued(ctx, resp)
	l.Debug().Str(log.FieldPrefix, prefix).Int(log.FieldCount, count).Msg("batch generated")
	return resp, nil
}

func (s *idService) Inspect(ctx context.Context, text string) (*domain.InspectResponse, error) {
	id, err := s.registry.Parse(text)
	if err != nil {
		return nil, err
	}

	resp := &domain.InspectResponse{
		ID:      id.String(),
		Prefix:  id.Prefix(),
		Width:   id.Width(),
		Payload: hex.EncodeToString(id.Bytes()),
	}
	if gen, ok := s.generators.Get(id.Prefix()); ok {
		resp.Source = gen.Source()
		resp.Details = gen.Describe(id)
	} else if _, err := typeid.As[domain.Batch](id); err == nil {
		resp.Source = batchSource.Name()
		resp.Details = generator.Describe(batchSource, id)
	}

	if !s.ledger.Enabled() {
		return resp, nil
	}
	issued := false
	rec, err := s.ledger.Find(ctx, id)
	switch {
	case err == nil:
		issued = true
		resp.Source = rec.Source
		resp.IssuedAt = &rec.CreatedAt
		resp.BatchID = rec.BatchID.String()
	case !errors.Is(err, repository.ErrNotIssued):
		return nil, err
	}
	resp.Issued = &issued
	return resp, nil
}

func (s *idService) Validate(ctx context.Context, req *domain.ValidateRequest) *domain.ValidateResponse {
	var err error
	if req.Prefix != "" {
		_, err = s.registry.ParseKind(req.Prefix, req.ID)
	} else {
		_, err = s.registry.Parse(req.ID)
	}
	if err != nil {
		return &domain.ValidateResponse{Valid: false, Code: Code(err), Reason: Reason(err)}
	}
	return &domain.ValidateResponse{Valid: true}
}

// publishIssued announces a batch on the event bus. The batch is already
// issued and recorded, so a failure is logged and not returned.
func (s *idService) publishIssued(ctx context.Context, resp *domain.GenerateResponse) {
	l := log.Ctx(ctx)

	event, err := pubsub.NewEvent(pubsub.EventIDsIssued, resp.Prefix, pubsub.IDsIssuedPayload{
		BatchID: resp.BatchID,
		Prefix:  resp.Prefix,
		Source:  resp.Source,
		IDs:     resp.IDs,
	})
	if err != nil {
		l.Error().Err(err).Msg("failed to build issued event")
		return
	}
	if err := s.publisher.Publish(ctx, pubsub.IDsIssuedChannel(resp.Prefix), event); err != nil {
		l.Warn().Err(err).Str(log.FieldPrefix, resp.Prefix).Str(audit.FieldBatchID, resp.BatchID).Msg("failed to publish issued event")
	}
}
