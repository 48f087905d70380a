// Package usecase contains application business logic services.
package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/observability"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

// CandidateService assembles a candidate snapshot from the seven stored
// record kinds.
type CandidateService struct {
	Repo    domain.CandidateRepository
	Locator domain.CandidateLocator
	Cache   domain.SnapshotCache
	// Source labels aggregation metrics, e.g. "postgres" or "file".
	Source string

	fixedID  domain.CandidateID
	hasFixed bool
}

// CandidateOption customises a CandidateService.
type CandidateOption func(*CandidateService)

// WithCandidateID pins the candidate served by Current.
func WithCandidateID(id domain.CandidateID) CandidateOption {
	return func(s *CandidateService) { s.fixedID, s.hasFixed = id, true }
}

// WithLocator resolves the candidate from the store when none is pinned.
func WithLocator(l domain.CandidateLocator) CandidateOption {
	return func(s *CandidateService) { s.Locator = l }
}

// WithSnapshotCache reads snapshots through c.
func WithSnapshotCache(c domain.SnapshotCache) CandidateOption {
	return func(s *CandidateService) { s.Cache = c }
}

// NewCandidateService constructs a CandidateService.
func NewCandidateService(repo domain.CandidateRepository, source string, opts ...CandidateOption) CandidateService {
	s := CandidateService{Repo: repo, Source: source}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// CandidateID returns the candidate this service answers for. With nothing
// pinned and no stored candidate it returns uuid.Nil, which reads as empty.
func (s CandidateService) CandidateID(ctx domain.Context) (domain.CandidateID, error) {
	if s.hasFixed {
		return s.fixedID, nil
	}
	if s.Locator == nil {
		return uuid.Nil, nil
	}
	id, err := s.Locator.DefaultCandidate(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		observability.LoggerFromContext(ctx).Warn("no candidate profile stored; serving empty snapshot")
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("op=candidate.CandidateID: %w", err)
	}
	return id, nil
}

// Current resolves the candidate and loads its snapshot.
func (s CandidateService) Current(ctx domain.Context) (domain.CandidateSnapshot, error) {
	id, err := s.CandidateID(ctx)
	if err != nil {
		return domain.CandidateSnapshot{}, err
	}
	return s.Load(ctx, id)
}

// Load returns the snapshot for id, consulting the cache first when one is
// configured. Cache failures never fail the request.
func (s CandidateService) Load(ctx domain.Context, id domain.CandidateID) (domain.CandidateSnapshot, error) {
	lg := observability.LoggerFromContext(ctx)
	if s.Cache != nil {
		snap, err := s.Cache.Get(ctx, id)
		switch {
		case err == nil:
			observability.RecordSnapshotCache("hit")
			return snap, nil
		case errors.Is(err, domain.ErrNotFound):
			observability.RecordSnapshotCache("miss")
		default:
			observability.RecordSnapshotCache("error")
			lg.Warn("snapshot cache read failed", slog.Any("error", err))
		}
	}

	snap, err := s.fetch(ctx, id)
	if err != nil {
		return domain.CandidateSnapshot{}, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, id, snap); err != nil {
			lg.Warn("snapshot cache write failed", slog.Any("error", err))
		}
	}
	return snap, nil
}

// fetch issues the seven reads concurrently. A missing record degrades to an
// empty value; any other failure aborts the whole aggregation.
func (s CandidateService) fetch(ctx domain.Context, id domain.CandidateID) (domain.CandidateSnapshot, error) {
	start := time.Now()
	var snap domain.CandidateSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.Repo.Profile(gctx, id)
		snap.Profile = v
		return tolerateNotFound("profile", err)
	})
	g.Go(func() error {
		v, err := s.Repo.Experiences(gctx, id)
		snap.Experiences = v
		return tolerateNotFound("experiences", err)
	})
	g.Go(func() error {
		v, err := s.Repo.Skills(gctx, id)
		snap.Skills = v
		return tolerateNotFound("skills", err)
	})
	g.Go(func() error {
		v, err := s.Repo.Gaps(gctx, id)
		snap.Gaps = v
		return tolerateNotFound("gaps", err)
	})
	g.Go(func() error {
		v, err := s.Repo.Values(gctx, id)
		snap.Values = v
		return tolerateNotFound("values", err)
	})
	g.Go(func() error {
		v, err := s.Repo.FAQs(gctx, id)
		snap.FAQs = v
		return tolerateNotFound("faqs", err)
	})
	g.Go(func() error {
		v, err := s.Repo.Instructions(gctx, id)
		snap.Instructions = v
		return tolerateNotFound("instructions", err)
	})

	if err := g.Wait(); err != nil {
		return domain.CandidateSnapshot{}, fmt.Errorf("op=candidate.Load: %w", err)
	}
	observability.ObserveAggregation(s.Source, time.Since(start))

	normalize(&snap)
	return snap, nil
}

func tolerateNotFound(what string, err error) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}

// normalize fixes ordering regardless of what the store returned.
func normalize(s *domain.CandidateSnapshot) {
	sort.SliceStable(s.Experiences, func(i, j int) bool {
		return s.Experiences[i].DisplayOrder < s.Experiences[j].DisplayOrder
	})
	sort.SliceStable(s.Instructions, func(i, j int) bool {
		return s.Instructions[i].Priority < s.Instructions[j].Priority
	})
}
