package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"scicomp-hub/internal/core/cache"
	"scicomp-hub/internal/domain"
	"scicomp-hub/internal/events"
	"scicomp-hub/pkg/utils"
)

const detailCacheTTL = time.Minute

func detailCacheKey(id string) string { return "competition:" + id }

// CompetitionService owns the competition record through its content
// lifecycle. Moderation flags are out of its reach entirely; they belong to
// ModerationService.
type CompetitionService struct {
	repo      domain.CompetitionRepository
	cache     *cache.Cache
	publisher *events.Publisher
	log       *zap.Logger

	// RevertOnEdit sends an approved competition back to pending when the
	// owner edits content (admin edits keep the state).
	RevertOnEdit bool
}

func NewCompetitionService(repo domain.CompetitionRepository, c *cache.Cache, pub *events.Publisher, log *zap.Logger) *CompetitionService {
	return &CompetitionService{repo: repo, cache: c, publisher: pub, log: log}
}

type CompetitionInput struct {
	Title        string
	Introduction string
	History      string
	Scoring      string
	Awards       string
	Location     string
	Format       domain.Format
	Scale        domain.Scale
	Deadline     time.Time
	AgeMin       *int
	AgeMax       *int
	Capacity     *int
	ImageURLs    []string
}

// Create inserts a new listing owned by the actor. The moderation flags are
// forced to pending/active/unfeatured no matter what the caller supplied;
// there is deliberately no way to express them in CompetitionInput.
func (s *CompetitionService) Create(ctx context.Context, actor *domain.User, in CompetitionInput) (*domain.Competition, error) {
	c := &domain.Competition{
		ID:           utils.NewID(),
		Title:        strings.TrimSpace(in.Title),
		Introduction: in.Introduction,
		History:      in.History,
		Scoring:      in.Scoring,
		Awards:       in.Awards,
		Location:     strings.TrimSpace(in.Location),
		Format:       in.Format,
		Scale:        in.Scale,
		Deadline:     in.Deadline,
		AgeMin:       in.AgeMin,
		AgeMax:       in.AgeMax,
		Capacity:     in.Capacity,
		ImageURLs:    in.ImageURLs,
		OwnerID:      actor.ID,

		IsActive:   true,
		IsApproved: false,
		IsFeatured: false,
	}
	if err := domain.ValidateCompetition(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.CompetitionEvent{
		Event: events.CompetitionCreated, CompetitionID: c.ID,
		Title: c.Title, OwnerID: c.OwnerID, ActorID: actor.ID,
	})
	return c, nil
}

// CompetitionPatch updates content fields only; nil leaves a field alone.
// The moderation pointers exist so the transport layer can surface a caller
// trying to smuggle flag changes through this path.
type CompetitionPatch struct {
	Title        *string
	Introduction *string
	History      *string
	Scoring      *string
	Awards       *string
	Location     *string
	Format       *domain.Format
	Scale        *domain.Scale
	Deadline     *time.Time
	AgeMin       *int
	AgeMax       *int
	Capacity     *int
	ImageURLs    *[]string

	IsActive        *bool
	IsApproved      *bool
	IsFeatured      *bool
	RejectionReason *string
}

func (p CompetitionPatch) touchesModeration() bool {
	return p.IsActive != nil || p.IsApproved != nil || p.IsFeatured != nil || p.RejectionReason != nil
}

func (s *CompetitionService) Update(ctx context.Context, actor *domain.User, id string, patch CompetitionPatch) (*domain.Competition, error) {
	if patch.touchesModeration() {
		return nil, domain.InvalidOperation("moderation flags cannot be set through update")
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("competition not found")
	}
	if err := RequireOwnerOrAdmin(actor, c.OwnerID); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		c.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Introduction != nil {
		c.Introduction = *patch.Introduction
	}
	if patch.History != nil {
		c.History = *patch.History
	}
	if patch.Scoring != nil {
		c.Scoring = *patch.Scoring
	}
	if patch.Awards != nil {
		c.Awards = *patch.Awards
	}
	if patch.Location != nil {
		c.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Format != nil {
		c.Format = *patch.Format
	}
	if patch.Scale != nil {
		c.Scale = *patch.Scale
	}
	if patch.Deadline != nil {
		c.Deadline = *patch.Deadline
	}
	if patch.AgeMin != nil {
		c.AgeMin = patch.AgeMin
	}
	if patch.AgeMax != nil {
		c.AgeMax = patch.AgeMax
	}
	if patch.Capacity != nil {
		c.Capacity = patch.Capacity
	}
	if patch.ImageURLs != nil {
		c.ImageURLs = *patch.ImageURLs
	}
	if err := domain.ValidateCompetition(c); err != nil {
		return nil, err
	}

	if s.RevertOnEdit && actor.Role != domain.RoleAdmin && c.IsApproved {
		c.IsApproved = false
		c.IsFeatured = false
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, detailCacheKey(c.ID))
	s.publisher.Publish(ctx, events.CompetitionEvent{
		Event: events.CompetitionUpdated, CompetitionID: c.ID,
		Title: c.Title, OwnerID: c.OwnerID, ActorID: actor.ID,
	})
	return c, nil
}

func (s *CompetitionService) Delete(ctx context.Context, actor *domain.User, id string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("competition not found")
	}
	if err := RequireOwnerOrAdmin(actor, c.OwnerID); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("competition not found")
	}
	s.cache.Invalidate(ctx, detailCacheKey(id))
	s.publisher.Publish(ctx, events.CompetitionEvent{
		Event: events.CompetitionDeleted, CompetitionID: id,
		Title: c.Title, OwnerID: c.OwnerID, ActorID: actor.ID,
	})
	return nil
}

// Get serves the detail page. Anonymous and non-owner callers only see
// visible competitions and cannot distinguish hidden from absent. The
// public path is cached briefly; owner/admin reads go straight through.
func (s *CompetitionService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Competition, error) {
	if actor != nil {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.NotFound("competition not found")
		}
		if c.Visible() || RequireOwnerOrAdmin(actor, c.OwnerID) == nil {
			return c, nil
		}
		return nil, domain.NotFound("competition not found")
	}

	c, err := cache.GetOrLoadJSON(s.cache, ctx, detailCacheKey(id), detailCacheTTL,
		func(ctx context.Context) (*domain.Competition, error) {
			return s.repo.FindByID(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	if c == nil || !c.Visible() {
		return nil, domain.NotFound("competition not found")
	}
	return c, nil
}
