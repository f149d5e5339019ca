package service

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"scicomp-hub/internal/core/cache"
	"scicomp-hub/internal/domain"
	"scicomp-hub/internal/events"
)

var transitionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "moderation_transitions_total", Help: "Count of applied moderation transitions"},
	[]string{"transition"},
)

func init() { prometheus.MustRegister(transitionsTotal) }

// ModerationService is the only writer of the moderation flags. Every
// transition is admin-only, checked before any row is read so non-admins
// cannot probe for existence, and applied as a single row UPDATE.
type ModerationService struct {
	repo      domain.CompetitionRepository
	cache     *cache.Cache
	publisher *events.Publisher
	log       *zap.Logger
}

func NewModerationService(repo domain.CompetitionRepository, c *cache.Cache, pub *events.Publisher, log *zap.Logger) *ModerationService {
	return &ModerationService{repo: repo, cache: c, publisher: pub, log: log}
}

func (s *ModerationService) load(ctx context.Context, actor *domain.User, id string) (*domain.Competition, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("competition not found")
	}
	return c, nil
}

func (s *ModerationService) finish(ctx context.Context, transition string, c *domain.Competition, actor *domain.User, event, reason string) {
	transitionsTotal.WithLabelValues(transition).Inc()
	s.cache.Invalidate(ctx, detailCacheKey(c.ID))
	s.publisher.Publish(ctx, events.CompetitionEvent{
		Event: event, CompetitionID: c.ID, Title: c.Title,
		OwnerID: c.OwnerID, ActorID: actor.ID, Reason: reason,
	})
	s.log.Info("moderation transition",
		zap.String("transition", transition),
		zap.String("competition_id", c.ID),
		zap.String("actor_id", actor.ID),
	)
}

// Approve moves pending or rejected listings to approved and clears any
// recorded rejection reason.
func (s *ModerationService) Approve(ctx context.Context, actor *domain.User, id string) (*domain.Competition, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	approved, reason := true, ""
	ok, err := s.repo.SetModeration(ctx, id, domain.ModerationPatch{
		Approved: &approved, RejectionReason: &reason,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NotFound("competition not found")
	}
	c.IsApproved, c.RejectionReason = true, ""
	s.finish(ctx, "approve", c, actor, events.CompetitionApproved, "")
	return c, nil
}

// Reject records a mandatory reason and forces the featured flag off so the
// featured=>approved invariant holds in the same UPDATE.
func (s *ModerationService) Reject(ctx context.Context, actor *domain.User, id, reason string) (*domain.Competition, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Validation("reason", "rejection reason is required")
	}
	approved, featured := false, false
	ok, err := s.repo.SetModeration(ctx, id, domain.ModerationPatch{
		Approved: &approved, Featured: &featured, RejectionReason: &reason,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NotFound("competition not found")
	}
	c.IsApproved, c.IsFeatured, c.RejectionReason = false, false, reason
	s.finish(ctx, "reject", c, actor, events.CompetitionRejected, reason)
	return c, nil
}

// Feature promotes an approved listing. The approval check rides inside the
// repository's conditional UPDATE, so a racing reject can never leave a
// featured-but-unapproved row.
func (s *ModerationService) Feature(ctx context.Context, actor *domain.User, id string) (*domain.Competition, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.FeatureIfApproved(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.InvalidTransition("only approved competitions can be featured")
	}
	c.IsFeatured = true
	s.finish(ctx, "feature", c, actor, events.CompetitionFeatured, "")
	return c, nil
}

func (s *ModerationService) Unfeature(ctx context.Context, actor *domain.User, id string) (*domain.Competition, error) {
	return s.setFlag(ctx, actor, id, "unfeature", events.CompetitionUnfeatured, func(p *domain.ModerationPatch, c *domain.Competition) {
		off := false
		p.Featured = &off
		c.IsFeatured = false
	})
}

// Activate and Deactivate toggle visibility independently of approval: a
// deactivated-but-approved listing drops out of public views without losing
// its approval.
func (s *ModerationService) Activate(ctx context.Context, actor *domain.User, id string) (*domain.Competition, error) {
	return s.setFlag(ctx, actor, id, "activate", events.CompetitionActivated, func(p *domain.ModerationPatch, c *domain.Competition) {
		on := true
		p.Active = &on
		c.IsActive = true
	})
}

func (s *ModerationService) Deactivate(ctx context.Context, actor *domain.User, id string) (*domain.Competition, error) {
	return s.setFlag(ctx, actor, id, "deactivate", events.CompetitionDeactivated, func(p *domain.ModerationPatch, c *domain.Competition) {
		off := false
		p.Active = &off
		c.IsActive = false
	})
}

func (s *ModerationService) setFlag(ctx context.Context, actor *domain.User, id, transition, event string, apply func(*domain.ModerationPatch, *domain.Competition)) (*domain.Competition, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	var patch domain.ModerationPatch
	apply(&patch, c)
	ok, err := s.repo.SetModeration(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NotFound("competition not found")
	}
	s.finish(ctx, transition, c, actor, event, "")
	return c, nil
}
