package service

import (
	"context"

	"scicomp-hub/internal/domain"
)

// ListingService is the read path over competitions. Visibility rules are
// applied here, not left to callers.
type ListingService struct {
	repo domain.CompetitionRepository
}

func NewListingService(repo domain.CompetitionRepository) *ListingService {
	return &ListingService{repo: repo}
}

// ListPublic always applies the visibility predicate (active AND approved)
// on top of whatever the caller filtered by.
func (s *ListingService) ListPublic(ctx context.Context, f domain.CompetitionFilter, sort domain.Sort, page domain.Page) ([]domain.Competition, int64, error) {
	f.VisibleOnly = true
	f.PendingOnly = false
	f.OwnerID = ""
	return s.repo.Query(ctx, f, sort, page)
}

// ListMine returns the caller's competitions in every moderation state.
func (s *ListingService) ListMine(ctx context.Context, actor *domain.User, page domain.Page) ([]domain.Competition, int64, error) {
	f := domain.CompetitionFilter{OwnerID: actor.ID}
	return s.repo.Query(ctx, f, domain.Sort{By: domain.SortByCreatedAt, Desc: true}, page)
}

// ListPending is the review queue, oldest first so the earliest submissions
// are reviewed first.
func (s *ListingService) ListPending(ctx context.Context, actor *domain.User, page domain.Page) ([]domain.Competition, int64, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	f := domain.CompetitionFilter{PendingOnly: true}
	return s.repo.Query(ctx, f, domain.Sort{By: domain.SortByCreatedAt, Desc: false}, page)
}

// ListAll is the admin view with no implicit visibility filter.
func (s *ListingService) ListAll(ctx context.Context, actor *domain.User, f domain.CompetitionFilter, sort domain.Sort, page domain.Page) ([]domain.Competition, int64, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	f.VisibleOnly = false
	return s.repo.Query(ctx, f, sort, page)
}
