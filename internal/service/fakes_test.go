package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"scicomp-hub/internal/domain"
)

// In-memory repositories backing the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return &dupErr{}
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

type dupErr struct{}

func (*dupErr) Error() string { return "UNIQUE constraint failed: users.email" }

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func (f *fakeUserRepo) List(_ context.Context, q string, page domain.Page) ([]domain.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		if q == "" || strings.Contains(u.Email, q) || strings.Contains(u.Name, q) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	out = slicePage(out, page.Clamp())
	return out, total, nil
}

type fakeCompetitionRepo struct {
	mu    sync.Mutex
	comps map[string]*domain.Competition
}

func newFakeCompetitionRepo() *fakeCompetitionRepo {
	return &fakeCompetitionRepo{comps: map[string]*domain.Competition{}}
}

func (f *fakeCompetitionRepo) Create(_ context.Context, c *domain.Competition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	f.comps[c.ID] = &cp
	return nil
}

func (f *fakeCompetitionRepo) FindByID(_ context.Context, id string) (*domain.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comps[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompetitionRepo) Save(_ context.Context, c *domain.Competition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.comps[c.ID] = &cp
	return nil
}

func (f *fakeCompetitionRepo) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comps[id]; !ok {
		return false, nil
	}
	delete(f.comps, id)
	return true, nil
}

func (f *fakeCompetitionRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.comps {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCompetitionRepo) SetModeration(_ context.Context, id string, patch domain.ModerationPatch) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comps[id]
	if !ok {
		return false, nil
	}
	if patch.Approved != nil {
		c.IsApproved = *patch.Approved
	}
	if patch.Featured != nil {
		c.IsFeatured = *patch.Featured
	}
	if patch.Active != nil {
		c.IsActive = *patch.Active
	}
	if patch.RejectionReason != nil {
		c.RejectionReason = *patch.RejectionReason
	}
	return true, nil
}

func (f *fakeCompetitionRepo) FeatureIfApproved(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comps[id]
	if !ok || !c.IsApproved {
		return false, nil
	}
	c.IsFeatured = true
	return true, nil
}

func (f *fakeCompetitionRepo) Query(_ context.Context, flt domain.CompetitionFilter, s domain.Sort, page domain.Page) ([]domain.Competition, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Competition
	for _, c := range f.comps {
		if flt.VisibleOnly && !(c.IsActive && c.IsApproved) {
			continue
		}
		if flt.PendingOnly && (c.IsApproved || c.RejectionReason != "") {
			continue
		}
		if flt.OwnerID != "" && c.OwnerID != flt.OwnerID {
			continue
		}
		if flt.Format != "" && c.Format != flt.Format {
			continue
		}
		if flt.Scale != "" && c.Scale != flt.Scale {
			continue
		}
		if flt.Location != "" && !strings.Contains(c.Location, flt.Location) {
			continue
		}
		if flt.Search != "" && !strings.Contains(c.Title, flt.Search) && !strings.Contains(c.Introduction, flt.Search) {
			continue
		}
		if flt.DeadlineFrom != nil && c.Deadline.Before(*flt.DeadlineFrom) {
			continue
		}
		if flt.DeadlineTo != nil && c.Deadline.After(*flt.DeadlineTo) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch s.Column() {
		case domain.SortByDeadline:
			if !a.Deadline.Equal(b.Deadline) {
				less = a.Deadline.Before(b.Deadline)
				if s.Desc {
					less = !less
				}
				return less
			}
		case domain.SortByTitle:
			if a.Title != b.Title {
				less = a.Title < b.Title
				if s.Desc {
					less = !less
				}
				return less
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				less = a.CreatedAt.Before(b.CreatedAt)
				if s.Desc {
					less = !less
				}
				return less
			}
		}
		return a.ID < b.ID // tiebreak, never reversed
	})
	total := int64(len(out))
	out = slicePage(out, page.Clamp())
	return out, total, nil
}

func slicePage[T any](items []T, page domain.Page) []T {
	if page.Offset >= len(items) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}
