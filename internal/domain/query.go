package domain

import "time"

// CompetitionFilter is a conjunction; zero values mean "no constraint".
type CompetitionFilter struct {
	Format       Format
	Scale        Scale
	Location     string // substring match
	Search       string // substring over title + introduction
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
	OwnerID      string
	VisibleOnly  bool // is_active AND is_approved
	PendingOnly  bool // not approved, no rejection reason
}

const (
	SortByCreatedAt = "created_at"
	SortByDeadline  = "deadline"
	SortByTitle     = "title"
)

type Sort struct {
	By   string // one of the SortBy constants; empty means created_at
	Desc bool
}

func (s Sort) Column() string {
	switch s.By {
	case SortByDeadline, SortByTitle, SortByCreatedAt:
		return s.By
	default:
		return SortByCreatedAt
	}
}

type Page struct {
	Offset int
	Limit  int
}

// Clamp keeps limits sane; identical bounds to the admin listing defaults.
func (p Page) Clamp() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	return p
}
