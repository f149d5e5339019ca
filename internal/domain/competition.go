package domain

import (
	"context"
	"time"
)

type Format string
type Scale string

const (
	FormatOnline  Format = "online"
	FormatOffline Format = "offline"
	FormatHybrid  Format = "hybrid"

	ScaleProvincial    Scale = "provincial"
	ScaleRegional      Scale = "regional"
	ScaleNational      Scale = "national"
	ScaleInternational Scale = "international"
)

func (f Format) Valid() bool {
	return f == FormatOnline || f == FormatOffline || f == FormatHybrid
}

func (s Scale) Valid() bool {
	return s == ScaleProvincial || s == ScaleRegional || s == ScaleNational || s == ScaleInternational
}

// Competition is a directory listing. The three moderation flags and the
// rejection reason are never written through the generic update path; they
// change only via the admin transitions in the moderation service.
type Competition struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Title        string    `gorm:"size:191;not null" json:"title"`
	Introduction string    `gorm:"type:text" json:"introduction"`
	History      string    `gorm:"type:text" json:"history"`
	Scoring      string    `gorm:"type:text" json:"scoring"`
	Awards       string    `gorm:"type:text" json:"awards"`
	Location     string    `gorm:"size:191" json:"location"`
	Format       Format    `gorm:"size:16" json:"format"`
	Scale        Scale     `gorm:"size:16" json:"scale"`
	Deadline     time.Time `json:"deadline"`
	AgeMin       *int      `json:"age_min,omitempty"`
	AgeMax       *int      `json:"age_max,omitempty"`
	Capacity     *int      `json:"capacity,omitempty"`
	ImageURLs    []string  `gorm:"serializer:json;type:text" json:"image_urls"`

	OwnerID string `gorm:"index;size:36" json:"owner_id"`

	IsActive        bool   `gorm:"default:true" json:"is_active"`
	IsFeatured      bool   `gorm:"default:false" json:"is_featured"`
	IsApproved      bool   `gorm:"default:false" json:"is_approved"`
	RejectionReason string `gorm:"size:500" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Competition) TableName() string { return "competitions" }

// Visible reports whether the competition appears in public listings.
func (c *Competition) Visible() bool { return c.IsActive && c.IsApproved }

// Rejected reports whether the competition is in the rejected moderation
// state (not approved, with a recorded reason).
func (c *Competition) Rejected() bool { return !c.IsApproved && c.RejectionReason != "" }

// ModerationPatch is the set of flag changes a single transition applies.
// Nil fields are left untouched; the repository applies the whole patch in
// one UPDATE so no partial flag state is ever observable.
type ModerationPatch struct {
	Approved        *bool
	Featured        *bool
	Active          *bool
	RejectionReason *string
}

type CompetitionRepository interface {
	Create(ctx context.Context, c *Competition) error
	FindByID(ctx context.Context, id string) (*Competition, error)
	Save(ctx context.Context, c *Competition) error
	Delete(ctx context.Context, id string) (bool, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	// SetModeration applies patch to one row. Returns false when the row
	// does not exist.
	SetModeration(ctx context.Context, id string, patch ModerationPatch) (bool, error)
	// FeatureIfApproved sets is_featured on the row only when it is
	// currently approved, in a single conditional UPDATE.
	FeatureIfApproved(ctx context.Context, id string) (bool, error)
	Query(ctx context.Context, f CompetitionFilter, s Sort, page Page) ([]Competition, int64, error)
}
