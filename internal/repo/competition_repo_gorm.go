package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scicomp-hub/internal/domain"
)

type CompetitionRepo struct{ db *gorm.DB }

func NewCompetitionRepo(db *gorm.DB) *CompetitionRepo { return &CompetitionRepo{db: db} }

func (r *CompetitionRepo) Create(ctx context.Context, c *domain.Competition) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CompetitionRepo) FindByID(ctx context.Context, id string) (*domain.Competition, error) {
	var c domain.Competition
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CompetitionRepo) Save(ctx context.Context, c *domain.Competition) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CompetitionRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Competition{})
	return res.RowsAffected > 0, res.Error
}

func (r *CompetitionRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Competition{}).
		Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}

// SetModeration applies the whole patch in one UPDATE so concurrent
// transitions never expose a partial flag state.
func (r *CompetitionRepo) SetModeration(ctx context.Context, id string, patch domain.ModerationPatch) (bool, error) {
	set := map[string]any{}
	if patch.Approved != nil {
		set["is_approved"] = *patch.Approved
	}
	if patch.Featured != nil {
		set["is_featured"] = *patch.Featured
	}
	if patch.Active != nil {
		set["is_active"] = *patch.Active
	}
	if patch.RejectionReason != nil {
		set["rejection_reason"] = *patch.RejectionReason
	}
	if len(set) == 0 {
		return true, nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Competition{}).Where("id = ?", id).Updates(set)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// Zero rows can mean gone or already in the target state; look again.
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

// FeatureIfApproved guards the featured=>approved invariant at the row level:
// the condition rides in the UPDATE itself, so a racing reject cannot leave a
// featured-but-unapproved row behind.
func (r *CompetitionRepo) FeatureIfApproved(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Competition{}).
		Where("id = ? AND is_approved = ?", id, true).
		Update("is_featured", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var c domain.Competition
	err := r.db.WithContext(ctx).First(&c, "id = ? AND is_approved = ?", id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.IsFeatured, nil
}

func (r *CompetitionRepo) Query(ctx context.Context, f domain.CompetitionFilter, s domain.Sort, page domain.Page) ([]domain.Competition, int64, error) {
	page = page.Clamp()
	tx := r.db.WithContext(ctx).Model(&domain.Competition{})

	if f.VisibleOnly {
		tx = tx.Where("is_active = ? AND is_approved = ?", true, true)
	}
	if f.PendingOnly {
		tx = tx.Where("is_approved = ? AND rejection_reason = ?", false, "")
	}
	if f.OwnerID != "" {
		tx = tx.Where("owner_id = ?", f.OwnerID)
	}
	if f.Format != "" {
		tx = tx.Where("format = ?", f.Format)
	}
	if f.Scale != "" {
		tx = tx.Where("scale = ?", f.Scale)
	}
	if f.Location != "" {
		tx = tx.Where("location LIKE ?", "%"+f.Location+"%")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		tx = tx.Where("title LIKE ? OR introduction LIKE ?", like, like)
	}
	if f.DeadlineFrom != nil {
		tx = tx.Where("deadline >= ?", *f.DeadlineFrom)
	}
	if f.DeadlineTo != nil {
		tx = tx.Where("deadline <= ?", *f.DeadlineTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	// id tiebreak keeps paging stable when the sort key repeats.
	order := s.Column() + " " + dir + ", id ASC"

	var items []domain.Competition
	err := tx.Order(order).Offset(page.Offset).Limit(page.Limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
