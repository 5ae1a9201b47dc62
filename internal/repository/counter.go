package repository

import (
	"context"
	"fmt"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/cache"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository maintains the denormalized per-post engagement counts.
// Delta application must happen inside the same transaction as the detail-row
// mutation that triggers it, so the tx-taking methods accept the caller's
// transaction handle.
type CounterRepository interface {
	Get(ctx context.Context, postID uint) (*models.PostCounter, error)
	EnsureRow(ctx context.Context, tx *gorm.DB, postID uint) error
	ApplyDelta(ctx context.Context, tx *gorm.DB, postID uint, field models.CounterField, delta int) (*models.PostCounter, error)
	Touch(ctx context.Context, tx *gorm.DB, postID uint) (*models.PostCounter, error)
	Recount(ctx context.Context, postID uint) (*models.PostCounter, error)
	GetMany(ctx context.Context, postIDs []uint) (map[uint]*models.PostCounter, error)
}

type counterRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *gorm.DB, rdb *cache.Cache) CounterRepository {
	return &counterRepository{db: db, cache: rdb}
}

func (r *counterRepository) Get(ctx context.Context, postID uint) (*models.PostCounter, error) {
	var counter models.PostCounter
	if err := r.db.WithContext(ctx).First(&counter, "post_id = ?", postID).Error; err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *counterRepository) GetMany(ctx context.Context, postIDs []uint) (map[uint]*models.PostCounter, error) {
	out := make(map[uint]*models.PostCounter, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var counters []*models.PostCounter
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&counters).Error; err != nil {
		return nil, err
	}
	for _, c := range counters {
		out[c.PostID] = c
	}
	return out, nil
}

// EnsureRow inserts a zeroed counter row for the post if none exists.
func (r *counterRepository) EnsureRow(ctx context.Context, tx *gorm.DB, postID uint) error {
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostCounter{PostID: postID}).Error
}

func validCounterField(field models.CounterField) bool {
	switch field {
	case models.CounterReactions, models.CounterComments, models.CounterShares:
		return true
	}
	return false
}

// ApplyDelta adjusts one counter field by +1/-1 (clamped at zero) and bumps
// the row's version, which serves as the per-post event sequence number.
// It must run inside the transaction that mutates the detail rows.
func (r *counterRepository) ApplyDelta(ctx context.Context, tx *gorm.DB, postID uint, field models.CounterField, delta int) (*models.PostCounter, error) {
	if !validCounterField(field) {
		return nil, fmt.Errorf("unknown counter field %q", field)
	}
	if delta != 1 && delta != -1 {
		return nil, fmt.Errorf("counter delta must be +1 or -1, got %d", delta)
	}

	col := string(field)
	// CASE WHEN keeps the clamp portable across postgres and sqlite.
	expr := fmt.Sprintf("CASE WHEN %s + ? < 0 THEN 0 ELSE %s + ? END", col, col)

	res := tx.WithContext(ctx).Model(&models.PostCounter{}).
		Where("post_id = ?", postID).
		Updates(map[string]interface{}{
			col:       gorm.Expr(expr, delta, delta),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Counter row missing (legacy post); create it and retry once.
		if err := r.EnsureRow(ctx, tx, postID); err != nil {
			return nil, err
		}
		res = tx.WithContext(ctx).Model(&models.PostCounter{}).
			Where("post_id = ?", postID).
			Updates(map[string]interface{}{
				col:       gorm.Expr(expr, delta, delta),
				"version": gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return nil, res.Error
		}
	}

	var counter models.PostCounter
	if err := tx.WithContext(ctx).First(&counter, "post_id = ?", postID).Error; err != nil {
		return nil, err
	}
	r.cache.InvalidatePost(ctx, postID)
	return &counter, nil
}

// Touch bumps the version without changing any total. Used when a
// mutation alters detail rows but leaves the counts intact, e.g. a
// reaction changing type, so the resulting event still carries a fresh
// sequence number.
func (r *counterRepository) Touch(ctx context.Context, tx *gorm.DB, postID uint) (*models.PostCounter, error) {
	res := tx.WithContext(ctx).Model(&models.PostCounter{}).
		Where("post_id = ?", postID).
		Update("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := r.EnsureRow(ctx, tx, postID); err != nil {
			return nil, err
		}
	}

	var counter models.PostCounter
	if err := tx.WithContext(ctx).First(&counter, "post_id = ?", postID).Error; err != nil {
		return nil, err
	}
	r.cache.InvalidatePost(ctx, postID)
	return &counter, nil
}

// Recount recomputes the counter row from the detail tables. It is the
// authoritative repair path when counters drift, and is idempotent: if the
// stored totals already match, the row is left untouched.
func (r *counterRepository) Recount(ctx context.Context, postID uint) (*models.PostCounter, error) {
	defer observability.TrackQuery("recount", "post_counters")()
	var counter models.PostCounter

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.EnsureRow(ctx, tx, postID); err != nil {
			return err
		}

		var reactions, comments, shares int64
		if err := tx.WithContext(ctx).Model(&models.Reaction{}).Where("post_id = ?", postID).Count(&reactions).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&comments).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(&models.Share{}).Where("post_id = ?", postID).Count(&shares).Error; err != nil {
			return err
		}

		if err := tx.WithContext(ctx).First(&counter, "post_id = ?", postID).Error; err != nil {
			return err
		}

		if counter.TotalReactions == reactions &&
			counter.TotalComments == comments &&
			counter.TotalShares == shares {
			return nil
		}

		counter.TotalReactions = reactions
		counter.TotalComments = comments
		counter.TotalShares = shares
		counter.Version++
		return tx.WithContext(ctx).Save(&counter).Error
	})
	if err != nil {
		return nil, err
	}

	r.cache.InvalidatePost(ctx, postID)
	return &counter, nil
}
