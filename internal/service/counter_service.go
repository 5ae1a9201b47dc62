package service

import (
	"context"
	"errors"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/observability"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// CounterService exposes counter reads and the recount repair path.
type CounterService struct {
	db          *gorm.DB
	counterRepo repository.CounterRepository
}

func NewCounterService(db *gorm.DB, counterRepo repository.CounterRepository) *CounterService {
	return &CounterService{db: db, counterRepo: counterRepo}
}

// GetCounter returns the current counter snapshot for a post.
func (s *CounterService) GetCounter(ctx context.Context, postID uint) (*models.PostCounter, error) {
	counter, err := s.counterRepo.Get(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post counter", postID)
	}
	return counter, err
}

// Recount recomputes one post's counters from the detail tables.
// Trigger names the caller (api, cli, resync) for the metric.
func (s *CounterService) Recount(ctx context.Context, postID uint, trigger string) (*models.PostCounter, error) {
	span, ctx := observability.NewSpan(ctx, "counter.recount")
	defer span.End()
	span.AddAttributes(
		attribute.Int64("post.id", int64(postID)),
		attribute.String("recount.trigger", trigger),
	)

	counter, err := s.counterRepo.Recount(ctx, postID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	observability.CounterRecounts.WithLabelValues(trigger).Inc()
	return counter, nil
}

// RecountAll walks every live post and recounts it, batchSize ids at a
// time. Used by the repair CLI; returns the number of posts visited.
func (s *CounterService) RecountAll(ctx context.Context, batchSize int, trigger string) (int, error) {
	if batchSize <= 0 {
		batchSize = 200
	}

	var visited int
	var lastID uint
	for {
		var ids []uint
		err := s.db.WithContext(ctx).Model(&models.Post{}).
			Where("id > ?", lastID).
			Order("id ASC").
			Limit(batchSize).
			Pluck("id", &ids).Error
		if err != nil {
			return visited, err
		}
		if len(ids) == 0 {
			return visited, nil
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return visited, err
			}
			if _, err := s.Recount(ctx, id, trigger); err != nil {
				return visited, err
			}
			visited++
		}
		lastID = ids[len(ids)-1]
	}
}
