package service

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/cache"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"
)

// DefaultTopPostsLimit is how many of a creator's posts the ranked view
// returns.
const DefaultTopPostsLimit = 10

// FeedService derives ranked engagement views. The ranking is computed
// on demand from live counters; nothing is stored.
type FeedService struct {
	feedRepo repository.FeedRepository
	cache    *cache.Cache
}

func NewFeedService(feedRepo repository.FeedRepository, rdb *cache.Cache) *FeedService {
	return &FeedService{feedRepo: feedRepo, cache: rdb}
}

// TopPosts returns the creator's posts ranked by engagement. Rank 1 is
// the most engaged post; reactions dominate, comments break ties, and
// recency then post id make the order total so ranks are stable across
// reads of the same state. Ranks at or above the highlight threshold
// get the badge treatment.
func (s *FeedService) TopPosts(ctx context.Context, creatorID uint, limit int) ([]*models.RankedPost, error) {
	if limit <= 0 || limit > DefaultTopPostsLimit {
		limit = DefaultTopPostsLimit
	}

	var ranked []*models.RankedPost
	// Always cache the full page so every limit is served from one entry.
	err := s.cache.Aside(ctx, cache.TopPostsKey(creatorID), &ranked, cache.TopPostsTTL, func() error {
		rows, err := s.feedRepo.TopPostsByCreator(ctx, creatorID, DefaultTopPostsLimit)
		if err != nil {
			return err
		}
		for i, row := range rows {
			row.Rank = i + 1
			row.Highlighted = row.Rank <= models.HighlightRankThreshold
		}
		ranked = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A cached page may be longer than the requested limit.
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
