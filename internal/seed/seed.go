package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/cache"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"

	"gorm.io/gorm"
)

// Seeder populates the database with generated social data. The detail
// tables (reactions, comments, shares) are written directly for speed,
// then every counter row is recomputed from them, so the seeded
// database satisfies the same consistency rule the live write paths
// maintain.
type Seeder struct {
	db          *gorm.DB
	factory     *Factory
	profile     Profile
	counterRepo repository.CounterRepository
}

// NewSeeder creates a Seeder for the given database and profile. The
// cache handle drops stale counter entries as rows are rewritten; nil
// is fine when no Redis is running.
func NewSeeder(db *gorm.DB, profile Profile, rdb *cache.Cache) *Seeder {
	return &Seeder{
		db:          db,
		factory:     NewFactory(db, profile),
		profile:     profile,
		counterRepo: repository.NewCounterRepository(db, rdb),
	}
}

// Run executes the full pipeline: social mesh, posts, engagement, and
// the final counter reconciliation pass.
func (s *Seeder) Run(ctx context.Context) error {
	log.Printf("🌱 Seeding %d users and %d posts...", s.profile.Users, s.profile.Posts)

	users, err := s.SeedSocialMesh()
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	posts, err := s.SeedPosts(users)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := s.SeedEngagement(users, posts); err != nil {
		return fmt.Errorf("seed engagement: %w", err)
	}
	log.Println("✓ engagement created")

	recounted, err := s.ReconcileCounters(ctx, posts)
	if err != nil {
		return fmt.Errorf("reconcile counters: %w", err)
	}
	log.Printf("✓ %d counters reconciled", recounted)

	log.Println("🎉 Database seeding completed")
	return nil
}

// ClearAll removes all seeded rows, children first so foreign keys hold.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	ordered := []interface{}{
		&models.PostCounter{},
		&models.Reply{},
		&models.Comment{},
		&models.Reaction{},
		&models.Share{},
		&models.Media{},
		&models.Photo{},
		&models.FriendRequest{},
		&models.Post{},
		&models.User{},
	}
	for _, model := range ordered {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedSocialMesh creates users and wires friendships between them.
// Roughly FriendRate of all user pairs end up connected; most accepted,
// some left pending so the requests UI has data too.
func (s *Seeder) SeedSocialMesh() ([]*models.User, error) {
	users := make([]*models.User, 0, s.profile.Users)
	for i := 0; i < s.profile.Users; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if s.factory.r.Float64() >= s.profile.FriendRate {
				continue
			}
			status := models.FriendStatusAccepted
			if s.factory.r.Float64() < 0.2 {
				status = models.FriendStatusPending
			}
			sender, receiver := users[i], users[j]
			if s.factory.r.Intn(2) == 0 {
				sender, receiver = receiver, sender
			}
			if err := s.factory.CreateFriendship(sender, receiver, status); err != nil {
				return nil, err
			}
		}
	}
	return users, nil
}

// SeedPosts creates posts attributed to random users.
func (s *Seeder) SeedPosts(users []*models.User) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, s.profile.Posts)
	for i := 0; i < s.profile.Posts; i++ {
		author := users[s.factory.r.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}
	return posts, nil
}

// SeedEngagement attaches reactions, comments, replies, and shares to
// the posts. A user holds at most one reaction per post, matching the
// unique index the live write path relies on.
func (s *Seeder) SeedEngagement(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for _, user := range users {
			if s.factory.r.Float64() < s.profile.ReactionRate {
				if err := s.factory.CreateReaction(user, post); err != nil {
					return err
				}
			}
			if s.factory.r.Float64() < s.profile.ShareRate {
				if err := s.factory.CreateShare(user, post); err != nil {
					return err
				}
			}
		}

		if s.profile.MaxCommentsPerPost > 0 {
			for n := s.factory.r.Intn(s.profile.MaxCommentsPerPost + 1); n > 0; n-- {
				commenter := users[s.factory.r.Intn(len(users))]
				comment, err := s.factory.CreateComment(commenter, post)
				if err != nil {
					return err
				}
				if s.profile.MaxRepliesPerComment > 0 {
					for m := s.factory.r.Intn(s.profile.MaxRepliesPerComment + 1); m > 0; m-- {
						replier := users[s.factory.r.Intn(len(users))]
						if _, err := s.factory.CreateReply(replier, comment); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

// ReconcileCounters recomputes every seeded post's counter from the
// detail tables and returns how many were visited.
func (s *Seeder) ReconcileCounters(ctx context.Context, posts []*models.Post) (int, error) {
	for i, post := range posts {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.counterRepo.Recount(ctx, post.ID); err != nil {
			return i, err
		}
	}
	return len(posts), nil
}
