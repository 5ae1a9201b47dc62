// Package seed creates demo and test data for the application database.
// Intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db      *gorm.DB
	profile Profile
	r       *rand.Rand

	// bcrypt of the shared demo password, computed once
	passwordHash string
}

var genders = []string{"male", "female"}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, profile Profile) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	f := &Factory{
		db:      db,
		profile: profile,
		//nolint:gosec // weak randomness is fine for seeding
		r: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if profile.SkipBcrypt {
		f.passwordHash = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		f.passwordHash = string(hashed)
	}
	return f
}

// pastTime spreads timestamps over the profile's MaxDays window.
func (f *Factory) pastTime() time.Time {
	maxDays := f.profile.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.r.Intn(maxDays))*24*time.Hour +
		time.Duration(f.r.Intn(24))*time.Hour +
		time.Duration(f.r.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))

	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		Password:     f.passwordHash,
		FullName:     first + " " + last,
		Bio:          gofakeit.Sentence(10),
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Gender:       genders[f.r.Intn(len(genders))],
		DateOfBirth:  gofakeit.DateRange(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2004, 12, 31, 0, 0, 0, 0, time.UTC)),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user,
// sometimes with media attachments, and seeds its zeroed counter row.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
		UserID:    user.ID,
		CreatedAt: f.pastTime(),
	}

	for _, override := range overrides {
		override(post)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		// roughly a third of posts carry an image
		if f.r.Float64() < 0.35 {
			media := &models.Media{
				PostID:    post.ID,
				FileURL:   fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
				ObjectKey: fmt.Sprintf("seed/%s.jpg", gofakeit.UUID()),
				MediaType: "image/jpeg",
			}
			if err := tx.Create(media).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.PostCounter{PostID: post.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on the provided post by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(8),
		UserID:    user.ID,
		PostID:    post.ID,
		CreatedAt: f.pastTime(),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReply persists a reply under the provided comment.
func (f *Factory) CreateReply(user *models.User, comment *models.Comment) (*models.Reply, error) {
	reply := &models.Reply{
		Content:   gofakeit.Sentence(6),
		UserID:    user.ID,
		CommentID: comment.ID,
		CreatedAt: f.pastTime(),
	}
	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// CreateReaction persists a reaction of a random type from user on post.
func (f *Factory) CreateReaction(user *models.User, post *models.Post) error {
	reaction := &models.Reaction{
		PostID:    post.ID,
		UserID:    user.ID,
		Type:      models.ReactionTypes[f.r.Intn(len(models.ReactionTypes))],
		CreatedAt: f.pastTime(),
	}
	return f.db.Create(reaction).Error
}

// CreateShare persists a share from user on post.
func (f *Factory) CreateShare(user *models.User, post *models.Post) error {
	share := &models.Share{
		PostID:    post.ID,
		UserID:    user.ID,
		CreatedAt: f.pastTime(),
	}
	return f.db.Create(share).Error
}

// CreateFriendship persists a friend request between two users in the
// given lifecycle state.
func (f *Factory) CreateFriendship(sender, receiver *models.User, status string) error {
	request := &models.FriendRequest{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Status:     status,
	}
	return f.db.Create(request).Error
}
