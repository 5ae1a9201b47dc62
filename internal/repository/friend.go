package repository

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friend request data operations
type FriendRepository interface {
	Create(ctx context.Context, req *models.FriendRequest) error
	GetByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	GetBetween(ctx context.Context, userA, userB uint) (*models.FriendRequest, error)
	Accept(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	ListPendingForReceiver(ctx context.Context, receiverID uint) ([]*models.FriendRequest, error)
	ListFriendIDs(ctx context.Context, userID uint) ([]uint, error)
	ListFriends(ctx context.Context, userID uint) ([]*models.User, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, req *models.FriendRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetBetween finds the request between two users regardless of which side
// sent it. Friendship is undirected.
func (r *friendRepository) GetBetween(ctx context.Context, userA, userB uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRepository) Accept(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("id = ?", id).
		Update("status", models.FriendStatusAccepted).Error
}

func (r *friendRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FriendRequest{}, id).Error
}

func (r *friendRepository) ListPendingForReceiver(ctx context.Context, receiverID uint) ([]*models.FriendRequest, error) {
	var reqs []*models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ? AND status = ?", receiverID, models.FriendStatusPending).
		Order("sent_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *friendRepository) ListFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var reqs []*models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?",
			userID, userID, models.FriendStatusAccepted).
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(reqs))
	for _, req := range reqs {
		if req.SenderID == userID {
			ids = append(ids, req.ReceiverID)
		} else {
			ids = append(ids, req.SenderID)
		}
	}
	return ids, nil
}

func (r *friendRepository) ListFriends(ctx context.Context, userID uint) ([]*models.User, error) {
	ids, err := r.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	var users []*models.User
	if len(ids) == 0 {
		return users, nil
	}
	err = r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("username ASC").
		Find(&users).Error
	return users, err
}
