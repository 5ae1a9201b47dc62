package service

import (
	"context"
	"errors"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"

	"gorm.io/gorm"
)

// FriendService manages the undirected friendship graph built from
// friend requests.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{friendRepo: friendRepo, userRepo: userRepo}
}

// SendRequest creates a pending request. A request in either direction,
// pending or accepted, blocks a new one.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, models.NewValidationError("You cannot send a friend request to yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", receiverID)
		}
		return nil, err
	}

	existing, err := s.friendRepo.GetBetween(ctx, senderID, receiverID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.FriendStatusAccepted {
			return nil, models.NewConflictError("You are already friends")
		}
		return nil, models.NewConflictError("A friend request already exists")
	}

	req := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendStatusPending,
	}
	if err := s.friendRepo.Create(ctx, req); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("A friend request already exists")
		}
		return nil, err
	}
	return s.friendRepo.GetByID(ctx, req.ID)
}

// AcceptRequest marks the request accepted. Only the receiver may accept.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error) {
	req, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", requestID)
		}
		return nil, err
	}
	if req.ReceiverID != userID {
		return nil, models.NewUnauthorizedError("Only the receiver can accept a friend request")
	}
	if req.Status == models.FriendStatusAccepted {
		return req, nil
	}

	if err := s.friendRepo.Accept(ctx, requestID); err != nil {
		return nil, err
	}
	req.Status = models.FriendStatusAccepted
	return req, nil
}

// RemoveRequest deletes the request row. The receiver uses it to reject,
// the sender to cancel, and either side to unfriend.
func (s *FriendService) RemoveRequest(ctx context.Context, userID, requestID uint) error {
	req, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Friend request", requestID)
		}
		return err
	}
	if req.SenderID != userID && req.ReceiverID != userID {
		return models.NewUnauthorizedError("You are not part of this friend request")
	}
	return s.friendRepo.Delete(ctx, requestID)
}

// Unfriend removes an accepted friendship between the user and another.
func (s *FriendService) Unfriend(ctx context.Context, userID, otherID uint) error {
	req, err := s.friendRepo.GetBetween(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Friendship", otherID)
		}
		return err
	}
	if req.Status != models.FriendStatusAccepted {
		return models.NewValidationError("You are not friends with this user")
	}
	return s.friendRepo.Delete(ctx, req.ID)
}

func (s *FriendService) ListPending(ctx context.Context, userID uint) ([]*models.FriendRequest, error) {
	return s.friendRepo.ListPendingForReceiver(ctx, userID)
}

func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.friendRepo.ListFriends(ctx, userID)
}

// AreFriends reports whether an accepted friendship exists between two
// users, in either direction.
func (s *FriendService) AreFriends(ctx context.Context, userA, userB uint) (bool, error) {
	req, err := s.friendRepo.GetBetween(ctx, userA, userB)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return req.Status == models.FriendStatusAccepted, nil
}
