package server

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/service"
)

// publishEngagement fans one engagement event out to live feed
// watchers. The event's Seq is the counter version captured in the
// mutating transaction, so subscribers can drop stale deliveries.
//
// When Redis is available the event goes through the notifier only; the
// hub receives it back via its subscription, which keeps multi-instance
// deployments and the single-instance path on the same delivery route.
// Without Redis the hub is fed directly.
func (s *Server) publishEngagement(event *models.EngagementEvent) {
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	if event.Counter != nil && event.Seq == 0 {
		event.Seq = event.Counter.Version
	}

	if s.notifier != nil {
		if err := s.notifier.PublishEngagement(context.Background(), event); err != nil {
			log.Printf("failed to publish %s event for post %d: %v", event.Type, event.PostID, err)
		}
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event.Type, err)
		return
	}
	if s.feedHub != nil {
		s.feedHub.BroadcastPost(event.PostID, payload)
	}
}

// publishUserEvent sends a user-addressed notification (friend requests
// and the like) to all of the user's connections.
func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}

	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, string(eventJSON)); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
		return
	}
	if s.feedHub != nil {
		s.feedHub.BroadcastUser(userID, eventJSON)
	}
}

// reactionEvent translates a reaction mutation outcome into its wire
// event. A noop outcome produces nothing.
func reactionEvent(actorID uint, postID uint, result *service.ReactionResult) *models.EngagementEvent {
	if result == nil {
		return nil
	}

	event := &models.EngagementEvent{
		PostID:    postID,
		ActorID:   actorID,
		Counter:   result.Counter,
		Reaction:  result.Reaction,
		Previous:  result.PreviousType,
		ClientKey: result.ClientKey,
	}
	switch result.Outcome {
	case service.ReactionOutcomeAdded:
		event.Type = models.EventReactionAdded
	case service.ReactionOutcomeReplaced:
		event.Type = models.EventReactionReplaced
	case service.ReactionOutcomeRemoved:
		event.Type = models.EventReactionRemoved
	default:
		return nil
	}
	return event
}

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":            user.ID,
		"username":      user.Username,
		"full_name":     user.FullName,
		"profile_image": user.ProfileImage,
	}
}
