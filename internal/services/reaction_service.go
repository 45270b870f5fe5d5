// Package services – ReactionService
//
// This file implements the like/dislike toggle protocol and the counter
// invariant on posts: like_count and dislike_count always equal the number
// of reaction rows of the matching kind. Each toggle runs in a transaction
// that locks the post row (where the dialect supports it) and writes the
// counters as relative deltas, so toggles on the same post serialize while
// toggles on different posts never contend and lost updates are impossible
// either way.
//
// Transition table for toggle(post, user, target):
//
//	current \ target |  like                      |  dislike
//	-----------------+----------------------------+----------------------------
//	none             |  liked;    like+1          |  disliked; dislike+1
//	liked            |  none;     like-1          |  disliked; like-1 dislike+1
//	disliked         |  liked;    dislike-1 like+1|  none;     dislike-1
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/repo"
)

// ReactionState is the post-toggle reaction state returned to the caller.
// StateNone means the toggle removed an existing reaction.
type ReactionState string

const (
	StateLike    ReactionState = "like"
	StateDislike ReactionState = "dislike"
	StateNone    ReactionState = "none"
)

// ToggleResult carries the new state plus the counters as committed, read
// after the transaction so the caller never sees uncommitted values.
type ToggleResult struct {
	State        ReactionState `json:"state"`
	LikeCount    int           `json:"like"`
	DislikeCount int           `json:"dislike"`
}

// ReactionService owns all writes to reaction rows and post counters.
type ReactionService struct {
	// DB is the database handle; Toggle opens its own transaction per call.
	DB *gorm.DB

	// Notifier receives post_like/post_dislike notices for the post owner.
	// May be nil in tests.
	Notifier Notifier
}

// Toggle applies one transition of the reaction state machine for
// (postID, userID) toward target and returns the resulting state with the
// committed counters.
//
// Errors:
//   - ErrInvalidReaction when target is neither like nor dislike.
//   - ErrPostNotFound when the post does not exist.
//   - ErrReactionConflict when a concurrent duplicate insert raced this
//     toggle; retryable, and no counter mutation should be assumed.
//
// Side effect (outside the transaction, best-effort): when the resulting
// state is a reaction (not a removal) and the reacting user is not the post
// owner, the owner is notified.
func (s *ReactionService) Toggle(ctx context.Context, postID, userID int64, target domain.ReactionKind) (*ToggleResult, error) {
	if !target.Valid() {
		return nil, ErrInvalidReaction
	}

	var (
		ownerID int64
		state   ReactionState
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := repo.GetPostForUpdate(ctx, tx, postID)
		if err != nil {
			if isNotFound(err) {
				return ErrPostNotFound
			}
			return err
		}
		ownerID = post.UserID

		var current *domain.Reaction
		if r, err := repo.GetReaction(ctx, tx, postID, userID); err == nil {
			current = r
		} else if !isNotFound(err) {
			return err
		}

		var likeDelta, dislikeDelta int
		switch {
		case current == nil:
			// none -> target
			if err := repo.CreateReaction(ctx, tx, postID, userID, target); err != nil {
				return err
			}
			state = ReactionState(target)
			if target == domain.ReactionLike {
				likeDelta = 1
			} else {
				dislikeDelta = 1
			}

		case current.Kind == target:
			// target -> none (double-toggle removes the reaction)
			if err := repo.DeleteReaction(ctx, tx, current.ID); err != nil {
				return err
			}
			state = StateNone
			if target == domain.ReactionLike {
				likeDelta = -1
			} else {
				dislikeDelta = -1
			}

		default:
			// like <-> dislike swap
			if err := repo.UpdateReactionKind(ctx, tx, current.ID, target); err != nil {
				return err
			}
			state = ReactionState(target)
			if target == domain.ReactionLike {
				likeDelta, dislikeDelta = 1, -1
			} else {
				likeDelta, dislikeDelta = -1, 1
			}
		}

		return repo.UpdatePostCounters(ctx, tx, postID, likeDelta, dislikeDelta)
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrReactionConflict
		}
		return nil, err
	}

	// Counters are read back after the commit so the caller observes the
	// committed values, never a locked or in-flight row.
	post, err := repo.GetPost(ctx, s.DB, postID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if state != StateNone && userID != ownerID && s.Notifier != nil {
		typ := domain.NotificationPostLike
		verb := "liked"
		if state == StateDislike {
			typ = domain.NotificationPostDislike
			verb = "disliked"
		}
		pid := postID
		s.Notifier.Notify(ctx, ownerID, typ,
			fmt.Sprintf("Someone %s your post %q", verb, post.Title),
			fmt.Sprintf("/posts/%d", postID), &pid, nil)
	}

	return &ToggleResult{
		State:        state,
		LikeCount:    post.LikeCount,
		DislikeCount: post.DislikeCount,
	}, nil
}
