// Package services – ExpService
//
// This file implements the experience/level progression mechanic. Activity
// earns base exp that is shrunk by a per-level diminishing-return multiplier,
// added to the user's balance, and rolled over into levels at a fixed
// threshold, all committed atomically against the user row. Level-ups emit
// a best-effort notice notification after the commit.
//
// Apply is always best-effort from its caller's perspective: post and
// comment creation log and discard any error instead of failing the primary
// action.
package services

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/config"
	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/repo"
)

// Activity enumerates the actions that earn experience.
type Activity string

const (
	ActivityPost    Activity = "post"
	ActivityComment Activity = "comment"
)

// ExpResult reports the outcome of one exp application.
type ExpResult struct {
	LevelUp      bool `json:"level_up"`
	CurrentLevel int  `json:"current_level"`
	GainedExp    int  `json:"gained_exp"`
}

// ExpService applies experience gain with multi-level rollover.
type ExpService struct {
	// DB is the database handle; Apply opens its own transaction per call.
	DB *gorm.DB

	// Cfg tunes decay, the per-level threshold, and the base exp table.
	Cfg config.ExpConfig

	// Notifier receives the level-up notice. May be nil in tests.
	Notifier Notifier
}

// Gain computes the exp earned for baseExp at the given level:
//
//	multiplier = 1 / (1 + decay*(level-1))
//	gain       = max(1, round(baseExp * multiplier))
//
// Levels below 1 are treated as 1, and the result never drops below 1 no
// matter how high the level climbs.
func (s *ExpService) Gain(baseExp, level int) int {
	if level < 1 {
		level = 1
	}
	multiplier := 1 / (1 + s.Cfg.DecayFactor*float64(level-1))
	gained := int(math.Round(float64(baseExp) * multiplier))
	if gained < 1 {
		gained = 1
	}
	return gained
}

// Apply looks up the base exp for activity, adds the (decayed) gain to the
// user, and rolls the balance over into levels while it meets the threshold.
// Exp and level are persisted together in a single transaction scoped to the
// user row, so concurrent applications for the same user serialize and a
// partially applied result can never be observed.
//
// On level-up a notice notification is emitted after the commit; its failure
// cannot roll the commit back.
func (s *ExpService) Apply(ctx context.Context, userID int64, activity Activity) (*ExpResult, error) {
	var baseExp int
	switch activity {
	case ActivityPost:
		baseExp = s.Cfg.PostBaseExp
	case ActivityComment:
		baseExp = s.Cfg.CommentBaseExp
	default:
		return nil, fmt.Errorf("unknown activity %q", activity)
	}

	var result ExpResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := repo.GetUserForUpdate(ctx, tx, userID)
		if err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		gained := s.Gain(baseExp, user.Level)
		user.Exp += gained

		// Multi-level rollover: one large gain may cross several thresholds.
		for user.Exp >= s.Cfg.LevelThreshold {
			user.Exp -= s.Cfg.LevelThreshold
			user.Level++
			result.LevelUp = true
		}

		result.CurrentLevel = user.Level
		result.GainedExp = gained

		return repo.UpdateUserExpLevel(ctx, tx, user.ID, user.Exp, user.Level)
	})
	if err != nil {
		return nil, err
	}

	if result.LevelUp && s.Notifier != nil {
		s.Notifier.Notify(ctx, userID, domain.NotificationNotice,
			fmt.Sprintf("You reached level %d!", result.CurrentLevel),
			"/api/users/me", nil, nil)
	}

	return &result, nil
}
