// Package domain defines the persistence models for users, events, posts,
// reactions, bookmarks, and notifications. These types are mapped with GORM
// and form the core data layer of the community backend.
package domain

import (
	"time"
)

// ReactionKind enumerates the two mutually exclusive reaction states a user
// can hold on a post. The absence of a Reaction row means "no reaction".
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Valid reports whether k is one of the known reaction kinds.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// NotificationType enumerates the notification categories a user can receive.
type NotificationType string

const (
	NotificationComment     NotificationType = "comment"
	NotificationEvent       NotificationType = "event"
	NotificationPostLike    NotificationType = "post_like"
	NotificationPostDislike NotificationType = "post_dislike"
	NotificationNotice      NotificationType = "notice"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationComment, NotificationEvent, NotificationPostLike,
		NotificationPostDislike, NotificationNotice:
		return true
	}
	return false
}

// PostCategories is the fixed set of board categories a post may belong to.
var PostCategories = []string{"free", "review", "companion", "info", "trade"}

// ValidPostCategory reports whether c is a known board category.
func ValidPostCategory(c string) bool {
	for _, v := range PostCategories {
		if v == c {
			return true
		}
	}
	return false
}

// User is an account created through social login. Exp and Level are mutated
// only by the exp service; the two values are always written together.
//
// Fields:
//   - Provider / ProviderID: third-party identity linkage (kakao, naver, google).
//   - Email: unique across all providers.
//   - Exp / Level: engagement progression state (exp >= 0, level >= 1).
//   - ReliabilityScore: community trust score, seeded at 50.
//   - IsEmailSub / IsEventsNotificationSub / IsPostsNotificationSub:
//     independent notification opt-ins.
type User struct {
	ID         int64  `json:"id"          gorm:"column:user_id;primaryKey;autoIncrement"`
	Email      string `json:"email"       gorm:"type:varchar(255);not null;uniqueIndex"`
	Nickname   string `json:"nickname"    gorm:"type:varchar(30);not null"`
	Provider   string `json:"provider"    gorm:"type:varchar(32);not null;index:idx_users_provider,priority:1"`
	ProviderID string `json:"provider_id" gorm:"type:varchar(255);not null;index:idx_users_provider,priority:2"`

	Exp              int `json:"exp"               gorm:"not null;default:0"`
	Level            int `json:"level"             gorm:"not null;default:1"`
	ReliabilityScore int `json:"reliability_score" gorm:"not null;default:50"`

	IsEmailSub              bool `json:"is_email_sub"               gorm:"not null;default:false"`
	IsEventsNotificationSub bool `json:"is_events_notification_sub" gorm:"not null;default:false"`
	IsPostsNotificationSub  bool `json:"is_posts_notification_sub"  gorm:"not null;default:false"`

	IsAdmin   bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// RefreshToken is a long-lived credential persisted per device. A user may
// hold several at once; logout deletes the matching row.
type RefreshToken struct {
	ID        int64     `json:"id"      gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-"       gorm:"type:varchar(512);not null;index"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for RefreshToken.
func (RefreshToken) TableName() string { return "refresh_tokens" }

// Event is a live performance imported from the KOPIS catalogue. KopisID is
// the upstream identifier and the upsert key for the sync job.
type Event struct {
	ID      int64  `json:"event_id" gorm:"column:event_id;primaryKey;autoIncrement"`
	KopisID string `json:"kopis_id" gorm:"type:varchar(50);not null;uniqueIndex"`

	Title  string `json:"title"  gorm:"type:varchar(255);not null;index"`
	Artist string `json:"artist" gorm:"type:varchar(255)"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Venue string `json:"venue" gorm:"type:varchar(255)"`
	Area  string `json:"area"  gorm:"type:varchar(255)"`

	// Free-form strings upstream: "만 7세 이상", "VIP석 150,000원", "금(19:30)".
	Age   string `json:"age"   gorm:"type:varchar(255)"`
	Price string `json:"price" gorm:"type:varchar(255)"`
	Time  string `json:"time"  gorm:"type:varchar(255)"`

	Poster    string `json:"poster"     gorm:"type:varchar(255)"`
	RelateURL string `json:"relate_url" gorm:"type:varchar(500)"`
	Host      string `json:"host"       gorm:"type:varchar(255)"`
	Genre     string `json:"genre"      gorm:"type:varchar(255);default:'대중음악'"`

	UpdateDate time.Time `json:"update_date"`
}

// TableName returns the database table name for Event.
func (Event) TableName() string { return "events" }

// Bookmark marks an event as followed by a user; at most one per (user, event).
type Bookmark struct {
	ID        int64     `json:"bookmark_id" gorm:"column:bookmark_id;primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id"     gorm:"not null;uniqueIndex:uq_bookmark_user_event,priority:1"`
	EventID   int64     `json:"event_id"    gorm:"not null;uniqueIndex:uq_bookmark_user_event,priority:2;index"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Event Event `json:"-" gorm:"foreignKey:EventID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Bookmark.
func (Bookmark) TableName() string { return "bookmark" }

// Post is a board entry attached to an event.
//
// LikeCount and DislikeCount are denormalized mirrors of the Reaction rows on
// this post. The reaction service is the only writer of the two counters and
// always applies them as relative deltas inside the same transaction that
// touches the Reaction row, so the counters never drift from the rows they
// summarize. Views is likewise bumped with a relative update.
type Post struct {
	ID      int64 `json:"post_id"  gorm:"column:post_id;primaryKey;autoIncrement"`
	EventID int64 `json:"event_id" gorm:"not null;index"`
	UserID  int64 `json:"user_id"  gorm:"not null;index"`

	Category string `json:"category" gorm:"type:varchar(30);not null;index"`
	Title    string `json:"title"    gorm:"type:varchar(255);not null"`
	Content  string `json:"content"  gorm:"type:text;not null"`

	LikeCount    int `json:"like"    gorm:"not null;default:0"`
	DislikeCount int `json:"dislike" gorm:"not null;default:0"`
	Views        int `json:"views"   gorm:"not null;default:0"`

	ImageURL string `json:"image_url,omitempty" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  User  `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Event Event `json:"-" gorm:"foreignKey:EventID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

// Comment is a reply on a post.
type Comment struct {
	ID      int64 `json:"comment_id" gorm:"column:comment_id;primaryKey;autoIncrement"`
	PostID  int64 `json:"post_id"    gorm:"not null;index"`
	UserID  int64 `json:"user_id"    gorm:"not null;index"`
	Content string `json:"content"   gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Reaction is the source of truth for a user's like/dislike on a post.
// The unique (post_id, user_id) index enforces at most one row per pair;
// a concurrent duplicate insert surfaces as a constraint violation that the
// reaction service maps to a retryable conflict.
type Reaction struct {
	ID     int64        `json:"id"      gorm:"primaryKey;autoIncrement"`
	PostID int64        `json:"post_id" gorm:"not null;uniqueIndex:uq_reaction_post_user,priority:1"`
	UserID int64        `json:"user_id" gorm:"not null;uniqueIndex:uq_reaction_post_user,priority:2;index"`
	Kind   ReactionKind `json:"kind"    gorm:"type:varchar(10);not null;check:kind IN ('like','dislike')"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Reaction.
func (Reaction) TableName() string { return "reactions" }

// Notification is a best-effort message delivered to a user's inbox.
// PostID and EventID are optional back-references for deep links.
type Notification struct {
	ID      int64            `json:"notification_id" gorm:"column:notification_id;primaryKey;autoIncrement"`
	UserID  int64            `json:"user_id"  gorm:"not null;index"`
	PostID  *int64           `json:"post_id,omitempty"  gorm:"index"`
	EventID *int64           `json:"event_id,omitempty" gorm:"index"`
	Type    NotificationType `json:"type"     gorm:"type:varchar(20);not null;default:'notice'"`

	IsRead    bool      `json:"is_read"    gorm:"not null;default:false"`
	Message   string    `json:"message"    gorm:"type:varchar(255);not null"`
	RelateURL string    `json:"relate_url" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// Report flags a post for moderation; at most one per (post, user).
type Report struct {
	ID        int64     `json:"report_id" gorm:"column:report_id;primaryKey;autoIncrement"`
	PostID    int64     `json:"post_id"   gorm:"not null;uniqueIndex:uq_report_post_user,priority:1"`
	UserID    int64     `json:"user_id"   gorm:"not null;uniqueIndex:uq_report_post_user,priority:2"`
	Reason    string    `json:"reason"    gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }
