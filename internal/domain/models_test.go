package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestReactionKind_Valid(t *testing.T) {
	if !ReactionLike.Valid() || !ReactionDislike.Valid() {
		t.Fatal("known reaction kinds must be valid")
	}
	if ReactionKind("love").Valid() {
		t.Fatal(`ReactionKind("love") must be invalid`)
	}
	if ReactionKind("").Valid() {
		t.Fatal("empty reaction kind must be invalid")
	}
}

func TestNotificationType_Valid(t *testing.T) {
	for _, typ := range []NotificationType{
		NotificationComment, NotificationEvent, NotificationPostLike,
		NotificationPostDislike, NotificationNotice,
	} {
		if !typ.Valid() {
			t.Fatalf("%q must be valid", typ)
		}
	}
	if NotificationType("carrier_pigeon").Valid() {
		t.Fatal(`NotificationType("carrier_pigeon") must be invalid`)
	}
}

func TestValidPostCategory(t *testing.T) {
	for _, c := range PostCategories {
		if !ValidPostCategory(c) {
			t.Fatalf("%q must be a valid category", c)
		}
	}
	if ValidPostCategory("gossip") {
		t.Fatal(`"gossip" must be rejected`)
	}
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(User{}).TableName():         "users",
		(RefreshToken{}).TableName(): "refresh_tokens",
		(Event{}).TableName():        "events",
		(Bookmark{}).TableName():     "bookmark",
		(Post{}).TableName():         "posts",
		(Comment{}).TableName():      "comments",
		(Reaction{}).TableName():     "reactions",
		(Notification{}).TableName(): "notifications",
		(Report{}).TableName():       "reports",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	models := []any{
		&User{}, &RefreshToken{}, &Event{}, &Bookmark{},
		&Post{}, &Comment{}, &Reaction{}, &Notification{}, &Report{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range models {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	// Uniqueness constraints from tags exist.
	if !m.HasIndex(&Bookmark{}, "uq_bookmark_user_event") {
		t.Fatal("expected unique index uq_bookmark_user_event on bookmark")
	}
	if !m.HasIndex(&Reaction{}, "uq_reaction_post_user") {
		t.Fatal("expected unique index uq_reaction_post_user on reactions")
	}
	if !m.HasIndex(&Report{}, "uq_report_post_user") {
		t.Fatal("expected unique index uq_report_post_user on reports")
	}

	now := time.Now().UTC()

	u := &User{Email: "cascade@test.io", Nickname: "c", Provider: "kakao", ProviderID: "k-1", Level: 1, ReliabilityScore: 50}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	ev := &Event{KopisID: "PF100", Title: "Cascade Night", StartDate: now, EndDate: now}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("insert event: %v", err)
	}
	p := &Post{EventID: ev.ID, UserID: u.ID, Category: "free", Title: "t", Content: "c"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("insert post: %v", err)
	}
	cm := &Comment{PostID: p.ID, UserID: u.ID, Content: "hi"}
	if err := db.Create(cm).Error; err != nil {
		t.Fatalf("insert comment: %v", err)
	}
	rx := &Reaction{PostID: p.ID, UserID: u.ID, Kind: ReactionLike}
	if err := db.Create(rx).Error; err != nil {
		t.Fatalf("insert reaction: %v", err)
	}

	// CASCADE: deleting a post removes its comments and reactions.
	if err := db.Unscoped().Delete(&Post{}, "post_id = ?", p.ID).Error; err != nil {
		t.Fatalf("delete post: %v", err)
	}
	var cnt int64
	if err := db.Model(&Comment{}).Where("post_id = ?", p.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected comments to cascade-delete with post, got %d", cnt)
	}
	if err := db.Model(&Reaction{}).Where("post_id = ?", p.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count reactions: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected reactions to cascade-delete with post, got %d", cnt)
	}

	// Duplicate reaction per (post, user) violates the unique index.
	p2 := &Post{EventID: ev.ID, UserID: u.ID, Category: "free", Title: "t2", Content: "c2"}
	if err := db.Create(p2).Error; err != nil {
		t.Fatalf("insert second post: %v", err)
	}
	if err := db.Create(&Reaction{PostID: p2.ID, UserID: u.ID, Kind: ReactionLike}).Error; err != nil {
		t.Fatalf("insert reaction on second post: %v", err)
	}
	if err := db.Create(&Reaction{PostID: p2.ID, UserID: u.ID, Kind: ReactionDislike}).Error; err == nil {
		t.Fatal("expected duplicate reaction insert to fail")
	}
}
