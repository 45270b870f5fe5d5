package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

func seedNamedEvent(t *testing.T, db *gorm.DB, title, artist string, start time.Time) *domain.Event {
	t.Helper()
	ev := &domain.Event{
		KopisID:   "PF" + uuid.NewString()[:8],
		Title:     title,
		Artist:    artist,
		StartDate: start,
	}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

func TestEvent_Get(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db)
	svc := &EventService{DB: db}

	got, err := svc.Get(context.Background(), ev.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.KopisID != ev.KopisID {
		t.Fatalf("wrong event: %+v", got)
	}

	if _, err := svc.Get(context.Background(), ev.ID+100); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEvent_ListPage_SearchMatchesTitleArtistVenue(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	seedNamedEvent(t, db, "Winter Ballad Night", "Kim Artist", now)
	seedNamedEvent(t, db, "Rock Festival", "Ballad Crew", now)
	third := seedNamedEvent(t, db, "Jazz Evening", "Trio", now)
	third.Venue = "Ballad Hall"
	if err := db.Save(third).Error; err != nil {
		t.Fatalf("save: %v", err)
	}
	seedNamedEvent(t, db, "Unrelated", "Nobody", now)
	svc := &EventService{DB: db}

	page, err := svc.ListPage(context.Background(), EventListOptions{Search: "ballad", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || len(page.Events) != 3 {
		t.Fatalf("expected 3 matches, got total=%d len=%d", page.Total, len(page.Events))
	}
}

func TestEvent_ListPage_Sorts(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 5, 1, 19, 30, 0, 0, time.UTC)
	seedNamedEvent(t, db, "Bravo", "a", base.AddDate(0, 1, 0))
	seedNamedEvent(t, db, "Alpha", "a", base)
	seedNamedEvent(t, db, "Charlie", "a", base.AddDate(0, 2, 0))
	svc := &EventService{DB: db}
	ctx := context.Background()

	byName, err := svc.ListPage(ctx, EventListOptions{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if byName.Events[0].Title != "Alpha" || byName.Events[2].Title != "Charlie" {
		t.Fatalf("default sort should be title asc, got %s..%s", byName.Events[0].Title, byName.Events[2].Title)
	}

	latest, err := svc.ListPage(ctx, EventListOptions{Sort: "latest", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}
	if latest.Events[0].Title != "Charlie" {
		t.Fatalf("latest sort should lead with newest start_date, got %s", latest.Events[0].Title)
	}
}

func TestEvent_ListPage_Pagination(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	titles := []string{"e1", "e2", "e3", "e4", "e5"}
	for _, title := range titles {
		seedNamedEvent(t, db, title, "a", now)
	}
	svc := &EventService{DB: db}

	page, err := svc.ListPage(context.Background(), EventListOptions{Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || page.Page != 3 {
		t.Fatalf("paging metadata: %+v", page)
	}
	if len(page.Events) != 1 || page.Events[0].Title != "e5" {
		t.Fatalf("expected last page to hold e5, got %+v", page.Events)
	}
}
