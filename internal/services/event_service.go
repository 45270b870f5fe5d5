package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/config"
	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/repo"
	"github.com/stagemate/go-community-backend/internal/utils"
)

// EventListOptions narrows and orders an event listing.
type EventListOptions struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// EventPage is one page of events plus paging metadata.
type EventPage struct {
	Events     []domain.Event `json:"events"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// EventService implements read access to the synced event catalog.
type EventService struct {
	DB *gorm.DB

	// MaxPageSize caps the page size accepted from clients.
	MaxPageSize int
}

func (s *EventService) maxPageSize() int {
	if s.MaxPageSize > 0 {
		return s.MaxPageSize
	}
	return config.DefaultMaxPageSize
}

// Get fetches a single event by id.
func (s *EventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	ev, err := repo.GetEvent(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return ev, nil
}

// ListPage returns one page of events matching the options.
func (s *EventService) ListPage(ctx context.Context, opts EventListOptions) (*EventPage, error) {
	page, size := utils.ClampPage(opts.Page, opts.PageSize, s.maxPageSize())
	f := repo.EventFilter{
		Search: strings.TrimSpace(opts.Search),
		Sort:   opts.Sort,
	}
	total, err := repo.CountEvents(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	events, err := repo.ListEventsPage(ctx, s.DB, f, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	return &EventPage{
		Events:     events,
		Total:      total,
		Page:       page,
		TotalPages: utils.TotalPages(total, size),
	}, nil
}
