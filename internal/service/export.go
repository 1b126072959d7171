package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/repo"
)

// ExportService assembles a flat export of a user's trips and activities.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per activity across all trips of ownerID, in
// List order and then itinerary order. Trips with no activities contribute
// one row with empty activity fields.
func (s *ExportService) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range trips {
		base := domain.ExportRow{
			TripID:        t.ID.String(),
			Destination:   t.Destination,
			Origin:        t.Origin,
			TripStartDate: t.StartDate.Format(domain.DateLayout),
			TripEndDate:   t.EndDate.Format(domain.DateLayout),
			Travelers:     t.Travelers,
			Style:         t.Style,
			TripBudget:    t.Budget,
		}

		emitted := false
		for _, day := range t.Days {
			for _, a := range day.Activities {
				row := base
				row.Date = day.Date
				row.ActivityType = a.Type
				row.ActivityName = a.Name
				row.Time = a.Time
				row.Link = a.Link
				if a.Price != nil {
					p := *a.Price
					row.Price = &p
				}
				rows = append(rows, row)
				emitted = true
			}
		}
		if !emitted {
			rows = append(rows, base)
		}
	}
	return rows, nil
}
