package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
)

// SpotService manages the spot catalog.
type SpotService interface {
	Create(ctx context.Context, spot *model.Spot) (*model.Spot, error)
	Get(ctx context.Context, spotID uuid.UUID) (*model.Spot, error)
	// ListActive returns active spots, most popular first.
	ListActive(ctx context.Context) ([]model.Spot, error)
	// ListNearby returns active spots within radiusMeters of center,
	// closest first.
	ListNearby(ctx context.Context, center geo.Coordinate, radiusMeters float64) ([]model.Spot, error)
}

type spotService struct {
	spots repo.SpotRepo
}

func NewSpotService(spots repo.SpotRepo) SpotService {
	return &spotService{spots: spots}
}

func (s *spotService) Create(ctx context.Context, spot *model.Spot) (*model.Spot, error) {
	spot.IsActive = true
	if err := s.spots.Create(ctx, spot); err != nil {
		return nil, err
	}
	return spot, nil
}

func (s *spotService) Get(ctx context.Context, spotID uuid.UUID) (*model.Spot, error) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, mapNotFound(err, ErrSpotNotFound)
	}
	return spot, nil
}

func (s *spotService) ListActive(ctx context.Context) ([]model.Spot, error) {
	return s.spots.ListActive(ctx)
}

func (s *spotService) ListNearby(ctx context.Context, center geo.Coordinate, radiusMeters float64) ([]model.Spot, error) {
	spots, err := s.spots.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		spot model.Spot
		dist float64
	}
	within := make([]scored, 0, len(spots))
	for _, spot := range spots {
		d := geo.Distance(center, spot.Coordinate())
		if d <= radiusMeters {
			within = append(within, scored{spot: spot, dist: d})
		}
	}
	sort.Slice(within, func(i, j int) bool { return within[i].dist < within[j].dist })

	out := make([]model.Spot, 0, len(within))
	for _, sc := range within {
		out = append(out, sc.spot)
	}
	return out, nil
}
