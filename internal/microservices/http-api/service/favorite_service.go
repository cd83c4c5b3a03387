package service

import (
	"context"
	"fmt"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/repository"
)

type FavoriteService interface {
	Add(ctx context.Context, userID string, locationID int64) error
	Remove(ctx context.Context, userID string, locationID int64) error
	List(ctx context.Context, userID string) ([]dto.FavoriteResponse, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	locationRepo repository.LocationRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, locationRepo repository.LocationRepository) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo, locationRepo: locationRepo}
}

func (s *favoriteService) Add(ctx context.Context, userID string, locationID int64) error {
	if _, err := s.locationRepo.GetByID(ctx, locationID); err != nil {
		return notFound(err, "location")
	}
	if err := s.favoriteRepo.Add(ctx, userID, locationID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID string, locationID int64) error {
	removed, err := s.favoriteRepo.Remove(ctx, userID, locationID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if !removed {
		return fmt.Errorf("favorite: %w", ErrNotFound)
	}
	return nil
}

func (s *favoriteService) List(ctx context.Context, userID string) ([]dto.FavoriteResponse, error) {
	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FavoriteResponse, 0, len(favorites))
	for i := range favorites {
		out = append(out, dto.FromModelToFavoriteResponse(&favorites[i]))
	}
	return out, nil
}
