package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/models"
	"travelguide/internal/microservices/http-api/repository"
	"travelguide/pkg/cloudinary"
)

type LocationService interface {
	// Create stores the location and announces it to every other user.
	// image may be nil.
	Create(ctx context.Context, ownerID string, req dto.CreateLocationRequest, image io.Reader) (*dto.LocationResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.LocationResponse, error)
	List(ctx context.Context, category string, page, pageSize int) (*dto.Paginated[dto.LocationResponse], error)
}

type locationService struct {
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	uploader     cloudinary.ImageUploader
	notifier     Notifier
}

func NewLocationService(
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	uploader cloudinary.ImageUploader,
	notifier Notifier,
) LocationService {
	return &locationService{
		locationRepo: locationRepo,
		userRepo:     userRepo,
		uploader:     uploader,
		notifier:     notifier,
	}
}

func (s *locationService) Create(ctx context.Context, ownerID string, req dto.CreateLocationRequest, image io.Reader) (*dto.LocationResponse, error) {
	if image != nil && s.uploader == nil {
		return nil, ErrUploadsDisabled
	}

	location := &models.Location{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	// upload after insert so the public id can be the location id
	if image != nil {
		url, err := s.uploader.UploadImage(ctx, image, cloudinary.LocationFolder, strconv.FormatInt(location.ID, 10))
		if err != nil {
			return nil, s.discard(ctx, location.ID, fmt.Errorf("upload location image: %w", err))
		}
		if err := s.locationRepo.UpdateImage(ctx, location.ID, url); err != nil {
			return nil, s.discard(ctx, location.ID, fmt.Errorf("save location image: %w", err))
		}
		location.ImageURL = url
	}

	evt := actorEvent(ctx, s.userRepo, ownerID, models.NotificationNewLocation)
	evt.Payload.LocationID = location.ID
	evt.Payload.LocationName = location.Name
	evt.Payload.LocationImage = location.ImageURL
	evt.Payload.Text = location.Description
	resp := dto.FromModelToLocationResponse(location)
	resp.OwnerName = evt.ActorName
	evt.Payload.Entity = resp
	s.notifier.Dispatch(evt)

	return resp, nil
}

// discard removes a location whose creation failed part way, so a failed
// request leaves no row behind. The request context may already be done.
func (s *locationService) discard(ctx context.Context, id int64, cause error) error {
	if err := s.locationRepo.Delete(context.WithoutCancel(ctx), id); err != nil {
		return errors.Join(cause, fmt.Errorf("discard location %d: %w", id, err))
	}
	return cause
}

func (s *locationService) GetByID(ctx context.Context, id int64) (*dto.LocationResponse, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "location")
	}
	return dto.FromModelToLocationResponse(location), nil
}

func (s *locationService) List(ctx context.Context, category string, page, pageSize int) (*dto.Paginated[dto.LocationResponse], error) {
	page, pageSize = dto.NormalizePage(page, pageSize)
	locations, total, err := s.locationRepo.List(ctx, category, page, pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, *dto.FromModelToLocationResponse(&locations[i]))
	}
	return dto.NewPaginated(out, int(total), page, pageSize), nil
}
