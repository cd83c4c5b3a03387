package service

import (
	"context"
	"fmt"
	"io"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/repository"
	"travelguide/pkg/cloudinary"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateAvatar(ctx context.Context, userID string, image io.Reader) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	uploader cloudinary.ImageUploader
}

// NewUserService accepts a nil uploader; avatar updates then fail with ErrUploadsDisabled.
func NewUserService(userRepo repository.UserRepository, uploader cloudinary.ImageUploader) UserService {
	return &userService{userRepo: userRepo, uploader: uploader}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &dto.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
	}, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, image io.Reader) (*dto.UserResponse, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}

	url, err := s.uploader.UploadImage(ctx, image, cloudinary.AvatarFolder, userID)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.userRepo.UpdateProfileImage(ctx, userID, url); err != nil {
		return nil, notFound(err, "user")
	}
	return s.GetProfile(ctx, userID)
}
