package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")

	ErrNotFound        = errors.New("not found")
	ErrAlreadyLiked    = errors.New("already liked")
	ErrUploadsDisabled = errors.New("image uploads are not configured")
)

// notFound turns a missing-row error into ErrNotFound naming the entity.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return err
}
