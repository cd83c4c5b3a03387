package service

import (
	"context"

	"travelguide/internal/microservices/http-api/models"
	"travelguide/internal/microservices/http-api/repository"
	"travelguide/internal/microservices/live"
)

// Notifier accepts notification events without blocking the caller. It is
// satisfied by *live.Dispatcher.
type Notifier interface {
	Dispatch(evt live.Event)
}

// actorEvent fills in the actor fields from the stored user. A lookup failure
// still yields a usable event with just the id.
func actorEvent(ctx context.Context, users repository.UserRepository, actorID string, typ models.NotificationType) live.Event {
	evt := live.Event{Type: typ, ActorID: actorID}
	if user, err := users.FindByID(ctx, actorID); err == nil {
		evt.ActorName = user.Username
		evt.ActorProfileImageURL = user.ProfileImageURL
	}
	return evt
}
