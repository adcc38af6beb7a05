package service

import (
	"errors"

	"gorm.io/gorm"
)

// Service layer errors; handlers map these onto HTTP status codes.
var (
	// Invalid operations
	ErrSelfInvite           = errors.New("cannot invite yourself")
	ErrInviteNotRespondable = errors.New("invite has already been handled")
	ErrInviteNotConfirmable = errors.New("invite is not in an accepted state")

	// Missing resources
	ErrSpotNotFound    = errors.New("spot not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInviteNotFound  = errors.New("invite not found")
	ErrSessionNotFound = errors.New("meetup session not found")

	// Authorization
	ErrNotReceiver    = errors.New("only the invite receiver may respond")
	ErrNotSender      = errors.New("only the invite sender may cancel")
	ErrNotParticipant = errors.New("user is not a participant of this invite")

	// Terminal guards
	ErrAlreadyCompleted = errors.New("meetup already completed")
	ErrInviteExpired    = errors.New("invite has expired")
)

// mapNotFound translates the store's missing-row error into the appropriate
// domain sentinel, passing everything else through.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
