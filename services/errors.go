package services

import (
	"errors"
	"fmt"
)

// Base error categories. Concrete errors below wrap one of these so that
// callers can branch with errors.Is on either the category or the exact
// condition.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("already exists")
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrFriendshipNotFound   = fmt.Errorf("friendship %w", ErrNotFound)
	ErrRequestNotFound      = fmt.Errorf("friend request %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)

	ErrSelfFriendRequest = fmt.Errorf("%w: cannot send a friend request to yourself", ErrForbidden)
	ErrNotSender         = fmt.Errorf("%w: only the sender may create their own request", ErrForbidden)
	ErrNotReceiver       = fmt.Errorf("%w: only the receiver may resolve a request", ErrForbidden)
	ErrNotParticipant    = fmt.Errorf("%w: not a participant of this request", ErrForbidden)
	ErrSelfFollow        = fmt.Errorf("%w: cannot follow yourself", ErrForbidden)

	ErrAlreadyFriends   = fmt.Errorf("friendship %w", ErrConflict)
	ErrRequestExists    = fmt.Errorf("pending friend request %w", ErrConflict)
	ErrAlreadyFollowing = fmt.Errorf("follow %w", ErrConflict)
	ErrNotFollowing     = fmt.Errorf("follow %w", ErrNotFound)
)
