package session

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionHasSettlement = errors.New("session has a linked settlement sheet and cannot be deleted")
	ErrCoordinatorRole      = errors.New("assigned coordinator does not hold the COORDINATOR role")
	ErrTrainerRole          = errors.New("one or more assigned trainers do not hold the TRAINER role")
)
