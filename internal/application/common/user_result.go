package common

import "github.com/google/uuid"

// UserResult never carries the password.
type UserResult struct {
	Id    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type MessageResult struct {
	Message string `json:"message"`
}
