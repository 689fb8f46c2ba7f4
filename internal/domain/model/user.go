package model

import (
	"time"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 20
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the resolved per-request caller, passed explicitly into every
// service call rather than read from ambient state.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
