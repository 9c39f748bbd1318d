package services

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserLocker serializes all economy operations per user: wallet, points,
// session and garden mutations for one user are mutually exclusive, while
// different users proceed in parallel. One shared instance is injected into
// every service so the whole economy sits in the same lock domain.
type UserLocker struct {
	locks sync.Map // primitive.ObjectID -> *sync.Mutex
}

// NewUserLocker creates a new UserLocker
func NewUserLocker() *UserLocker {
	return &UserLocker{}
}

// Lock acquires the mutex for a user and returns the release function.
// Callers hold the lock for the whole read-compute-write sequence of one
// logical operation.
func (l *UserLocker) Lock(userID primitive.ObjectID) func() {
	v, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
