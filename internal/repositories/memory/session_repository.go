package memory

import (
	"context"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.SessionRepository = (*SessionRepository)(nil)

// SessionRepository is the in-memory saving-session store
type SessionRepository struct {
	store *Store
}

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()
	r.store.sessions[session.ID] = copySession(session)
	return nil
}

// FindByID finds a session by ID
func (r *SessionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return copySession(session), nil
}

// FindByUserID finds a user's sessions with optional status filter and
// pagination, most recently scheduled first
func (r *SessionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, status string, limit, offset int) ([]*models.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*models.Session
	for _, s := range r.store.sessions {
		if s.UserID != userID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		matched = append(matched, copySession(s))
	}
	sortSessionsByScheduledStartDesc(matched)

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// FindCompletedByUserID returns every COMPLETED session of a user
func (r *SessionRepository) FindCompletedByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*models.Session
	for _, s := range r.store.sessions {
		if s.UserID == userID && s.Status == models.SessionCompleted {
			matched = append(matched, copySession(s))
		}
	}
	sortSessionsByScheduledStartDesc(matched)
	return matched, nil
}

// Update replaces an existing session
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sessions[session.ID]; !ok {
		return models.ErrSessionNotFound
	}
	session.UpdatedAt = time.Now()
	r.store.sessions[session.ID] = copySession(session)
	return nil
}
