package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wayfarer/internal/models/db_models"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, session *db_models.TripSession) error
	GetSessionByID(ctx context.Context, id uuid.UUID) (*db_models.TripSession, error)
	UpdateSession(ctx context.Context, session *db_models.TripSession) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *db_models.TripSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*db_models.TripSession, error) {
	var session db_models.TripSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) UpdateSession(ctx context.Context, session *db_models.TripSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
