package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"wayfarer/internal/infra"
	"wayfarer/internal/repositories"
)

var Module = fx.Provide(
	provideDB,
	provideSessionRepository,
	providePlaceEmbeddingRepository)

func provideDB() *gorm.DB {
	return infra.InitPostgresql()
}

func provideSessionRepository(db *gorm.DB) repositories.SessionRepository {
	return repositories.NewSessionRepository(db)
}

func providePlaceEmbeddingRepository(db *gorm.DB) repositories.PlaceEmbeddingRepository {
	return repositories.NewPlaceEmbeddingRepository(db)
}
