package repositories

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wayfarer/internal/models/db_models"
)

type PlaceEmbeddingRepository interface {
	UpsertPlace(ctx context.Context, place db_models.PlaceEmbedding) error
	ListNearestByVector(ctx context.Context, destination string, vector pgvector.Vector, limit int) ([]db_models.PlaceEmbedding, error)
}

type placeEmbeddingRepository struct {
	db *gorm.DB
}

func NewPlaceEmbeddingRepository(db *gorm.DB) PlaceEmbeddingRepository {
	return &placeEmbeddingRepository{db: db}
}

func (r *placeEmbeddingRepository) UpsertPlace(ctx context.Context, place db_models.PlaceEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "place_id"}}, UpdateAll: true}).
		Create(&place).Error
}

func (r *placeEmbeddingRepository) ListNearestByVector(ctx context.Context, destination string, vector pgvector.Vector, limit int) ([]db_models.PlaceEmbedding, error) {
	var results []db_models.PlaceEmbedding

	query := `
        SELECT *
        FROM place_embeddings
        WHERE destination = $2
        ORDER BY embedding <=> $1  -- cosine distance, closer to 0 is better
        LIMIT $3
    `
	if err := r.db.WithContext(ctx).Raw(query, vector.String(), destination, limit).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
