package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PlaceEmbedding caches a discovered place together with an embedding of its
// name and rationale, so later sessions for the same destination can seed
// discovery from places that matched similar interests.
type PlaceEmbedding struct {
	PlaceID     string `gorm:"primaryKey;column:place_id"`
	Name        string
	Destination string `gorm:"index"`
	Lat         float64
	Lng         float64
	Summary     string
	Tags        pq.StringArray  `gorm:"type:text[]"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}
