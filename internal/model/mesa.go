package model

import (
	"time"

	"github.com/google/uuid"
)

// Mesa is a physical dining table referenced by orders.
type Mesa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Etiqueta  string    `gorm:"not null"`
	Activa    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Mesa) TableName() string { return "mesas" }
