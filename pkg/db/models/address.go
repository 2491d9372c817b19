package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a delivery destination owned by a user. At most one address per
// user carries the default flag.
type Address struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Recipient string    `gorm:"column:recipient;not null"`
	Phone     string    `gorm:"column:phone;not null"`
	Province  string    `gorm:"column:province;not null"`
	District  string    `gorm:"column:district;not null"`
	Ward      string    `gorm:"column:ward;not null"`
	Street    string    `gorm:"column:street;not null"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
