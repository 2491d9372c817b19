package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
)

// DiningTable is a physical table managed by the back office.
type DiningTable struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string            `gorm:"column:name;not null;uniqueIndex"`
	Seats     int               `gorm:"column:seats;not null;default:2"`
	Status    enums.TableStatus `gorm:"column:status;type:table_status;not null;default:'available'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
