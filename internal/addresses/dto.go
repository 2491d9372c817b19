package addresses

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
)

// AddressDTO is the delivery address payload.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Recipient string    `json:"recipient"`
	Phone     string    `json:"phone"`
	Province  string    `json:"province"`
	District  string    `json:"district"`
	Ward      string    `json:"ward"`
	Street    string    `json:"street"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAddressDTO maps the persisted model.
func NewAddressDTO(address *models.Address) *AddressDTO {
	return &AddressDTO{
		ID:        address.ID,
		Recipient: address.Recipient,
		Phone:     address.Phone,
		Province:  address.Province,
		District:  address.District,
		Ward:      address.Ward,
		Street:    address.Street,
		IsDefault: address.IsDefault,
		CreatedAt: address.CreatedAt,
		UpdatedAt: address.UpdatedAt,
	}
}
