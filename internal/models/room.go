package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoomStatusVacant   = "VACANT"
	RoomStatusOccupied = "OCCUPIED"
)

type Room struct {
	ID          int             `json:"id"`
	RoomNumber  string          `json:"room_number"`
	Floor       int             `json:"floor"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateRoomRequest struct {
	RoomNumber  string  `json:"room_number" validate:"required"`
	Floor       int     `json:"floor" validate:"gte=0"`
	MonthlyRent float64 `json:"monthly_rent" validate:"gte=0"`
}
