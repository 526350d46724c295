package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a custody record: an address, the private key it derives from,
// and the user holding it. PrivateKey is never emitted by default encoding.
type Wallet struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Address    string    `json:"address" gorm:"uniqueIndex;not null"`
	PrivateKey string    `json:"-" gorm:"not null"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `json:"createdAt"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID"`
}
