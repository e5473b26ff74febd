package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	FullName  string `gorm:"column:full_name;not null"`
	Email     string `gorm:"column:email;unique;not null"`
	Role      string `gorm:"column:role;default:customer"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type InteractionType string

const (
	InteractionView   InteractionType = "view"
	InteractionCart   InteractionType = "cart"
	InteractionRating InteractionType = "rating"
	InteractionBuy    InteractionType = "buy"
)

// Interaction is one entry of a user's append-only behavior log.
// CategoryID records the product category at the time of the interaction.
type Interaction struct {
	ID         uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint              `gorm:"column:user_id;not null;index" json:"user_id"`
	ProductID  uint64            `gorm:"column:product_id;not null" json:"product_id"`
	Type       InteractionType   `gorm:"column:type;type:text;not null" json:"type"`
	CategoryID *uint64           `gorm:"column:category_id" json:"category_id,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (Interaction) TableName() string {
	return "user_interactions"
}

type UserPreferredCategory struct {
	UserID     uint   `gorm:"column:user_id;primaryKey"`
	CategoryID uint64 `gorm:"column:category_id;primaryKey"`
}

func (UserPreferredCategory) TableName() string {
	return "user_preferred_categories"
}

type UserPreferredCompany struct {
	UserID    uint   `gorm:"column:user_id;primaryKey"`
	CompanyID uint64 `gorm:"column:company_id;primaryKey"`
}

func (UserPreferredCompany) TableName() string {
	return "user_preferred_companies"
}

// Preferences are the categories and companies a user declared interest in.
type Preferences struct {
	Categories []uint64 `json:"categories"`
	Companies  []uint64 `json:"companies"`
}

// UserHistory is the read model the recommendation engine consumes for one user.
type UserHistory struct {
	UserID       uint
	Interactions []Interaction
	Preferences  Preferences
}
