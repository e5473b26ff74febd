package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_name  TEXT NOT NULL,
//     category_id   BIGINT,
//     company_id    BIGINT,
//     normal_price  NUMERIC,
//     quantity      NUMERIC,
//     rating        NUMERIC,
//     review_count  INT DEFAULT 0,
//     is_deleted    BOOLEAN DEFAULT FALSE,
//     created_at    TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName string    `gorm:"column:product_name;type:text;not null" json:"product_name"`
	CategoryID  *uint64   `gorm:"column:category_id;index" json:"category_id"`
	CompanyID   *uint64   `gorm:"column:company_id;index" json:"company_id,omitempty"`
	NormalPrice float64   `gorm:"column:normal_price;type:numeric" json:"normal_price"`
	Quantity    float64   `gorm:"column:quantity;type:numeric" json:"quantity"`
	Rating      *float64  `gorm:"column:rating;type:numeric" json:"rating"`
	ReviewCount int       `gorm:"column:review_count;default:0" json:"review_count"`
	IsDeleted   bool      `gorm:"column:is_deleted;default:false" json:"-"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductReview is one reviewer's rating of a product.
type ProductReview struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64    `gorm:"column:product_id;not null;index" json:"product_id"`
	UserID    uint      `gorm:"column:user_id;not null" json:"user_id"`
	Rating    float64   `gorm:"column:rating;type:numeric;not null" json:"rating"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ProductReview) TableName() string {
	return "product_reviews"
}
