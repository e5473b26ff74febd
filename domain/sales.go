package domain

import "time"

// SaleRecord is one line of a seller's selling history.
type SaleRecord struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64    `gorm:"column:product_id;not null;index" json:"product_id"`
	SellerID  uint      `gorm:"column:seller_id;not null" json:"seller_id"`
	BuyerID   uint      `gorm:"column:buyer_id;not null" json:"buyer_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (SaleRecord) TableName() string {
	return "sales_history"
}

type ProductSales struct {
	ProductID uint64 `gorm:"column:product_id" json:"product_id"`
	TotalSold int64  `gorm:"column:total_sold" json:"total_sold"`
}

// Models lists every persisted type, in migration order.
func Models() []interface{} {
	return []interface{}{
		&Category{},
		&Company{},
		&Product{},
		&ProductReview{},
		&User{},
		&Interaction{},
		&UserPreferredCategory{},
		&UserPreferredCompany{},
		&SaleRecord{},
	}
}
