package models

type User struct {
	Email   string `gorm:"primaryKey"       json:"email"`
	Name    string `json:"name"`
	Role    string `gorm:"default:''"       json:"role,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Product struct {
	ID          string  `gorm:"primaryKey"  json:"id"`
	Name        string  `gorm:"not null"    json:"name"`
	Price       float64 `gorm:"not null"    json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type Purchase struct {
	ID            string  `gorm:"primaryKey"     json:"id"`
	ProductID     string  `gorm:"not null"       json:"productId"`
	ProductName   string  `json:"productName"`
	UserEmail     string  `gorm:"index;not null" json:"userEmail"`
	UserName      string  `json:"userName"`
	Price         float64 `json:"price"`
	Paid          bool    `gorm:"default:false"  json:"paid"`
	TransactionID string  `json:"transactionId,omitempty"`
}

// Payment rows are append-only: one row per confirmation, never updated.
type Payment struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	PurchaseID    string  `gorm:"index"      json:"purchaseId"`
	TransactionID string  `gorm:"not null"   json:"transactionId"`
	Price         float64 `json:"price"`
	UserEmail     string  `json:"userEmail"`
	UserName      string  `json:"userName"`
}
