package model

import "time"

// Product is a catalog entry managed by admins and browsed by users.
type Product struct {
    ID          uint64    `json:"id"`          // products.id
    Name        string    `json:"name"`        // products.name
    Description *string   `json:"description"` // products.description (nullable)
    Price       float64   `json:"price"`       // products.price
    Category    string    `json:"category"`    // products.category
    Stock       uint32    `json:"stock"`       // products.stock
    ImageURL    *string   `json:"imageUrl"`    // products.image_url (nullable)
    CreatedBy   uint64    `json:"createdBy"`   // products.created_by
    CreatedAt   time.Time `json:"createdAt"`   // products.created_at
    UpdatedAt   time.Time `json:"updatedAt"`   // products.updated_at
}
