package model

import "time"

// Product represents a catalogue entry. Price is in integer minor currency
// units to keep all arithmetic exact.
type Product struct {
	ID        string    `json:"id" bson:"product_id"`
	Name      string    `json:"name" bson:"name"`
	Price     int64     `json:"price" bson:"price"`
	Category  string    `json:"category" bson:"category"`
	ImageRef  string    `json:"imageRef,omitempty" bson:"image_ref,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
