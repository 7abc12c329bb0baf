package models

import "time"

// Product is a catalog record. The catalog service owns these documents;
// the cart only ever embeds point-in-time copies of them.
type Product struct {
	ID             string            `json:"id" bson:"_id"`
	Title          string            `json:"title" bson:"title"`
	Description    string            `json:"description" bson:"description"`
	Price          float64           `json:"price" bson:"price"`
	OriginalPrice  *float64          `json:"original_price,omitempty" bson:"original_price,omitempty"`
	Brand          string            `json:"brand" bson:"brand"`
	Category       string            `json:"category" bson:"category"`
	Subcategory    string            `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Images         []string          `json:"images" bson:"images"`
	Rating         float64           `json:"rating" bson:"rating"`
	ReviewCount    int               `json:"review_count" bson:"review_count"`
	InStock        bool              `json:"in_stock" bson:"in_stock"`
	StockQuantity  int               `json:"stock_quantity" bson:"stock_quantity"`
	Tags           []string          `json:"tags" bson:"tags"`
	Specifications map[string]string `json:"specifications,omitempty" bson:"specifications,omitempty"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" bson:"updated_at"`
}

// Clone returns a deep copy. Embedded snapshots must not share slices or
// maps with the catalog record they were copied from.
func (p Product) Clone() Product {
	out := p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		out.OriginalPrice = &v
	}
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	if p.Specifications != nil {
		out.Specifications = make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			out.Specifications[k] = v
		}
	}
	return out
}
