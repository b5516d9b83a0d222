package entity

// Product is one row of the product details dataset (d_product in the star schema).
type Product struct {
	ID          string // unique product identifier
	Description string
	Group       string // product category or group
}
