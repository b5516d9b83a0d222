package entity

// WarehouseSection describes one section of the warehouse
// (d_warehouse_section in the star schema). Abbreviation is the key the
// pick data references.
type WarehouseSection struct {
	Abbreviation  string
	Description   string
	Group         string
	PickReference string
}
