package entity

import "time"

// Order origin codes as they appear in the pick data.
const (
	OriginStore    int16 = 46 // store order
	OriginCustomer int16 = 48 // customer order
)

// Pick is one staged pick operation. PickVolume keeps its raw sign here:
// zero and negative volumes are classified during curation, never dropped
// at staging time.
type Pick struct {
	ProductID        string
	WarehouseSection string
	Origin           int16 // 46 = store order, 48 = customer order
	OrderNumber      string
	PositionInOrder  string
	PickVolume       int
	QuantityUnit     string
	PickTimestamp    time.Time
	PickDate         time.Time // date part of PickTimestamp
}
