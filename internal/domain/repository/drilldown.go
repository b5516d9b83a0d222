package repository

import "github.com/Appy-Anand/obeta-project/internal/domain"

// DrillDown is one of the closed set of dimensions the marts can be split by.
// The analytics adapter maps each value onto whitelisted SQL fragments; user
// input never reaches the query text directly.
type DrillDown string

const (
	DrillDownProductGroup     DrillDown = "product_group"
	DrillDownOrigin           DrillDown = "origin"
	DrillDownWarehouseSection DrillDown = "warehouse_section"
)

// DrillDowns lists every supported dimension, in mart-export order.
var DrillDowns = []DrillDown{
	DrillDownProductGroup,
	DrillDownOrigin,
	DrillDownWarehouseSection,
}

// ParseDrillDown validates a query-string value. Empty input means "no
// drill-down" and returns nil.
func ParseDrillDown(s string) (*DrillDown, error) {
	if s == "" {
		return nil, nil
	}
	for _, d := range DrillDowns {
		if string(d) == s {
			return &d, nil
		}
	}
	return nil, domain.ErrInvalidDrillDown
}
