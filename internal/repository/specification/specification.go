package specification

import "gorm.io/gorm"

// Specification narrows or shapes a query. Repositories apply them in the order given,
// so ordering and pagination specs belong after filters.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
