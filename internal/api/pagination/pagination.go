// Package pagination applies the limit/offset query parameters shared by
// every list endpoint.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Apply narrows db by the request's limit and offset query parameters.
// Absent or non-positive values leave the query untouched.
func Apply(c *gin.Context, db *gorm.DB) *gorm.DB {
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		db = db.Limit(limit)
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		db = db.Offset(offset)
	}
	return db
}
