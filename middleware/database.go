package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DBKey is the gin context key under which the database handle is stored.
const DBKey = "db"

// DatabaseMiddleware injects the shared gorm DB handle into the request context.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DBKey, db)
		c.Next()
	}
}

// GetDB returns the database handle stored by DatabaseMiddleware, or nil.
func GetDB(c *gin.Context) *gorm.DB {
	val, exists := c.Get(DBKey)
	if !exists {
		return nil
	}
	db, ok := val.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}
