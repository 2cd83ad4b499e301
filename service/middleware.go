package service

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// BindDomain restrict the service to the allowed host list. An empty
// list allows every host.
func BindDomain(allows []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(allows) == 0 {
			c.Next()
			return
		}

		for _, allow := range allows {
			if strings.Contains(c.Request.Host, allow) {
				c.Next()
				return
			}
		}

		c.JSON(403, gin.H{
			"code":    403,
			"message": fmt.Sprintf("%s is not allowed", c.Request.Host),
		})
		c.Abort()
	}
}
