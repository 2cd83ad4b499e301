package service

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nirman-app/nirman/user"
)

// guardBearerJWT reject requests without a valid session token
func guardBearerJWT(c *gin.Context) {
	tokenString := c.Request.Header.Get("Authorization")
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		if cookie, err := c.Cookie("nirman_token"); err == nil {
			tokenString = cookie
		}
	}

	if tokenString == "" {
		c.JSON(403, gin.H{"code": 403, "message": "No permission"})
		c.Abort()
		return
	}

	claims, err := user.ValidateToken(tokenString)
	if err != nil {
		c.JSON(401, gin.H{"code": 401, "message": err.Error()})
		c.Abort()
		return
	}

	c.Set("__uid", claims.UserID)
}

// guardCrossOrigin answer CORS preflights and stamp the headers
func guardCrossOrigin(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}
	c.Next()
}
