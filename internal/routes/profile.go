package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/letteryzzm/jike-skill/internal"
)

func Profile(client internal.JikeClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		username := c.Param("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		result, err := client.Profile(username)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
