package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/letteryzzm/jike-skill/internal"
)

func Feed(client internal.JikeClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		limit := 20
		if limitStr := c.Query("limit"); limitStr != "" {
			l, err := strconv.Atoi(limitStr)
			if err != nil || l <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
				return
			}
			limit = l
		}

		var loadMoreKey any
		if key := c.Query("loadMoreKey"); key != "" {
			loadMoreKey = key
		}

		result, err := client.Feed(limit, loadMoreKey)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
