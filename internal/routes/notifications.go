package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/letteryzzm/jike-skill/internal"
)

func Notifications(client internal.JikeClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		unread, err := client.UnreadNotifications()
		if err != nil {
			writeError(c, err)
			return
		}

		list, err := client.ListNotifications(nil)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"unread": unread,
			"list":   list,
		})
	}
}
