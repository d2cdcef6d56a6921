package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/letteryzzm/jike-skill/internal"
)

// writeError maps upstream status errors onto the same status code;
// anything else is an internal error and the detail stays in the log.
func writeError(c *gin.Context, err error) {
	var stErr *internal.HTTPStatusError
	if errors.As(err, &stErr) {
		c.JSON(stErr.StatusCode, gin.H{"error": stErr.Status})
		return
	}
	log.Printf("error while calling upstream API: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
}
