package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
)

// respondError maps known error kinds to their status. Anything else is
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	status, known := apperr.Status(err)
	if !known {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
