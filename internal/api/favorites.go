package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrKrzychu46/Blog-Backend/internal/auth"
)

func (h *Handler) listFavorites(c *gin.Context) {
	list, err := h.Favorites.ListMine(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// addFavorite answers 201 for a new favorite and 200 when it already existed.
func (h *Handler) addFavorite(c *gin.Context) {
	created, err := h.Favorites.Add(c.Request.Context(), auth.UserID(c), c.Param("postId"))
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"ok": true})
}

func (h *Handler) removeFavorite(c *gin.Context) {
	if err := h.Favorites.Remove(c.Request.Context(), auth.UserID(c), c.Param("postId")); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}
