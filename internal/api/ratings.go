package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrKrzychu46/Blog-Backend/internal/auth"
	"github.com/MrKrzychu46/Blog-Backend/internal/ratings"
)

type ratingRequest struct {
	Rating interface{} `json:"rating"`
}

func (h *Handler) getRating(c *gin.Context) {
	s, err := h.Ratings.GetSummary(c.Request.Context(), c.Param("postId"), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) setRating(c *gin.Context) {
	var body ratingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, ratings.ErrInvalidValue)
		return
	}
	s, err := h.Ratings.SetRating(c.Request.Context(), c.Param("postId"), auth.UserID(c), body.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
