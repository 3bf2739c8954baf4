package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MrKrzychu46/Blog-Backend/internal/auth"
	"github.com/MrKrzychu46/Blog-Backend/internal/media"
	"github.com/MrKrzychu46/Blog-Backend/internal/posts"
	"github.com/MrKrzychu46/Blog-Backend/internal/users"
)

// postWithAuthor is the single post view.
type postWithAuthor struct {
	posts.Post
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail,omitempty"`
}

func (h *Handler) respondEnriched(c *gin.Context, list []posts.Post) {
	rated, err := h.Ratings.Enrich(c.Request.Context(), list)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rated)
}

// listPosts returns all posts newest first with their rating aggregates.
func (h *Handler) listPosts(c *gin.Context) {
	list, err := h.Posts.List(c.Request.Context(), 0)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondEnriched(c, list)
}

func (h *Handler) myPosts(c *gin.Context) {
	list, err := h.Posts.ListByAuthor(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondEnriched(c, list)
}

func (h *Handler) topPosts(c *gin.Context) {
	n, err := posts.ParseCount(c.Param("num"), h.Config.SupportedPostCount)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Posts.List(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondEnriched(c, list)
}

func (h *Handler) getPost(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.Posts.FindByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := postWithAuthor{Post: *p, AuthorName: "Unknown"}
	author, err := h.UserStore.FindByID(ctx, p.AuthorID)
	switch {
	case err == nil:
		out.AuthorName = author.DisplayName()
		out.AuthorEmail = author.Email
	case !errors.Is(err, users.ErrUserNotFound):
		log.Printf("load author %s of post %s: %v", p.AuthorID, p.ID, err)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) createPost(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	text := strings.TrimSpace(c.PostForm("text"))
	if title == "" {
		respondError(c, posts.ErrEmptyTitle)
		return
	}
	if text == "" {
		respondError(c, posts.ErrEmptyText)
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		respondError(c, posts.ErrNoImage)
		return
	}

	imageURL, err := h.Media.Save(fh, media.KindPosts)
	if err != nil {
		respondError(c, err)
		return
	}

	p := posts.Post{Title: title, Text: text, Image: imageURL, AuthorID: auth.UserID(c)}
	if err := h.Posts.Create(c.Request.Context(), &p); err != nil {
		if rmErr := h.Media.Remove(media.KindPosts, imageURL); rmErr != nil {
			log.Printf("remove orphaned post image %s: %v", imageURL, rmErr)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) deletePost(c *gin.Context) {
	if err := h.Accounts.DeletePost(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}
