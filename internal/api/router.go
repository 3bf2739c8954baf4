package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MrKrzychu46/Blog-Backend/internal/account"
	"github.com/MrKrzychu46/Blog-Backend/internal/auth"
	"github.com/MrKrzychu46/Blog-Backend/internal/config"
	"github.com/MrKrzychu46/Blog-Backend/internal/favorites"
	"github.com/MrKrzychu46/Blog-Backend/internal/media"
	"github.com/MrKrzychu46/Blog-Backend/internal/posts"
	"github.com/MrKrzychu46/Blog-Backend/internal/ratings"
	"github.com/MrKrzychu46/Blog-Backend/internal/users"
)

// Deps are the components the handlers call into.
type Deps struct {
	Config    *config.Config
	Users     *users.Service
	UserStore *users.Store
	Posts     *posts.Store
	Ratings   *ratings.Aggregator
	Favorites *favorites.Index
	Accounts  *account.Manager
	Media     *media.Store
	Issuer    *auth.Issuer
	Revoker   auth.Revoker
}

type Handler struct {
	Deps
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), cors.New(corsConfig(d.Config.CORSOrigins)))
	r.MaxMultipartMemory = 8 << 20

	h := &Handler{Deps: d}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/uploads", d.Config.UploadsDir)

	requireAuth := auth.RequireAuth(d.Issuer, d.Revoker, d.UserStore)
	api := r.Group("/api")

	p := api.Group("/posts")
	{
		p.GET("", h.listPosts)
		p.GET("/me", requireAuth, h.myPosts)
		p.GET("/n/:num", h.topPosts)
		p.GET("/:id", h.getPost)
		p.POST("", requireAuth, h.createPost)
		p.DELETE("/:id", requireAuth, h.deletePost)
	}

	rt := api.Group("/ratings", requireAuth)
	{
		rt.GET("/:postId", h.getRating)
		rt.PUT("/:postId", h.setRating)
	}

	fav := api.Group("/favorites", requireAuth)
	{
		fav.GET("", h.listFavorites)
		fav.POST("/:postId", h.addFavorite)
		fav.DELETE("/:postId", h.removeFavorite)
	}

	u := api.Group("/user")
	{
		u.POST("/create", h.register)
		u.POST("/auth", h.login)
		u.GET("/verify", h.verify)
		u.POST("/verify/resend", h.resendVerification)
		u.DELETE("/logout", requireAuth, h.logout)

		u.GET("/me", requireAuth, h.me)
		u.PUT("/me", requireAuth, h.updateMe)
		u.DELETE("/me", requireAuth, h.deleteMe)
		u.PUT("/me/password", requireAuth, h.changePassword)
		u.POST("/me/avatar", requireAuth, h.uploadAvatar)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", auth.HeaderName},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
