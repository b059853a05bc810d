package api

import (
	"net/http"
	"strings"

	"PhoneCompare/internal/favorites"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FavoritesHandler cookie 收藏夹，不落库
type FavoritesHandler struct {
	secure bool
	logger *logrus.Logger
}

// NewFavoritesHandler secure=true 时 cookie 只走 https
func NewFavoritesHandler(secure bool, logger *logrus.Logger) *FavoritesHandler {
	return &FavoritesHandler{secure: secure, logger: logger}
}

// store 从请求 cookie 构建 Store，收藏变化时回写 cookie
func (h *FavoritesHandler) store(c *gin.Context) (*favorites.Store, func(), error) {
	raw, _ := c.Cookie(favorites.CookieName)
	s := favorites.NewStore(favorites.Decode(raw))
	unsubscribe, err := s.Subscribe(func(slugs []string) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(favorites.CookieName, favorites.Encode(slugs), favorites.CookieMaxAge, "/", "", h.secure, true)
	})
	return s, unsubscribe, err
}

// List GET /api/favorites
func (h *FavoritesHandler) List(c *gin.Context) {
	raw, _ := c.Cookie(favorites.CookieName)
	c.JSON(http.StatusOK, gin.H{"favorites": favorites.Decode(raw)})
}

// Add POST /api/favorites/:slug
func (h *FavoritesHandler) Add(c *gin.Context) {
	h.mutate(c, func(s *favorites.Store, slug string) bool { return s.Add(slug) })
}

// Remove DELETE /api/favorites/:slug
func (h *FavoritesHandler) Remove(c *gin.Context) {
	h.mutate(c, func(s *favorites.Store, slug string) bool { return s.Remove(slug) })
}

// Toggle POST /api/favorites/:slug/toggle
func (h *FavoritesHandler) Toggle(c *gin.Context) {
	h.mutate(c, func(s *favorites.Store, slug string) bool {
		before := s.Has(slug)
		return s.Toggle(slug) != before
	})
}

func (h *FavoritesHandler) mutate(c *gin.Context, op func(s *favorites.Store, slug string) bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}
	if !favorites.ValidSlug(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
		return
	}
	s, unsubscribe, err := h.store(c)
	if err != nil {
		h.logger.WithError(err).Error("favorites subscribe failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer unsubscribe()

	changed := op(s, slug)
	c.JSON(http.StatusOK, gin.H{
		"favorites": s.List(),
		"favorite":  s.Has(slug),
		"changed":   changed,
	})
}
