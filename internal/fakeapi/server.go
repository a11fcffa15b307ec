// Package fakeapi serves the restaurant directory API from in-memory fixtures.
// It backs the mock-server command for local development and the client and
// UI tests.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"restobrowse/internal/types"
)

// ReviewDateLayout is the date format the API uses for reviews.
const ReviewDateLayout = "2 January 2006"

// Server holds the fixture restaurants. Reviews posted to it are kept in
// memory for the life of the server.
type Server struct {
	mu          sync.RWMutex
	restaurants []types.Restaurant
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used to date new reviews.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server over a copy of restaurants.
func New(restaurants []types.Restaurant, opts ...Option) *Server {
	s := &Server{
		restaurants: cloneRestaurants(restaurants),
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadFixtures reads restaurants from a JSON file shaped like the list
// endpoint's response: {"restaurants": [...]}.
func LoadFixtures(path string) ([]types.Restaurant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	var doc struct {
		Restaurants []types.Restaurant `json:"restaurants"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures %s: %w", path, err)
	}
	if len(doc.Restaurants) == 0 {
		return nil, fmt.Errorf("fixtures %s contain no restaurants", path)
	}
	return doc.Restaurants, nil
}

// Handler returns the gin engine serving the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/list", s.list)
	r.GET("/search", s.search)
	r.GET("/detail/:id", s.detail)
	r.POST("/review", s.postReview)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "not found"})
	})
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-ID", reqID)
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", reqID),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// list GET /list
func (s *Server) list(c *gin.Context) {
	s.mu.RLock()
	out := make([]types.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		out = append(out, r.Summary())
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"error":       false,
		"message":     "success",
		"count":       len(out),
		"restaurants": out,
	})
}

// search GET /search?q=<term>
func (s *Server) search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "query parameter q is required"})
		return
	}

	s.mu.RLock()
	out := make([]types.Restaurant, 0)
	for _, r := range s.restaurants {
		if r.Matches(term) {
			out = append(out, r.Summary())
		}
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"error":       false,
		"founded":     len(out),
		"restaurants": out,
	})
}

// detail GET /detail/:id
func (s *Server) detail(c *gin.Context) {
	id := c.Param("id")

	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":      false,
		"message":    "success",
		"restaurant": s.restaurants[i],
	})
}

type reviewRequest struct {
	ID     string `json:"id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Review string `json:"review" binding:"required"`
	Rating int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

// postReview POST /review
func (s *Server) postReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   true,
			"message": "invalid review: " + err.Error(),
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(req.ID)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "restaurant not found"})
		return
	}
	r := &s.restaurants[i]
	r.CustomerReviews = append(r.CustomerReviews, types.Review{
		Name:   req.Name,
		Review: req.Review,
		Rating: req.Rating,
		Date:   s.now().Format(ReviewDateLayout),
	})
	c.JSON(http.StatusCreated, gin.H{
		"error":           false,
		"message":         "success",
		"customerReviews": r.CustomerReviews,
	})
}

// Restaurant returns a copy of the stored restaurant with id.
func (s *Server) Restaurant(id string) (types.Restaurant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return types.Restaurant{}, false
	}
	return cloneRestaurants(s.restaurants[i : i+1])[0], true
}

func (s *Server) indexOf(id string) int {
	for i, r := range s.restaurants {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func cloneRestaurants(rs []types.Restaurant) []types.Restaurant {
	out := make([]types.Restaurant, len(rs))
	for i, r := range rs {
		r.Categories = append([]types.Category(nil), r.Categories...)
		r.CustomerReviews = append([]types.Review(nil), r.CustomerReviews...)
		if r.Menus != nil {
			m := types.Menus{
				Foods:  append([]types.MenuItem(nil), r.Menus.Foods...),
				Drinks: append([]types.MenuItem(nil), r.Menus.Drinks...),
			}
			r.Menus = &m
		}
		out[i] = r
	}
	return out
}
