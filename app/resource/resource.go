// Package resource implements the handlers shared by every per-user
// collection. Each handler scopes its store call to the caller's own id, so
// documents of other users look exactly like missing ones.
package resource

import (
	"errors"
	"net/http"
	"time"

	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/middleware"
	"bitwise74/goals-api/pkg/util"
	"bitwise74/goals-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Spec describes one owned collection.
type Spec[T any, PT model.Document[T]] struct {
	// Name is used in response messages, e.g. "Goal added".
	Name string
	// Key wraps the created document in the add response.
	Key string

	Fields []validators.Field
	List   validators.ListSpec

	New     func(now time.Time) T
	Store   func(s store.Store) store.Owned[T]
	Payload func(doc *T) any
}

func (s *Spec[T, PT]) Add(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)
	id := middleware.Identity(c)

	body, err := c.GetRawData()
	if err != nil {
		BadBody(c, err)
		return
	}

	patch, err := validators.Decode(body, s.Fields, false)
	if err != nil {
		BadBody(c, err)
		return
	}

	doc := s.New(time.Now().UTC())
	PT(&doc).Apply(patch)

	if err := s.Store(d.Store).Create(c.Request.Context(), id.UserID, &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create document", zap.String("resource", s.Key), zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": s.Name + " added",
		s.Key:     s.Payload(&doc),
	})
}

// FindByUser lists the caller's documents. page, results, sort and query are
// read from the query string; sort and query hold JSON objects.
func (s *Spec[T, PT]) FindByUser(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)
	id := middleware.Identity(c)

	q, err := validators.ListQuery(s.Fields, s.List, validators.ListParams{
		Page:    c.Query("page"),
		Results: c.Query("results"),
		Sort:    c.Query("sort"),
		Query:   c.Query("query"),
	})
	if err != nil {
		BadBody(c, err)
		return
	}

	docs, err := s.Store(d.Store).List(c.Request.Context(), id.UserID, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list documents", zap.String("resource", s.Key), zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(docs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, s.payloads(docs))
}

func (s *Spec[T, PT]) FindByID(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)
	id := middleware.Identity(c)

	docID, ok := PathID(c)
	if !ok {
		return
	}

	doc, err := s.Store(d.Store).Get(c.Request.Context(), docID, id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch document", zap.String("resource", s.Key), zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, s.Payload(doc))
}

func (s *Spec[T, PT]) Update(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)
	id := middleware.Identity(c)

	docID, ok := PathID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		BadBody(c, err)
		return
	}

	patch, err := validators.Decode(body, s.Fields, true)
	if err != nil {
		BadBody(c, err)
		return
	}

	res, err := s.Store(d.Store).Update(c.Request.Context(), docID, id.UserID, patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update document", zap.String("resource", s.Key), zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if res.Matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found or unauthorized",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Update completed",
		"updatedRows": res.Modified,
	})
}

func (s *Spec[T, PT]) DeleteOne(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)
	id := middleware.Identity(c)

	docID, ok := PathID(c)
	if !ok {
		return
	}

	n, err := s.Store(d.Store).Delete(c.Request.Context(), docID, id.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete document", zap.String("resource", s.Key), zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found or unauthorized",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Delete completed",
		"deletedRows": n,
	})
}

func (s *Spec[T, PT]) payloads(docs []T) []any {
	out := make([]any, 0, len(docs))
	for i := range docs {
		out = append(out, s.Payload(&docs[i]))
	}

	return out
}

// PathID reads the :id parameter and answers 400 when it can't be a record
// id.
func PathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !util.ValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid ID format",
			"requestID": c.GetString(middleware.RequestIDKey),
		})
		return "", false
	}

	return id, true
}
