package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/service"
)

func commentRouter(svc service.CommentService, userID string) http.Handler {
	router := setupRouter()
	api := router.Group("/api", asUser(userID))
	NewCommentHandler(svc).RegisterRoutes(api.Group("/reviews"), api.Group("/comments"))
	return router
}

func TestCommentCreate(t *testing.T) {
	svc := new(MockCommentService)
	svc.On("CreateComment", "bob", int64(42), "Agreed").
		Return(&dto.CommentResponse{ID: 100, ReviewID: 42, UserID: "bob", Content: "Agreed"}, nil)

	w := httptest.NewRecorder()
	commentRouter(svc, "bob").ServeHTTP(w, postJSON(t, "/api/reviews/42/comments", dto.CreateCommentDTO{Content: "Agreed"}))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.CommentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp.ID)
}

func TestCommentCreate_EmptyContent(t *testing.T) {
	svc := new(MockCommentService)

	w := httptest.NewRecorder()
	commentRouter(svc, "bob").ServeHTTP(w, postJSON(t, "/api/reviews/42/comments", dto.CreateCommentDTO{}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentCreate_ReviewMissing(t *testing.T) {
	svc := new(MockCommentService)
	svc.On("CreateComment", "bob", int64(42), "hi").Return(nil, service.ErrNotFound)

	w := httptest.NewRecorder()
	commentRouter(svc, "bob").ServeHTTP(w, postJSON(t, "/api/reviews/42/comments", dto.CreateCommentDTO{Content: "hi"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentList_BadID(t *testing.T) {
	svc := new(MockCommentService)

	w := httptest.NewRecorder()
	commentRouter(svc, "bob").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reviews/abc/comments", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentList(t *testing.T) {
	svc := new(MockCommentService)
	svc.On("GetReviewComments", int64(42), 2, 10).
		Return(dto.NewPaginated([]dto.CommentResponse{{ID: 1}}, 11, 2, 10), nil)

	w := httptest.NewRecorder()
	commentRouter(svc, "bob").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reviews/42/comments?page=2&page_size=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_pages":2`)
}

func TestCommentLike(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"liked", nil, http.StatusOK},
		{"again", service.ErrAlreadyLiked, http.StatusConflict},
		{"missing", service.ErrNotFound, http.StatusNotFound},
		{"store failure", gorm.ErrInvalidTransaction, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCommentService)
			if tt.err == nil {
				svc.On("LikeComment", "carol", int64(100)).Return(&dto.LikeResponse{Liked: true}, nil)
			} else {
				svc.On("LikeComment", "carol", int64(100)).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			commentRouter(svc, "carol").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/comments/100/like", nil))

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
