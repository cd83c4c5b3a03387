package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/service"
)

func locationRouter(locations service.LocationService, reviews service.ReviewService, userID string) http.Handler {
	router := setupRouter()
	api := router.Group("/api", asUser(userID))
	locGroup := api.Group("/locations")
	NewLocationHandler(locations).RegisterRoutes(locGroup)
	NewReviewHandler(reviews).RegisterRoutes(locGroup, api.Group("/reviews"))
	return router
}

func TestLocationCreate_JSON(t *testing.T) {
	locations := new(MockLocationService)
	req := dto.CreateLocationRequest{Name: "Cliff Walk", Category: "nature", Latitude: 50.1, Longitude: -5.2}
	locations.On("Create", "alice", req, false).Return(&dto.LocationResponse{ID: 3, Name: "Cliff Walk"}, nil)

	w := httptest.NewRecorder()
	locationRouter(locations, new(MockReviewService), "alice").ServeHTTP(w, postJSON(t, "/api/locations", req))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Cliff Walk"`)
	locations.AssertExpectations(t)
}

func TestLocationCreate_Multipart(t *testing.T) {
	locations := new(MockLocationService)
	locations.On("Create", "alice", dto.CreateLocationRequest{Name: "Dock Cafe", Category: "food"}, true).
		Return(&dto.LocationResponse{ID: 4, Name: "Dock Cafe", ImageURL: "https://img/4.jpg"}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Dock Cafe"))
	require.NoError(t, mw.WriteField("category", "food"))
	part, err := mw.CreateFormFile("image", "cafe.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/locations", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	locationRouter(locations, new(MockReviewService), "alice").ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	locations.AssertExpectations(t)
}

func TestLocationCreate_UploadsDisabled(t *testing.T) {
	locations := new(MockLocationService)
	locations.On("Create", "alice", dto.CreateLocationRequest{Name: "Dock Cafe"}, true).Return(nil, service.ErrUploadsDisabled)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Dock Cafe"))
	part, _ := mw.CreateFormFile("image", "cafe.jpg")
	_, _ = part.Write([]byte("jpeg"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/locations", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	locationRouter(locations, new(MockReviewService), "alice").ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLocationCreate_Validation(t *testing.T) {
	locations := new(MockLocationService)

	w := httptest.NewRecorder()
	locationRouter(locations, new(MockReviewService), "alice").
		ServeHTTP(w, postJSON(t, "/api/locations", map[string]any{"name": "X", "category": "casino"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLocationGet_NotFound(t *testing.T) {
	locations := new(MockLocationService)
	locations.On("GetByID", int64(9)).Return(nil, service.ErrNotFound)

	w := httptest.NewRecorder()
	locationRouter(locations, new(MockReviewService), "alice").
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/locations/9", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLocationList_PassesFilters(t *testing.T) {
	locations := new(MockLocationService)
	locations.On("List", "food", 3, 5).Return(dto.NewPaginated([]dto.LocationResponse{}, 0, 3, 5), nil)

	w := httptest.NewRecorder()
	locationRouter(locations, new(MockReviewService), "alice").
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/locations?category=food&page=3&page_size=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestReviewCreate(t *testing.T) {
	reviews := new(MockReviewService)
	reviews.On("Create", "bob", int64(3), dto.CreateReviewRequest{Rating: 5, Content: "Worth it"}).
		Return(&dto.ReviewResponse{ID: 42, LocationID: 3, Rating: 5}, nil)

	w := httptest.NewRecorder()
	locationRouter(new(MockLocationService), reviews, "bob").
		ServeHTTP(w, postJSON(t, "/api/locations/3/reviews", dto.CreateReviewRequest{Rating: 5, Content: "Worth it"}))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReviewCreate_RatingOutOfRange(t *testing.T) {
	reviews := new(MockReviewService)

	w := httptest.NewRecorder()
	locationRouter(new(MockLocationService), reviews, "bob").
		ServeHTTP(w, postJSON(t, "/api/locations/3/reviews", map[string]int{"rating": 6}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewLike_Duplicate(t *testing.T) {
	reviews := new(MockReviewService)
	reviews.On("Like", "bob", int64(42)).Return(nil, service.ErrAlreadyLiked)

	w := httptest.NewRecorder()
	locationRouter(new(MockLocationService), reviews, "bob").
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reviews/42/like", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReviewList(t *testing.T) {
	reviews := new(MockReviewService)
	reviews.On("ListByLocation", int64(3), 1, 20).
		Return(dto.NewPaginated([]dto.ReviewResponse{{ID: 1}}, 1, 1, 20), nil)

	w := httptest.NewRecorder()
	locationRouter(new(MockLocationService), reviews, "bob").
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/locations/3/reviews", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
