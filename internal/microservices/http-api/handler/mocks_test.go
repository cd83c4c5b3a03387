package handler

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/middleware"
	"travelguide/internal/microservices/http-api/models"
	"travelguide/internal/microservices/http-api/service"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser stands in for AuthMiddleware.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	args := m.Called(username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	args := m.Called(username, password)
	user, _ := args.Get(2).(*models.User)
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) AccessTokenTTL() time.Duration {
	return 15 * time.Minute
}

type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) Create(ctx context.Context, ownerID string, req dto.CreateLocationRequest, image io.Reader) (*dto.LocationResponse, error) {
	args := m.Called(ownerID, req, image != nil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LocationResponse), args.Error(1)
}

func (m *MockLocationService) GetByID(ctx context.Context, id int64) (*dto.LocationResponse, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LocationResponse), args.Error(1)
}

func (m *MockLocationService) List(ctx context.Context, category string, page, pageSize int) (*dto.Paginated[dto.LocationResponse], error) {
	args := m.Called(category, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.LocationResponse]), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, userID string, locationID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(userID, locationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) ListByLocation(ctx context.Context, locationID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(locationID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Like(ctx context.Context, userID string, reviewID int64) (*dto.LikeResponse, error) {
	args := m.Called(userID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResponse), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CreateComment(ctx context.Context, userID string, reviewID int64, content string) (*dto.CommentResponse, error) {
	args := m.Called(userID, reviewID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) GetReviewComments(ctx context.Context, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	args := m.Called(reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CommentResponse]), args.Error(1)
}

func (m *MockCommentService) LikeComment(ctx context.Context, userID string, commentID int64) (*dto.LikeResponse, error) {
	args := m.Called(userID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResponse), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID string, page, pageSize int) (*dto.NotificationPage, error) {
	args := m.Called(userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NotificationPage), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) Add(ctx context.Context, userID string, locationID int64) error {
	return m.Called(userID, locationID).Error(0)
}

func (m *MockFavoriteService) Remove(ctx context.Context, userID string, locationID int64) error {
	return m.Called(userID, locationID).Error(0)
}

func (m *MockFavoriteService) List(ctx context.Context, userID string) ([]dto.FavoriteResponse, error) {
	args := m.Called(userID)
	return args.Get(0).([]dto.FavoriteResponse), args.Error(1)
}
