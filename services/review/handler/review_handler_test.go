package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/auth"
	"marketplace/internal/marketerrors"
	model "marketplace/internal/models"
	"marketplace/services/review/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func withIdentity(userID string, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			auth.SetIdentity(c, model.Identity{UserID: userID, Role: role})
		}
		c.Next()
	}
}

func setupRouter(t *testing.T, userID string, role model.Role) (*gin.Engine, *MockReviewServiceInterface) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := NewMockReviewServiceInterface(ctrl)
	handler := NewReviewHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(withIdentity(userID, role))
	router.POST("/products/:product_id/reviews", handler.SubmitReviewHandler)
	router.GET("/products/:product_id/reviews", handler.ListReviewsHandler)
	router.GET("/products/:product_id/rating", handler.GetRatingHandler)
	router.POST("/reviews/:review_id/reply", handler.ReplyHandler)
	router.GET("/admin/reviews", handler.ModerationQueueHandler)
	router.GET("/admin/reviews/stats", handler.StatsHandler)
	router.POST("/admin/reviews/:review_id/approve", handler.ApproveReviewHandler)
	router.POST("/admin/reviews/:review_id/reject", handler.RejectReviewHandler)
	return router, mockService
}

func perform(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestSubmitReviewHandler(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		body           any
		mockSetup      func(m *MockReviewServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "submitted",
			userID: "buyer1",
			body:   helpers.SubmitReviewRequest{Rating: 4, Title: "Solid", Body: "Works as described"},
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().Submit(gomock.Any(), "p1", "buyer1", 4, "Solid", "Works as described").Return("r1", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "review submitted for moderation",
		},
		{
			name:           "anonymous",
			body:           helpers.SubmitReviewRequest{Rating: 4, Title: "Solid", Body: "ok"},
			mockSetup:      func(m *MockReviewServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "authentication required",
		},
		{
			name:           "rating_out_of_range",
			userID:         "buyer1",
			body:           helpers.SubmitReviewRequest{Rating: 6, Title: "Solid", Body: "ok"},
			mockSetup:      func(m *MockReviewServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_body",
			userID:         "buyer1",
			body:           `{"rating": 3, "title": "x"}`,
			mockSetup:      func(m *MockReviewServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:   "blank_title_after_trim",
			userID: "buyer1",
			body:   helpers.SubmitReviewRequest{Rating: 3, Title: "   ", Body: "ok"},
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().Submit(gomock.Any(), "p1", "buyer1", 3, "   ", "ok").
					Return("", fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "title", "is required")))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid review details",
		},
		{
			name:   "unknown_product",
			userID: "buyer1",
			body:   helpers.SubmitReviewRequest{Rating: 3, Title: "t", Body: "b"},
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().Submit(gomock.Any(), "p1", "buyer1", 3, "t", "b").Return("", marketerrors.ErrProductNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "product not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, mockService := setupRouter(t, tc.userID, model.RoleBuyer)
			tc.mockSetup(mockService)

			w, resp := perform(t, router, http.MethodPost, "/products/p1/reviews", tc.body)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedMsg, resp["message"])
			if w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.Equal(t, "r1", data["review_id"])
				require.Equal(t, "pending", data["status"])
			}
		})
	}
}

func TestGetRatingHandler(t *testing.T) {
	t.Run("average", func(t *testing.T) {
		router, mockService := setupRouter(t, "", "")
		mockService.EXPECT().GetApprovedRating(gomock.Any(), "p1").
			Return(model.RatingSummary{ProductID: "p1", Average: 3.5, Count: 2}, nil)

		w, resp := perform(t, router, http.MethodGet, "/products/p1/rating", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, 3.5, data["rating"])
		require.Equal(t, 2.0, data["count"])
	})

	t.Run("no_approved_reviews_is_null", func(t *testing.T) {
		router, mockService := setupRouter(t, "", "")
		mockService.EXPECT().GetApprovedRating(gomock.Any(), "p2").
			Return(model.RatingSummary{}, fmt.Errorf("service: %w", marketerrors.ErrNoRatingYet))

		w, resp := perform(t, router, http.MethodGet, "/products/p2/rating", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Contains(t, data, "rating")
		require.Nil(t, data["rating"])
		require.Equal(t, 0.0, data["count"])
	})

	t.Run("store_failure", func(t *testing.T) {
		router, mockService := setupRouter(t, "", "")
		mockService.EXPECT().GetApprovedRating(gomock.Any(), "p3").Return(model.RatingSummary{}, errors.New("db down"))

		w, _ := perform(t, router, http.MethodGet, "/products/p3/rating", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestListReviewsHandler(t *testing.T) {
	router, mockService := setupRouter(t, "", "")
	approvedAt := created.Add(time.Hour)
	mockService.EXPECT().ListApproved(gomock.Any(), "p1").Return([]model.Review{
		{ReviewID: "r1", ProductID: "p1", AuthorID: "u1", Rating: 5, Title: "Great", Body: "b", Approved: true, ApprovedAt: &approvedAt, CreatedAt: created},
	}, nil)

	w, resp := perform(t, router, http.MethodGet, "/products/p1/reviews", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	require.Equal(t, "2024-06-01T13:00:00Z", first["approved_at"])
	require.Equal(t, true, first["approved"])
}

func TestModerationHandlers(t *testing.T) {
	approvedAt := created

	tests := []struct {
		name           string
		method         string
		path           string
		mockSetup      func(m *MockReviewServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "queue_defaults_to_pending",
			method: http.MethodGet,
			path:   "/admin/reviews",
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().ListForModeration(gomock.Any(), model.ReviewStatusPending).Return([]model.Review{{ReviewID: "r1"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "reviews retrieved successfully",
		},
		{
			name:   "queue_all",
			method: http.MethodGet,
			path:   "/admin/reviews?status=all",
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().ListForModeration(gomock.Any(), model.ReviewStatusAll).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "reviews retrieved successfully",
		},
		{
			name:   "queue_bad_status",
			method: http.MethodGet,
			path:   "/admin/reviews?status=weird",
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().ListForModeration(gomock.Any(), model.ReviewStatus("weird")).
					Return(nil, marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "status", "must be one of: pending approved all"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid review details",
		},
		{
			name:   "approve",
			method: http.MethodPost,
			path:   "/admin/reviews/r1/approve",
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().Approve(gomock.Any(), "r1").Return(model.Review{ReviewID: "r1", ProductID: "p1", Approved: true, ApprovedAt: &approvedAt}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "review approved",
		},
		{
			name:   "approve_missing",
			method: http.MethodPost,
			path:   "/admin/reviews/gone/approve",
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().Approve(gomock.Any(), "gone").Return(model.Review{}, marketerrors.ErrReviewNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "review not found",
		},
		{
			name:   "reject",
			method: http.MethodPost,
			path:   "/admin/reviews/r1/reject",
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().Reject(gomock.Any(), "r1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "review rejected",
		},
		{
			name:   "reject_missing",
			method: http.MethodPost,
			path:   "/admin/reviews/gone/reject",
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().Reject(gomock.Any(), "gone").Return(fmt.Errorf("service: failed to load review gone: %w", marketerrors.ErrReviewNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "review not found",
		},
		{
			name:   "stats",
			method: http.MethodGet,
			path:   "/admin/reviews/stats",
			mockSetup: func(m *MockReviewServiceInterface) {
				m.EXPECT().Stats(gomock.Any()).Return(model.ModerationStats{Pending: 1, Approved: 2, Total: 3}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "moderation stats retrieved successfully",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, mockService := setupRouter(t, "admin1", model.RoleAdmin)
			tc.mockSetup(mockService)

			w, resp := perform(t, router, tc.method, tc.path, nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedMsg, resp["message"])
		})
	}
}

func TestReplyHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		err            error
		callsService   bool
		expectedStatus int
	}{
		{name: "saved", body: helpers.ReplyRequest{Response: "Thanks!"}, callsService: true, expectedStatus: http.StatusOK},
		{name: "empty_response", body: helpers.ReplyRequest{}, expectedStatus: http.StatusBadRequest},
		{name: "not_the_seller", body: helpers.ReplyRequest{Response: "Hi"}, err: marketerrors.ErrNotSeller, callsService: true, expectedStatus: http.StatusForbidden},
		{name: "missing_review", body: helpers.ReplyRequest{Response: "Hi"}, err: marketerrors.ErrReviewNotFound, callsService: true, expectedStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, mockService := setupRouter(t, "seller1", model.RoleSeller)
			if tc.callsService {
				req := tc.body.(helpers.ReplyRequest)
				mockService.EXPECT().Reply(gomock.Any(), "r1", "seller1", req.Response).Return(tc.err)
			}

			w, _ := perform(t, router, http.MethodPost, "/reviews/r1/reply", tc.body)
			require.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}
