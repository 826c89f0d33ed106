package handler

import (
	"context"
	"errors"
	"net/http"

	"marketplace/internal/marketerrors"
	model "marketplace/internal/models"
	"marketplace/services/common"
	"marketplace/services/review/helpers"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_review_service.go -package=handler marketplace/services/review/handler ReviewServiceInterface

type ReviewServiceInterface interface {
	Submit(ctx context.Context, productID, authorID string, rating int, title, body string) (string, error)
	Approve(ctx context.Context, reviewID string) (model.Review, error)
	Reject(ctx context.Context, reviewID string) error
	GetApprovedRating(ctx context.Context, productID string) (model.RatingSummary, error)
	ListApproved(ctx context.Context, productID string) ([]model.Review, error)
	ListForModeration(ctx context.Context, status model.ReviewStatus) ([]model.Review, error)
	Reply(ctx context.Context, reviewID, sellerID, response string) error
	Stats(ctx context.Context) (model.ModerationStats, error)
}

type ReviewHandler struct {
	service ReviewServiceInterface
}

func NewReviewHandler(service ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// SubmitReviewHandler handles POST /products/:product_id/reviews
func (h *ReviewHandler) SubmitReviewHandler(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c, "SubmitReviewHandler")
	if !ok {
		return
	}

	var req helpers.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.HandleBindError(c, "SubmitReviewHandler", err)
		return
	}

	productID := c.Param("product_id")
	reviewID, err := h.service.Submit(c.Request.Context(), productID, identity.UserID, req.Rating, req.Title, req.Body)
	if err != nil {
		common.RespondError(c, "SubmitReviewHandler", err, map[string]any{
			"product_id": productID,
			"author_id":  identity.UserID,
		})
		return
	}

	resp := helpers.SubmitReviewResponse{
		ReviewID:  reviewID,
		ProductID: productID,
		Status:    string(model.ReviewStatusPending),
	}
	utils.JSONResponse(c, http.StatusCreated, resp, "review submitted for moderation")
	common.LogSuccess("SubmitReviewHandler", "review submitted", map[string]any{
		"review_id":  reviewID,
		"product_id": productID,
		"author_id":  identity.UserID,
	})
}

// ListReviewsHandler handles GET /products/:product_id/reviews
func (h *ReviewHandler) ListReviewsHandler(c *gin.Context) {
	productID := c.Param("product_id")
	reviews, err := h.service.ListApproved(c.Request.Context(), productID)
	if err != nil {
		common.RespondError(c, "ListReviewsHandler", err, map[string]any{"product_id": productID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewReviewResponses(reviews), "reviews retrieved successfully")
}

// GetRatingHandler handles GET /products/:product_id/rating
func (h *ReviewHandler) GetRatingHandler(c *gin.Context) {
	productID := c.Param("product_id")
	summary, err := h.service.GetApprovedRating(c.Request.Context(), productID)
	switch {
	case errors.Is(err, marketerrors.ErrNoRatingYet):
		utils.JSONResponse(c, http.StatusOK, helpers.NewRatingResponse(productID, summary, false), "no approved reviews yet")
		return
	case err != nil:
		common.RespondError(c, "GetRatingHandler", err, map[string]any{"product_id": productID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewRatingResponse(productID, summary, true), "rating retrieved successfully")
}

// ReplyHandler handles POST /reviews/:review_id/reply
func (h *ReviewHandler) ReplyHandler(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c, "ReplyHandler")
	if !ok {
		return
	}

	var req helpers.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.HandleBindError(c, "ReplyHandler", err)
		return
	}

	reviewID := c.Param("review_id")
	if err := h.service.Reply(c.Request.Context(), reviewID, identity.UserID, req.Response); err != nil {
		common.RespondError(c, "ReplyHandler", err, map[string]any{
			"review_id": reviewID,
			"seller_id": identity.UserID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"review_id": reviewID}, "reply saved")
	common.LogSuccess("ReplyHandler", "reply saved", map[string]any{"review_id": reviewID, "seller_id": identity.UserID})
}

// ModerationQueueHandler handles GET /admin/reviews?status=
func (h *ReviewHandler) ModerationQueueHandler(c *gin.Context) {
	status := model.ReviewStatus(c.DefaultQuery("status", string(model.ReviewStatusPending)))
	reviews, err := h.service.ListForModeration(c.Request.Context(), status)
	if err != nil {
		common.RespondError(c, "ModerationQueueHandler", err, map[string]any{"status": status})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewReviewResponses(reviews), "reviews retrieved successfully")
}

// ApproveReviewHandler handles POST /admin/reviews/:review_id/approve
func (h *ReviewHandler) ApproveReviewHandler(c *gin.Context) {
	reviewID := c.Param("review_id")
	rv, err := h.service.Approve(c.Request.Context(), reviewID)
	if err != nil {
		common.RespondError(c, "ApproveReviewHandler", err, map[string]any{"review_id": reviewID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewReviewResponse(rv), "review approved")
	common.LogSuccess("ApproveReviewHandler", "review approved", map[string]any{
		"review_id":  reviewID,
		"product_id": rv.ProductID,
	})
}

// RejectReviewHandler handles POST /admin/reviews/:review_id/reject
func (h *ReviewHandler) RejectReviewHandler(c *gin.Context) {
	reviewID := c.Param("review_id")
	if err := h.service.Reject(c.Request.Context(), reviewID); err != nil {
		common.RespondError(c, "RejectReviewHandler", err, map[string]any{"review_id": reviewID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"review_id": reviewID}, "review rejected")
	common.LogSuccess("RejectReviewHandler", "review rejected", map[string]any{"review_id": reviewID})
}

// StatsHandler handles GET /admin/reviews/stats
func (h *ReviewHandler) StatsHandler(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.RespondError(c, "StatsHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, stats, "moderation stats retrieved successfully")
}
