package common

import (
	"errors"
	"fmt"
	"net/http"

	"marketplace/internal/auth"
	"marketplace/internal/marketerrors"
	model "marketplace/internal/models"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

// ErrUnauthenticated is returned when a route needs an identity and none was supplied
var ErrUnauthenticated = errors.New("authentication required")

var rejectionStatus = map[marketerrors.RejectReason]int{
	marketerrors.ReasonAuctionNotFound: http.StatusNotFound,
	marketerrors.ReasonAuctionClosed:   http.StatusConflict,
	marketerrors.ReasonSelfBid:         http.StatusForbidden,
	marketerrors.ReasonBidTooLow:       http.StatusConflict,
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	if reason, ok := marketerrors.RejectionReason(err); ok {
		return rejectionStatus[reason], "bid rejected"
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, marketerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, marketerrors.ErrInvalidReview):
		return http.StatusBadRequest, "invalid review details"
	case errors.Is(err, marketerrors.ErrInvalidAuction):
		return http.StatusBadRequest, "invalid auction details"
	case errors.Is(err, marketerrors.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, marketerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, marketerrors.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, marketerrors.ErrReviewNotFound):
		return http.StatusNotFound, "review not found"
	case errors.Is(err, marketerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for auction"
	case errors.Is(err, marketerrors.ErrNoRatingYet):
		return http.StatusNotFound, "no approved reviews yet"
	case errors.Is(err, marketerrors.ErrNotSeller):
		return http.StatusForbidden, "only the seller can do this"
	case errors.Is(err, marketerrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, marketerrors.ErrProductAlreadyExists):
		return http.StatusConflict, "product already exists"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the error envelope for err. Bid rejections carry their reason.
// Server faults are logged at error level, client errors at warn.
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)

	if reason, ok := marketerrors.RejectionReason(err); ok {
		utils.JSONRejection(c, status, err, message, string(reason))
	} else {
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	}

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request refused", fields)
}

// CurrentIdentity returns the authenticated caller or writes a 401
func CurrentIdentity(c *gin.Context, handlerName string) (model.Identity, bool) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		RespondError(c, handlerName, ErrUnauthenticated, nil)
		return model.Identity{}, false
	}
	return identity, true
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
