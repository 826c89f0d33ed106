package marketerrors

import (
	"errors"
	"fmt"
)

// Base classes. Every error below wraps one of these.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrBidRejected = errors.New("bid rejected")
	ErrForbidden   = errors.New("forbidden")
)

// Repository-level errors
var (
	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrAuctionNotFound      = fmt.Errorf("auction %w", ErrNotFound)
	ErrReviewNotFound       = fmt.Errorf("review %w", ErrNotFound)
	ErrNoBids               = errors.New("no bids found for auction")
	ErrBidderNoBids         = errors.New("user has not placed any bids")
	ErrNoRatingYet          = errors.New("no approved reviews yet")
	ErrProductAlreadyExists = errors.New("product already exists")
)

// business logic errors
var (
	ErrInvalidBid     = fmt.Errorf("invalid bid: %w", ErrValidation)
	ErrInvalidReview  = fmt.Errorf("invalid review: %w", ErrValidation)
	ErrInvalidAuction = fmt.Errorf("invalid auction: %w", ErrValidation)
	ErrAuctionClosed  = errors.New("auction closed")
	ErrSelfBid        = errors.New("sellers cannot bid on their own auction")
	ErrBidTooLow      = errors.New("bid amount too low")
	ErrNotSeller      = fmt.Errorf("caller is not the listing's seller: %w", ErrForbidden)
)

// ValidationError reports malformed input for a single field
type ValidationError struct {
	Field   string
	Message string
	kind    error
}

// NewValidationError builds a ValidationError that matches kind with errors.Is
func NewValidationError(kind error, field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, kind: kind}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.kind, e.Message)
	}
	return fmt.Sprintf("%v: %s %s", e.kind, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.kind == nil {
		return ErrValidation
	}
	return e.kind
}

// RejectReason names why a bid was refused
type RejectReason string

const (
	ReasonAuctionNotFound RejectReason = "auction-not-found"
	ReasonAuctionClosed   RejectReason = "auction-closed"
	ReasonSelfBid         RejectReason = "self-bid-forbidden"
	ReasonBidTooLow       RejectReason = "bid-too-low"
)

var reasonSentinels = map[RejectReason]error{
	ReasonAuctionNotFound: ErrAuctionNotFound,
	ReasonAuctionClosed:   ErrAuctionClosed,
	ReasonSelfBid:         ErrSelfBid,
	ReasonBidTooLow:       ErrBidTooLow,
}

// BidRejection is a business-rule refusal of a bid, not a system fault
type BidRejection struct {
	Reason RejectReason
	Detail string
}

// Reject builds a BidRejection for reason
func Reject(reason RejectReason, detail string) *BidRejection {
	return &BidRejection{Reason: reason, Detail: detail}
}

func (e *BidRejection) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("bid rejected: %s", e.Reason)
	}
	return fmt.Sprintf("bid rejected: %s - %s", e.Reason, e.Detail)
}

// Is matches ErrBidRejected and the sentinel for the rejection reason
func (e *BidRejection) Is(target error) bool {
	if target == ErrBidRejected {
		return true
	}
	sentinel, ok := reasonSentinels[e.Reason]
	return ok && errors.Is(sentinel, target)
}

// RejectionReason extracts the rejection reason from err, if any
func RejectionReason(err error) (RejectReason, bool) {
	var rejection *BidRejection
	if errors.As(err, &rejection) {
		return rejection.Reason, true
	}
	return "", false
}
