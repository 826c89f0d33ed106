package repository

import (
	"context"
	"time"

	model "marketplace/internal/models"
)

//go:generate mockgen -destination=mock_repository.go -package=repository marketplace/internal/repository AuctionDB,ReviewDB,NotificationDB

// AuctionDB defines the product and bid storage interface for the auction system
type AuctionDB interface {
	CreateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, productID string) (model.Product, error)
	ListActiveAuctions(ctx context.Context, now time.Time, filter model.AuctionFilter) ([]model.Product, error)

	// RecordBid stores bid and raises the auction's leading amount in one atomic
	// step. The write only happens while bid.Amount is still above the leading
	// amount (or the starting bid when there are no bids) and the auction is
	// still open at bid.CreatedAt. Otherwise it returns ErrBidTooLow or
	// ErrAuctionClosed and writes nothing. When closeAuction is set the
	// auction end is moved to bid.CreatedAt in the same step.
	// The returned product reflects the state before the bid.
	RecordBid(ctx context.Context, bid model.Bid, closeAuction bool) (model.Product, error)

	GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	GetLeadingBid(ctx context.Context, auctionID string) (model.Bid, error)
	GetAuctionsByBidder(ctx context.Context, bidderID string) ([]model.Product, error)

	// CloseAuction moves the auction end to at if it is still open.
	CloseAuction(ctx context.Context, auctionID string, at time.Time) error
}

// ReviewDB defines the review storage interface for moderation
type ReviewDB interface {
	// UpsertReview creates the review, or replaces the content of the author's
	// existing review for the same product and resets it to pending. It
	// returns the id of the stored review.
	UpsertReview(ctx context.Context, review model.Review) (string, error)
	GetReview(ctx context.Context, reviewID string) (model.Review, error)

	// ApproveReview marks the review approved. approved_at is only written on
	// the first approval; changed reports whether this call was that approval.
	ApproveReview(ctx context.Context, reviewID string, at time.Time) (rv model.Review, changed bool, err error)
	DeleteReview(ctx context.Context, reviewID string) error
	SetSellerResponse(ctx context.Context, reviewID, response string) error

	ListApprovedReviews(ctx context.Context, productID string) ([]model.Review, error)
	ListReviewsByStatus(ctx context.Context, status model.ReviewStatus) ([]model.Review, error)
	ApprovedRatingSummary(ctx context.Context, productID string) (model.RatingSummary, error)
	ModerationStats(ctx context.Context) (model.ModerationStats, error)
}

// NotificationDB defines the notification storage interface
type NotificationDB interface {
	CreateNotification(ctx context.Context, n model.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

// Store bundles every storage concern the application needs
type Store interface {
	AuctionDB
	ReviewDB
	NotificationDB
}
