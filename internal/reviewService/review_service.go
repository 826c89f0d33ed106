package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/cache"
	"marketplace/internal/events"
	"marketplace/internal/marketerrors"
	"marketplace/internal/metrics"
	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/validation"
	"marketplace/utils"
)

// ProductReader looks up the product a review belongs to
type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (models.Product, error)
}

// ReviewService moderates product reviews and computes approved ratings
type ReviewService struct {
	repo      repository.ReviewDB
	products  ProductReader
	cache     cache.RatingCache
	publisher events.Publisher
	now       func() time.Time
}

// Option configures a ReviewService
type Option func(*ReviewService)

// WithRatingCache caches approved rating summaries
func WithRatingCache(c cache.RatingCache) Option {
	return func(s *ReviewService) { s.cache = c }
}

// WithPublisher sets the domain event publisher
func WithPublisher(p events.Publisher) Option {
	return func(s *ReviewService) { s.publisher = p }
}

// WithClock overrides the service clock
func WithClock(now func() time.Time) Option {
	return func(s *ReviewService) { s.now = now }
}

// NewReviewService creates a new ReviewService instance
func NewReviewService(repo repository.ReviewDB, products ProductReader, opts ...Option) *ReviewService {
	s := &ReviewService{
		repo:      repo,
		products:  products,
		cache:     cache.NopRatingCache{},
		publisher: events.NopPublisher{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores a pending review. Submitting again for the same product edits
// the author's existing review and sends it back to moderation.
func (s *ReviewService) Submit(ctx context.Context, productID, authorID string, rating int, title, body string) (string, error) {
	if productID == "" || authorID == "" {
		return "", fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "", "product and author are required"))
	}

	input := models.ReviewInput{
		Rating: rating,
		Title:  strings.TrimSpace(title),
		Body:   strings.TrimSpace(body),
	}
	if err := validation.Struct(marketerrors.ErrInvalidReview, input); err != nil {
		return "", fmt.Errorf("service: %w", err)
	}

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return "", fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}

	reviewID, err := s.repo.UpsertReview(ctx, models.Review{
		ReviewID:  utils.GenerateID(),
		ProductID: productID,
		AuthorID:  authorID,
		Rating:    input.Rating,
		Title:     input.Title,
		Body:      input.Body,
		CreatedAt: s.now(),
	})
	if err != nil {
		return "", fmt.Errorf("service: failed to store review for product %s: %w", productID, err)
	}
	metrics.ReviewAction("submitted")

	// an edit may have pulled an approved review out of the rating
	s.invalidate(ctx, productID)
	s.publish(ctx, events.TopicReviewSubmitted, "review.submitted", reviewID, map[string]any{
		"review_id":  reviewID,
		"product_id": productID,
		"author_id":  authorID,
		"rating":     input.Rating,
	})
	return reviewID, nil
}

// Approve makes a review count toward its product's rating. Approving an
// already approved review changes nothing.
func (s *ReviewService) Approve(ctx context.Context, reviewID string) (models.Review, error) {
	if reviewID == "" {
		return models.Review{}, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "review_id", "is required"))
	}

	at := s.now().Truncate(time.Microsecond)
	rv, changed, err := s.repo.ApproveReview(ctx, reviewID, at)
	if err != nil {
		return models.Review{}, fmt.Errorf("service: failed to approve review %s: %w", reviewID, err)
	}

	if changed {
		metrics.ReviewAction("approved")
		s.invalidate(ctx, rv.ProductID)
		s.publish(ctx, events.TopicReviewApproved, "review.approved", rv.ReviewID, rv)
	}
	return rv, nil
}

// Reject permanently deletes a review
func (s *ReviewService) Reject(ctx context.Context, reviewID string) error {
	if reviewID == "" {
		return fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "review_id", "is required"))
	}

	rv, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("service: failed to load review %s: %w", reviewID, err)
	}
	if err := s.repo.DeleteReview(ctx, reviewID); err != nil {
		return fmt.Errorf("service: failed to delete review %s: %w", reviewID, err)
	}
	metrics.ReviewAction("rejected")

	if rv.Approved {
		s.invalidate(ctx, rv.ProductID)
	}
	s.publish(ctx, events.TopicReviewRejected, "review.rejected", reviewID, map[string]any{
		"review_id":  reviewID,
		"product_id": rv.ProductID,
		"author_id":  rv.AuthorID,
	})
	return nil
}

// GetApprovedRating returns the average of a product's approved ratings, or
// ErrNoRatingYet when none are approved.
func (s *ReviewService) GetApprovedRating(ctx context.Context, productID string) (models.RatingSummary, error) {
	if productID == "" {
		return models.RatingSummary{}, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "product_id", "is required"))
	}

	cached, generation, err := s.cache.Get(ctx, productID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		utils.Warn("service: rating cache read failed", map[string]any{"product_id": productID, "error": err.Error()})
	}

	summary, err := s.repo.ApprovedRatingSummary(ctx, productID)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("service: failed to compute rating for product %s: %w", productID, err)
	}
	if summary.Count == 0 {
		return models.RatingSummary{}, fmt.Errorf("service: product %s: %w", productID, marketerrors.ErrNoRatingYet)
	}

	if err := s.cache.Set(ctx, summary, generation); err != nil {
		utils.Warn("service: rating cache write failed", map[string]any{"product_id": productID, "error": err.Error()})
	}
	return summary, nil
}

// ListApproved returns a product's approved reviews, newest first
func (s *ReviewService) ListApproved(ctx context.Context, productID string) ([]models.Review, error) {
	if productID == "" {
		return nil, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "product_id", "is required"))
	}

	reviews, err := s.repo.ListApprovedReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// ListForModeration returns the moderation queue. An empty status means pending.
func (s *ReviewService) ListForModeration(ctx context.Context, status models.ReviewStatus) ([]models.Review, error) {
	if status == "" {
		status = models.ReviewStatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "status", "must be one of: pending approved all"))
	}

	reviews, err := s.repo.ListReviewsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list %s reviews: %w", status, err)
	}
	return reviews, nil
}

// Reply attaches the seller's public response to a review of their product
func (s *ReviewService) Reply(ctx context.Context, reviewID, sellerID, response string) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "response", "is required"))
	}

	rv, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("service: failed to load review %s: %w", reviewID, err)
	}
	product, err := s.products.GetProduct(ctx, rv.ProductID)
	if err != nil {
		return fmt.Errorf("service: failed to load product %s: %w", rv.ProductID, err)
	}
	if product.SellerID != sellerID {
		return fmt.Errorf("service: %w - review %s", marketerrors.ErrNotSeller, reviewID)
	}

	if err := s.repo.SetSellerResponse(ctx, reviewID, response); err != nil {
		return fmt.Errorf("service: failed to store reply on review %s: %w", reviewID, err)
	}
	metrics.ReviewAction("replied")
	return nil
}

// Stats counts reviews by moderation state
func (s *ReviewService) Stats(ctx context.Context) (models.ModerationStats, error) {
	stats, err := s.repo.ModerationStats(ctx)
	if err != nil {
		return models.ModerationStats{}, fmt.Errorf("service: failed to load moderation stats: %w", err)
	}
	return stats, nil
}

func (s *ReviewService) invalidate(ctx context.Context, productID string) {
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		utils.Warn("service: rating cache invalidation failed", map[string]any{"product_id": productID, "error": err.Error()})
	}
}

func (s *ReviewService) publish(ctx context.Context, topic, eventType, reviewID string, payload any) {
	event, err := events.NewEvent(eventType, reviewID, "review", payload)
	if err == nil {
		err = s.publisher.Publish(ctx, topic, event)
	}
	if err != nil {
		utils.Warn("service: failed to publish event", map[string]any{
			"topic":     topic,
			"review_id": reviewID,
			"error":     err.Error(),
		})
	}
}
