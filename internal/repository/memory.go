package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketplace/internal/marketerrors"
	model "marketplace/internal/models"
)

const endingSoonWindow = 24 * time.Hour

// MemoryRepo is a concurrency-safe in-memory implementation of Store
type MemoryRepo struct {
	mu             sync.RWMutex
	products       map[string]model.Product        // key: productID -> value: product
	bids           map[string][]model.Bid          // key: auctionID -> value: list of bids
	bidderAuctions map[string][]string             // key: userID -> value: auctionIDs the user has bid on
	reviews        map[string]model.Review         // key: reviewID -> value: review
	reviewByAuthor map[string]string               // key: productID|authorID -> value: reviewID
	notifications  map[string][]model.Notification // key: userID -> value: notifications, oldest first
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		products:       make(map[string]model.Product),
		bids:           make(map[string][]model.Bid),
		bidderAuctions: make(map[string][]string),
		reviews:        make(map[string]model.Review),
		reviewByAuthor: make(map[string]string),
		notifications:  make(map[string][]model.Notification),
	}
}

// CreateProduct stores a new product listing
func (r *MemoryRepo) CreateProduct(_ context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ProductID]; exists {
		return fmt.Errorf("create product %s: %w", product.ProductID, marketerrors.ErrProductAlreadyExists)
	}
	r.products[product.ProductID] = product
	return nil
}

// GetProduct returns a product by id
func (r *MemoryRepo) GetProduct(_ context.Context, productID string) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[productID]
	if !ok {
		return model.Product{}, fmt.Errorf("get product %s: %w", productID, marketerrors.ErrProductNotFound)
	}
	return p, nil
}

// ListActiveAuctions returns open auctions ordered by closing time
func (r *MemoryRepo) ListActiveAuctions(_ context.Context, now time.Time, filter model.AuctionFilter) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	soon := now.Add(endingSoonWindow)
	auctions := make([]model.Product, 0)
	for _, p := range r.products {
		if !p.IsAuction || p.IsClosed(now) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.EndingSoon && p.AuctionEnd.After(soon) {
			continue
		}
		auctions = append(auctions, p)
	}

	sort.Slice(auctions, func(i, j int) bool { return auctions[i].AuctionEnd.Before(auctions[j].AuctionEnd) })
	return auctions, nil
}

// RecordBid checks the auction state and records the bid under a single lock
func (r *MemoryRepo) RecordBid(_ context.Context, bid model.Bid, closeAuction bool) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[bid.AuctionID]
	if !ok || !p.IsAuction {
		return model.Product{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, marketerrors.ErrAuctionNotFound)
	}
	if p.IsClosed(bid.CreatedAt) {
		return model.Product{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, marketerrors.ErrAuctionClosed)
	}
	if bid.Amount <= p.LeadingAmount() {
		return model.Product{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, marketerrors.ErrBidTooLow)
	}

	before := p
	p.CurrentBid = bid.Amount
	p.LeadingBidderID = bid.BidderID
	p.BidCount++
	if closeAuction {
		p.AuctionEnd = bid.CreatedAt
	}
	r.products[p.ProductID] = p
	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)

	for _, id := range r.bidderAuctions[bid.BidderID] {
		if id == bid.AuctionID {
			return before, nil
		}
	}
	r.bidderAuctions[bid.BidderID] = append(r.bidderAuctions[bid.BidderID], bid.AuctionID)

	return before, nil
}

// GetBidsByAuction returns all bids for an auction, highest first
func (r *MemoryRepo) GetBidsByAuction(_ context.Context, auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, marketerrors.ErrNoBids)
	}

	out := append([]model.Bid(nil), bids...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out, nil
}

// GetLeadingBid returns the highest bid for an auction
func (r *MemoryRepo) GetLeadingBid(_ context.Context, auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get leading bid for auction %s: %w", auctionID, marketerrors.ErrNoBids)
	}

	leading := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > leading.Amount || (b.Amount == leading.Amount && b.CreatedAt.Before(leading.CreatedAt)) {
			leading = b
		}
	}
	return leading, nil
}

// GetAuctionsByBidder returns all auctions a user has bid on
func (r *MemoryRepo) GetAuctionsByBidder(_ context.Context, bidderID string) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctionIDs, ok := r.bidderAuctions[bidderID]
	if !ok || len(auctionIDs) == 0 {
		return nil, fmt.Errorf("get auctions for bidder %s: %w", bidderID, marketerrors.ErrBidderNoBids)
	}

	auctions := make([]model.Product, 0, len(auctionIDs))
	for _, id := range auctionIDs {
		if p, exists := r.products[id]; exists {
			auctions = append(auctions, p)
		}
	}
	// latest ending first, same as the postgres store
	sort.Slice(auctions, func(i, j int) bool {
		if !auctions[i].AuctionEnd.Equal(auctions[j].AuctionEnd) {
			return auctions[i].AuctionEnd.After(auctions[j].AuctionEnd)
		}
		return auctions[i].ProductID < auctions[j].ProductID
	})
	return auctions, nil
}

// CloseAuction ends an open auction at the given time
func (r *MemoryRepo) CloseAuction(_ context.Context, auctionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[auctionID]
	if !ok || !p.IsAuction {
		return fmt.Errorf("close auction %s: %w", auctionID, marketerrors.ErrAuctionNotFound)
	}
	if p.IsClosed(at) {
		return fmt.Errorf("close auction %s: %w", auctionID, marketerrors.ErrAuctionClosed)
	}
	p.AuctionEnd = at
	r.products[auctionID] = p
	return nil
}

func authorKey(productID, authorID string) string {
	return productID + "|" + authorID
}

// UpsertReview stores a review, replacing the author's previous review of the product
func (r *MemoryRepo) UpsertReview(_ context.Context, review model.Review) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := authorKey(review.ProductID, review.AuthorID)
	if id, ok := r.reviewByAuthor[key]; ok {
		existing := r.reviews[id]
		existing.Rating = review.Rating
		existing.Title = review.Title
		existing.Body = review.Body
		existing.CreatedAt = review.CreatedAt
		existing.Approved = false
		existing.ApprovedAt = nil
		r.reviews[id] = existing
		return id, nil
	}

	review.Approved = false
	review.ApprovedAt = nil
	r.reviews[review.ReviewID] = review
	r.reviewByAuthor[key] = review.ReviewID
	return review.ReviewID, nil
}

// GetReview returns a review by id
func (r *MemoryRepo) GetReview(_ context.Context, reviewID string) (model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rv, ok := r.reviews[reviewID]
	if !ok {
		return model.Review{}, fmt.Errorf("get review %s: %w", reviewID, marketerrors.ErrReviewNotFound)
	}
	return rv, nil
}

// ApproveReview approves a review; the first approval timestamp wins
func (r *MemoryRepo) ApproveReview(_ context.Context, reviewID string, at time.Time) (model.Review, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv, ok := r.reviews[reviewID]
	if !ok {
		return model.Review{}, false, fmt.Errorf("approve review %s: %w", reviewID, marketerrors.ErrReviewNotFound)
	}
	if rv.Approved {
		return rv, false, nil
	}

	approvedAt := at
	rv.Approved = true
	rv.ApprovedAt = &approvedAt
	r.reviews[reviewID] = rv
	return rv, true, nil
}

// DeleteReview permanently removes a review
func (r *MemoryRepo) DeleteReview(_ context.Context, reviewID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv, ok := r.reviews[reviewID]
	if !ok {
		return fmt.Errorf("delete review %s: %w", reviewID, marketerrors.ErrReviewNotFound)
	}
	delete(r.reviews, reviewID)
	delete(r.reviewByAuthor, authorKey(rv.ProductID, rv.AuthorID))
	return nil
}

// SetSellerResponse stores the seller's reply on a review
func (r *MemoryRepo) SetSellerResponse(_ context.Context, reviewID, response string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv, ok := r.reviews[reviewID]
	if !ok {
		return fmt.Errorf("set seller response on review %s: %w", reviewID, marketerrors.ErrReviewNotFound)
	}
	rv.SellerResponse = response
	r.reviews[reviewID] = rv
	return nil
}

// ListApprovedReviews returns a product's approved reviews, newest first
func (r *MemoryRepo) ListApprovedReviews(_ context.Context, productID string) ([]model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Review, 0)
	for _, rv := range r.reviews {
		if rv.ProductID == productID && rv.Approved {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListReviewsByStatus returns the moderation queue for status
func (r *MemoryRepo) ListReviewsByStatus(_ context.Context, status model.ReviewStatus) ([]model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Review, 0)
	for _, rv := range r.reviews {
		switch status {
		case model.ReviewStatusPending:
			if rv.Approved {
				continue
			}
		case model.ReviewStatusApproved:
			if !rv.Approved {
				continue
			}
		}
		out = append(out, rv)
	}

	if status == model.ReviewStatusApproved {
		sort.Slice(out, func(i, j int) bool { return out[i].ApprovedAt.After(*out[j].ApprovedAt) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

// ApprovedRatingSummary averages the approved ratings of a product
func (r *MemoryRepo) ApprovedRatingSummary(_ context.Context, productID string) (model.RatingSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := model.RatingSummary{ProductID: productID}
	total := 0
	for _, rv := range r.reviews {
		if rv.ProductID == productID && rv.Approved {
			total += rv.Rating
			summary.Count++
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}

// ModerationStats counts pending and approved reviews
func (r *MemoryRepo) ModerationStats(_ context.Context) (model.ModerationStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats model.ModerationStats
	for _, rv := range r.reviews {
		if rv.Approved {
			stats.Approved++
		} else {
			stats.Pending++
		}
	}
	stats.Total = len(r.reviews)
	return stats, nil
}

// CreateNotification stores a notification for its user
func (r *MemoryRepo) CreateNotification(_ context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications[n.UserID] = append(r.notifications[n.UserID], n)
	return nil
}

// ListNotifications returns up to limit notifications for a user, newest first
func (r *MemoryRepo) ListNotifications(_ context.Context, userID string, limit int) ([]model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.notifications[userID]
	out := make([]model.Notification, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, stored[i])
	}
	return out, nil
}

// MarkAllRead marks every unread notification of a user as read
func (r *MemoryRepo) MarkAllRead(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	stored := r.notifications[userID]
	for i := range stored {
		if !stored[i].Read {
			stored[i].Read = true
			updated++
		}
	}
	return updated, nil
}

// AddProduct adds a product to the repository. This method is intended for tests and seeding only.
func (r *MemoryRepo) AddProduct(product model.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ProductID] = product
}
