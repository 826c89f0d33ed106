package bidding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/events"
	"marketplace/internal/marketerrors"
	"marketplace/internal/metrics"
	"marketplace/internal/models"
	"marketplace/internal/notification"
	"marketplace/internal/repository"
	"marketplace/internal/validation"
	"marketplace/utils"
)

// Auction close reasons carried on auction.closed events
const (
	CloseReasonBuyNow        = "buy-now"
	CloseReasonEndedBySeller = "ended-by-seller"
)

// AuctionClosed is the payload of an auction.closed event
type AuctionClosed struct {
	AuctionID   string    `json:"auction_id"`
	SellerID    string    `json:"seller_id"`
	WinnerID    string    `json:"winner_id,omitempty"`
	FinalAmount float64   `json:"final_amount,omitempty"`
	Reason      string    `json:"reason"`
	ClosedAt    time.Time `json:"closed_at"`
}

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo         repository.AuctionDB
	notifier     notification.Notifier
	publisher    events.Publisher
	now          func() time.Time
	minIncrement float64
}

// Option configures a BiddingService
type Option func(*BiddingService)

// WithNotifier sets where bid and auction notifications are delivered
func WithNotifier(n notification.Notifier) Option {
	return func(s *BiddingService) { s.notifier = n }
}

// WithPublisher sets the domain event publisher
func WithPublisher(p events.Publisher) Option {
	return func(s *BiddingService) { s.publisher = p }
}

// WithClock overrides the service clock
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) { s.now = now }
}

// WithMinIncrement requires each bid after the first to exceed the current bid by at least inc
func WithMinIncrement(inc float64) Option {
	return func(s *BiddingService) { s.minIncrement = inc }
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:      repo,
		publisher: events.NopPublisher{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid validates and records a user's bid on an auction
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) (models.BidResult, error) {
	if err := validateBidInput(auctionID, bidderID, amount); err != nil {
		return models.BidResult{}, err
	}

	product, err := s.repo.GetProduct(ctx, auctionID)
	if err != nil {
		if errors.Is(err, marketerrors.ErrNotFound) {
			return models.BidResult{}, s.rejected(marketerrors.ReasonAuctionNotFound, "no auction with id "+auctionID)
		}
		metrics.BidFailed()
		return models.BidResult{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}

	now := s.now()
	if err := s.checkBid(product, bidderID, amount, now); err != nil {
		return models.BidResult{}, err
	}

	// A buy-now bid is recorded at the buy-now price and ends the auction.
	buyNow := s.buyNowApplies(product, amount)
	recorded := amount
	if buyNow {
		recorded = product.BuyNowPrice
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    recorded,
		CreatedAt: now,
	}

	before, err := s.repo.RecordBid(ctx, bid, buyNow)
	if err != nil {
		if reason, ok := rejectReasonFor(err); ok {
			return models.BidResult{}, s.rejected(reason, "auction state changed while bidding")
		}
		metrics.BidFailed()
		return models.BidResult{}, fmt.Errorf("service: failed to record bid for auction %s by user %s: %w", auctionID, bidderID, err)
	}
	metrics.BidAccepted(buyNow)

	result := models.BidResult{
		Bid:             bid,
		LeadingAmount:   bid.Amount,
		LeadingBidderID: bidderID,
		AuctionClosed:   buyNow,
	}
	if before.HasBids() && before.LeadingBidderID != bidderID {
		result.PreviousLeaderID = before.LeadingBidderID
	}

	s.afterBid(ctx, before, result)
	return result, nil
}

// checkBid applies the acceptance rules in order: auction exists, still open,
// bidder is not the seller, amount beats the leading amount.
func (s *BiddingService) checkBid(product models.Product, bidderID string, amount float64, now time.Time) error {
	if !product.IsAuction {
		return s.rejected(marketerrors.ReasonAuctionNotFound, "product "+product.ProductID+" is not an auction")
	}
	if product.IsClosed(now) {
		return s.rejected(marketerrors.ReasonAuctionClosed, "auction ended at "+product.AuctionEnd.UTC().Format(time.RFC3339))
	}
	if bidderID == product.SellerID {
		return s.rejected(marketerrors.ReasonSelfBid, "")
	}

	leading := product.LeadingAmount()
	if amount <= leading {
		return s.rejected(marketerrors.ReasonBidTooLow, fmt.Sprintf("bid must exceed %.2f", leading))
	}
	if !s.meetsIncrement(product, amount) {
		return s.rejected(marketerrors.ReasonBidTooLow, fmt.Sprintf("bid must be at least %.2f", leading+s.minIncrement))
	}
	return nil
}

func (s *BiddingService) meetsIncrement(product models.Product, amount float64) bool {
	return s.minIncrement <= 0 || !product.HasBids() || amount >= product.CurrentBid+s.minIncrement
}

// buyNowApplies reports whether amount takes the buy-now price. The bid is
// then recorded at that price, so the price itself must be an acceptable bid.
func (s *BiddingService) buyNowApplies(product models.Product, amount float64) bool {
	price := product.BuyNowPrice
	if price <= 0 || amount < price {
		return false
	}
	return price > product.LeadingAmount() && s.meetsIncrement(product, price)
}

func (s *BiddingService) rejected(reason marketerrors.RejectReason, detail string) error {
	metrics.BidRejected(string(reason))
	return fmt.Errorf("service: %w", marketerrors.Reject(reason, detail))
}

// rejectReasonFor maps a store-side refusal onto a rejection reason
func rejectReasonFor(err error) (marketerrors.RejectReason, bool) {
	switch {
	case errors.Is(err, marketerrors.ErrAuctionNotFound):
		return marketerrors.ReasonAuctionNotFound, true
	case errors.Is(err, marketerrors.ErrAuctionClosed):
		return marketerrors.ReasonAuctionClosed, true
	case errors.Is(err, marketerrors.ErrBidTooLow):
		return marketerrors.ReasonBidTooLow, true
	}
	return "", false
}

func validateBidInput(auctionID, bidderID string, amount float64) error {
	if strings.TrimSpace(auctionID) == "" {
		return fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidBid, "auction_id", "is required"))
	}
	if strings.TrimSpace(bidderID) == "" {
		return fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidBid, "bidder_id", "is required"))
	}
	if amount <= 0 {
		return fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidBid, "amount", "must be positive"))
	}
	return nil
}

// afterBid notifies the seller and the outbid leader and publishes the bid.
// Failures are logged only; the bid is already committed.
func (s *BiddingService) afterBid(ctx context.Context, auction models.Product, result models.BidResult) {
	link := auctionLink(auction.ProductID)

	s.notify(ctx, auction.SellerID,
		fmt.Sprintf("New bid of $%.2f placed on your auction: %s", result.Bid.Amount, auction.Title), link)
	if result.PreviousLeaderID != "" {
		s.notify(ctx, result.PreviousLeaderID,
			fmt.Sprintf("You've been outbid on %s. Current bid: $%.2f", auction.Title, result.Bid.Amount), link)
	}

	s.publish(ctx, events.TopicBidPlaced, "bid.placed", auction.ProductID, result)

	if result.AuctionClosed {
		s.notify(ctx, result.LeadingBidderID,
			fmt.Sprintf("Congratulations! You won the auction for %s with Buy Now at $%.2f", auction.Title, result.Bid.Amount), link)
		s.publish(ctx, events.TopicAuctionClosed, "auction.closed", auction.ProductID, AuctionClosed{
			AuctionID:   auction.ProductID,
			SellerID:    auction.SellerID,
			WinnerID:    result.LeadingBidderID,
			FinalAmount: result.Bid.Amount,
			Reason:      CloseReasonBuyNow,
			ClosedAt:    result.Bid.CreatedAt,
		})
	}
}

func (s *BiddingService) notify(ctx context.Context, userID, message, link string) {
	if s.notifier == nil || userID == "" {
		return
	}
	if err := s.notifier.Notify(ctx, userID, message, link); err != nil {
		utils.Warn("service: failed to deliver notification", map[string]any{
			"user_id": userID,
			"link":    link,
			"error":   err.Error(),
		})
	}
}

func (s *BiddingService) publish(ctx context.Context, topic, eventType, auctionID string, payload any) {
	event, err := events.NewEvent(eventType, auctionID, "auction", payload)
	if err == nil {
		err = s.publisher.Publish(ctx, topic, event)
	}
	if err != nil {
		utils.Warn("service: failed to publish event", map[string]any{
			"topic":      topic,
			"auction_id": auctionID,
			"error":      err.Error(),
		})
	}
}

func auctionLink(auctionID string) string {
	return "/auctions/" + auctionID
}

// GetAuction returns an auction listing by id
func (s *BiddingService) GetAuction(ctx context.Context, auctionID string) (models.Product, error) {
	if auctionID == "" {
		return models.Product{}, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidBid, "auction_id", "is required"))
	}

	product, err := s.repo.GetProduct(ctx, auctionID)
	if err != nil {
		if errors.Is(err, marketerrors.ErrNotFound) {
			return models.Product{}, fmt.Errorf("service: %w - %s", marketerrors.ErrAuctionNotFound, auctionID)
		}
		return models.Product{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	if !product.IsAuction {
		return models.Product{}, fmt.Errorf("service: %w - product %s is not an auction", marketerrors.ErrAuctionNotFound, auctionID)
	}
	return product, nil
}

// GetBidsForAuction returns all bids on an auction, highest first
func (s *BiddingService) GetBidsForAuction(ctx context.Context, auctionID string) ([]models.Bid, error) {
	if _, err := s.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	bids, err := s.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetLeadingBid returns the highest bid on an auction
func (s *BiddingService) GetLeadingBid(ctx context.Context, auctionID string) (models.Bid, error) {
	if _, err := s.GetAuction(ctx, auctionID); err != nil {
		return models.Bid{}, err
	}

	leading, err := s.repo.GetLeadingBid(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get leading bid for auction %s: %w", auctionID, err)
	}
	return leading, nil
}

// GetAuctionsByBidder returns all auctions a user has placed bids on
func (s *BiddingService) GetAuctionsByBidder(ctx context.Context, bidderID string) ([]models.Product, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidBid, "bidder_id", "is required"))
	}

	auctions, err := s.repo.GetAuctionsByBidder(ctx, bidderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for user %s: %w", bidderID, err)
	}
	return auctions, nil
}

// ListActiveAuctions returns open auctions, soonest to close first
func (s *BiddingService) ListActiveAuctions(ctx context.Context, filter models.AuctionFilter) ([]models.Product, error) {
	auctions, err := s.repo.ListActiveAuctions(ctx, s.now(), filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list active auctions: %w", err)
	}
	return auctions, nil
}

// OpenAuction lists a new auction for sellerID
func (s *BiddingService) OpenAuction(ctx context.Context, sellerID string, input models.AuctionInput) (models.Product, error) {
	if sellerID == "" {
		return models.Product{}, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidAuction, "seller_id", "is required"))
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	if err := validation.Struct(marketerrors.ErrInvalidAuction, input); err != nil {
		return models.Product{}, fmt.Errorf("service: %w", err)
	}

	now := s.now()
	if !input.AuctionEnd.After(now) {
		return models.Product{}, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidAuction, "auction_end", "must be in the future"))
	}
	if input.BuyNowPrice != 0 && input.BuyNowPrice <= input.StartingBid {
		return models.Product{}, fmt.Errorf("service: %w", marketerrors.NewValidationError(marketerrors.ErrInvalidAuction, "buy_now_price", "must exceed the starting bid"))
	}

	product := models.Product{
		ProductID:   utils.GenerateID(),
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.StartingBid,
		IsAuction:   true,
		StartingBid: input.StartingBid,
		BuyNowPrice: input.BuyNowPrice,
		AuctionEnd:  input.AuctionEnd.UTC(),
		CreatedAt:   now,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to create auction for seller %s: %w", sellerID, err)
	}
	return product, nil
}

// EndAuction lets the seller close an open auction early and notifies the winner
func (s *BiddingService) EndAuction(ctx context.Context, auctionID, sellerID string) (models.Product, error) {
	product, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Product{}, err
	}
	if product.SellerID != sellerID {
		return models.Product{}, fmt.Errorf("service: %w - auction %s", marketerrors.ErrNotSeller, auctionID)
	}

	now := s.now()
	if product.IsClosed(now) {
		return models.Product{}, fmt.Errorf("service: %w", marketerrors.Reject(marketerrors.ReasonAuctionClosed, "auction already ended"))
	}
	if err := s.repo.CloseAuction(ctx, auctionID, now); err != nil {
		if errors.Is(err, marketerrors.ErrAuctionClosed) {
			return models.Product{}, fmt.Errorf("service: %w", marketerrors.Reject(marketerrors.ReasonAuctionClosed, "auction already ended"))
		}
		return models.Product{}, fmt.Errorf("service: failed to end auction %s: %w", auctionID, err)
	}

	// re-read so the winner reflects any bid accepted before the close
	closed, err := s.repo.GetProduct(ctx, auctionID)
	if err != nil {
		closed = product
		closed.AuctionEnd = now
	}

	if closed.HasBids() {
		s.notify(ctx, closed.LeadingBidderID,
			fmt.Sprintf("Congratulations! You won the auction for %s at $%.2f", closed.Title, closed.CurrentBid),
			auctionLink(auctionID))
	}

	payload := AuctionClosed{
		AuctionID: auctionID,
		SellerID:  sellerID,
		Reason:    CloseReasonEndedBySeller,
		ClosedAt:  now,
	}
	if closed.HasBids() {
		payload.WinnerID = closed.LeadingBidderID
		payload.FinalAmount = closed.CurrentBid
	}
	s.publish(ctx, events.TopicAuctionClosed, "auction.closed", auctionID, payload)

	utils.Info("service: auction ended by seller", map[string]any{
		"auction_id": auctionID,
		"seller_id":  sellerID,
		"winner_id":  payload.WinnerID,
	})
	return closed, nil
}
