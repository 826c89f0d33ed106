package models

import "time"

// Role is the marketplace role carried by an authenticated identity
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Identity is the authenticated caller supplied by the identity layer
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Product represents a marketplace listing. When IsAuction is set the product
// is an auction listing and the bid fields are meaningful.
type Product struct {
	ProductID       string    `json:"product_id"`
	SellerID        string    `json:"seller_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Price           float64   `json:"price"`
	IsAuction       bool      `json:"is_auction"`
	StartingBid     float64   `json:"starting_bid"`
	CurrentBid      float64   `json:"current_bid"`
	LeadingBidderID string    `json:"leading_bidder_id,omitempty"`
	BidCount        int       `json:"bid_count"`
	BuyNowPrice     float64   `json:"buy_now_price,omitempty"`
	AuctionEnd      time.Time `json:"auction_end"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsClosed reports whether the auction no longer accepts bids at t
func (p Product) IsClosed(t time.Time) bool {
	return !t.Before(p.AuctionEnd)
}

// HasBids reports whether any bid has been accepted on the auction
func (p Product) HasBids() bool {
	return p.BidCount > 0
}

// Bid represents a user's accepted bid on an auction
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// BidResult is returned for an accepted bid
type BidResult struct {
	Bid              Bid     `json:"bid"`
	LeadingAmount    float64 `json:"leading_amount"`
	LeadingBidderID  string  `json:"leading_bidder_id"`
	PreviousLeaderID string  `json:"previous_leader_id,omitempty"`
	AuctionClosed    bool    `json:"auction_closed"`
}

// AuctionFilter narrows the active auction listing
type AuctionFilter struct {
	Category   string
	EndingSoon bool
}

// Review is a product review. It starts pending and is either approved once or deleted.
type Review struct {
	ReviewID       string     `json:"review_id"`
	ProductID      string     `json:"product_id"`
	AuthorID       string     `json:"author_id"`
	Rating         int        `json:"rating"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	SellerResponse string     `json:"seller_response,omitempty"`
	Approved       bool       `json:"approved"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReviewStatus selects reviews in the moderation queue
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusAll      ReviewStatus = "all"
)

// Valid reports whether s is a known moderation filter
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusAll:
		return true
	}
	return false
}

// RatingSummary is the aggregate of approved ratings for a product
type RatingSummary struct {
	ProductID string  `json:"product_id"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
}

// ModerationStats counts reviews by approval state
type ModerationStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Total    int `json:"total"`
}

// Notification is an in-app message for a user
type Notification struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Message        string    `json:"message"`
	Link           string    `json:"link,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// LeadingAmount is the amount a new bid has to beat: the current bid once
// bidding has started, otherwise the starting bid.
func (p Product) LeadingAmount() float64 {
	if p.HasBids() {
		return p.CurrentBid
	}
	return p.StartingBid
}

// AuctionInput is what a seller supplies to open an auction listing
type AuctionInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Category    string    `json:"category" validate:"max=100"`
	StartingBid float64   `json:"starting_bid" validate:"gt=0"`
	BuyNowPrice float64   `json:"buy_now_price" validate:"gte=0"`
	AuctionEnd  time.Time `json:"auction_end" validate:"required"`
}

// ReviewInput is the author-supplied content of a review
type ReviewInput struct {
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Title  string `json:"title" validate:"required,max=200"`
	Body   string `json:"body" validate:"required,max=5000"`
}
