package helpers

import "time"

// Request/Response DTOs
type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type OpenAuctionRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	StartingBid float64   `json:"starting_bid" binding:"required,gt=0"`
	BuyNowPrice float64   `json:"buy_now_price" binding:"gte=0"`
	AuctionEnd  time.Time `json:"auction_end" binding:"required"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	AuctionID string  `json:"auction_id"`
	BidderID  string  `json:"bidder_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type PlaceBidResponse struct {
	Bid              BidResponse `json:"bid"`
	LeadingAmount    float64     `json:"leading_amount"`
	LeadingBidderID  string      `json:"leading_bidder_id"`
	PreviousLeaderID string      `json:"previous_leader_id,omitempty"`
	AuctionClosed    bool        `json:"auction_closed"`
}

type AuctionResponse struct {
	AuctionID       string  `json:"auction_id"`
	SellerID        string  `json:"seller_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	Category        string  `json:"category,omitempty"`
	StartingBid     float64 `json:"starting_bid"`
	CurrentBid      float64 `json:"current_bid"`
	LeadingAmount   float64 `json:"leading_amount"`
	LeadingBidderID string  `json:"leading_bidder_id,omitempty"`
	BidCount        int     `json:"bid_count"`
	BuyNowPrice     float64 `json:"buy_now_price,omitempty"`
	AuctionEnd      string  `json:"auction_end"`
	Closed          bool    `json:"closed"`
}
