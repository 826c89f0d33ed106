package helpers

import (
	"time"

	model "marketplace/internal/models"
)

// NewBidResponse converts a bid to its wire form
func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewPlaceBidResponse converts an accepted bid result to its wire form
func NewPlaceBidResponse(result model.BidResult) PlaceBidResponse {
	return PlaceBidResponse{
		Bid:              NewBidResponse(result.Bid),
		LeadingAmount:    result.LeadingAmount,
		LeadingBidderID:  result.LeadingBidderID,
		PreviousLeaderID: result.PreviousLeaderID,
		AuctionClosed:    result.AuctionClosed,
	}
}

// NewAuctionResponse converts an auction listing to its wire form as seen at now
func NewAuctionResponse(p model.Product, now time.Time) AuctionResponse {
	return AuctionResponse{
		AuctionID:       p.ProductID,
		SellerID:        p.SellerID,
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		StartingBid:     p.StartingBid,
		CurrentBid:      p.CurrentBid,
		LeadingAmount:   p.LeadingAmount(),
		LeadingBidderID: p.LeadingBidderID,
		BidCount:        p.BidCount,
		BuyNowPrice:     p.BuyNowPrice,
		AuctionEnd:      p.AuctionEnd.UTC().Format(time.RFC3339),
		Closed:          p.IsClosed(now),
	}
}

// NewAuctionResponses converts a list of auction listings
func NewAuctionResponses(products []model.Product, now time.Time) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewAuctionResponse(p, now))
	}
	return out
}

// ToAuctionInput maps the request body onto the service input
func (r OpenAuctionRequest) ToAuctionInput() model.AuctionInput {
	return model.AuctionInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		StartingBid: r.StartingBid,
		BuyNowPrice: r.BuyNowPrice,
		AuctionEnd:  r.AuctionEnd,
	}
}
