package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marketplace/internal/marketerrors"
	model "marketplace/internal/models"
	"marketplace/services/bidding/helpers"
	"marketplace/services/common"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_bidding_service.go -package=handler marketplace/services/bidding/handler BiddingServiceInterface

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) (model.BidResult, error)
	GetBidsForAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	GetLeadingBid(ctx context.Context, auctionID string) (model.Bid, error)
	GetAuction(ctx context.Context, auctionID string) (model.Product, error)
	GetAuctionsByBidder(ctx context.Context, bidderID string) ([]model.Product, error)
	ListActiveAuctions(ctx context.Context, filter model.AuctionFilter) ([]model.Product, error)
	OpenAuction(ctx context.Context, sellerID string, input model.AuctionInput) (model.Product, error)
	EndAuction(ctx context.Context, auctionID, sellerID string) (model.Product, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
	now     func() time.Time
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{
		service: service,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c, "PlaceBidHandler")
	if !ok {
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	auctionID := c.Param("auction_id")
	result, err := h.service.PlaceBid(c.Request.Context(), auctionID, identity.UserID, req.Amount)
	if err != nil {
		common.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"bidder_id":  identity.UserID,
			"amount":     req.Amount,
		})
		return
	}

	message := "bid recorded successfully"
	if result.AuctionClosed {
		message = "auction won with buy now"
	}
	utils.JSONResponse(c, http.StatusCreated, helpers.NewPlaceBidResponse(result), message)
	common.LogSuccess("PlaceBidHandler", message, map[string]any{
		"bid_id":     result.Bid.BidID,
		"auction_id": auctionID,
		"bidder_id":  identity.UserID,
		"amount":     result.Bid.Amount,
	})
}

// GetBidsByAuctionHandler handles GET /auctions/:auction_id/bids
func (h *BiddingHandler) GetBidsByAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.GetBidsForAuction(c.Request.Context(), auctionID)
	if err != nil && !errors.Is(err, marketerrors.ErrNoBids) {
		common.RespondError(c, "GetBidsByAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.NewBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	common.LogSuccess("GetBidsByAuctionHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// GetLeadingBidHandler handles GET /auctions/:auction_id/leading
func (h *BiddingHandler) GetLeadingBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetLeadingBid(c.Request.Context(), auctionID)
	if err != nil {
		// For auction, leading bid not found -> 404
		if errors.Is(err, marketerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no leading bid found")
			utils.Info("GetLeadingBidHandler: no leading bid found", map[string]any{"auction_id": auctionID})
			return
		}
		common.RespondError(c, "GetLeadingBidHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "leading bid retrieved successfully")
	common.LogSuccess("GetLeadingBidHandler", "leading bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *BiddingHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		common.RespondError(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(auction, h.now()), "auction retrieved successfully")
}

// ListAuctionsHandler handles GET /auctions?category=&ending=soon
func (h *BiddingHandler) ListAuctionsHandler(c *gin.Context) {
	filter := model.AuctionFilter{
		Category:   c.Query("category"),
		EndingSoon: c.Query("ending") == "soon",
	}

	auctions, err := h.service.ListActiveAuctions(c.Request.Context(), filter)
	if err != nil {
		common.RespondError(c, "ListAuctionsHandler", err, map[string]any{"category": filter.Category})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponses(auctions, h.now()), "auctions retrieved successfully")
	common.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"category":    filter.Category,
		"ending_soon": filter.EndingSoon,
		"count":       len(auctions),
	})
}

// OpenAuctionHandler handles POST /auctions
func (h *BiddingHandler) OpenAuctionHandler(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c, "OpenAuctionHandler")
	if !ok {
		return
	}

	var req helpers.OpenAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.HandleBindError(c, "OpenAuctionHandler", err)
		return
	}

	auction, err := h.service.OpenAuction(c.Request.Context(), identity.UserID, req.ToAuctionInput())
	if err != nil {
		common.RespondError(c, "OpenAuctionHandler", err, map[string]any{"seller_id": identity.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(auction, h.now()), "auction created successfully")
	common.LogSuccess("OpenAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.ProductID,
		"seller_id":  identity.UserID,
	})
}

// EndAuctionHandler handles POST /auctions/:auction_id/end
func (h *BiddingHandler) EndAuctionHandler(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c, "EndAuctionHandler")
	if !ok {
		return
	}

	auctionID := c.Param("auction_id")
	auction, err := h.service.EndAuction(c.Request.Context(), auctionID, identity.UserID)
	if err != nil {
		common.RespondError(c, "EndAuctionHandler", err, map[string]any{
			"auction_id": auctionID,
			"seller_id":  identity.UserID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(auction, h.now()), "auction ended successfully")
	common.LogSuccess("EndAuctionHandler", "auction ended successfully", map[string]any{
		"auction_id": auctionID,
		"winner_id":  auction.LeadingBidderID,
	})
}

// GetMyAuctionsHandler handles GET /users/me/auctions
func (h *BiddingHandler) GetMyAuctionsHandler(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c, "GetMyAuctionsHandler")
	if !ok {
		return
	}

	auctions, err := h.service.GetAuctionsByBidder(c.Request.Context(), identity.UserID)
	if err != nil && !errors.Is(err, marketerrors.ErrBidderNoBids) {
		common.RespondError(c, "GetMyAuctionsHandler", err, map[string]any{"user_id": identity.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponses(auctions, h.now()), "auctions retrieved successfully")
	common.LogSuccess("GetMyAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"user_id":        identity.UserID,
		"auctions_count": len(auctions),
	})
}
