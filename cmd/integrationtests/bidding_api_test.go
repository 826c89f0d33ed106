package integrationtests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	model "marketplace/internal/models"
	"marketplace/services/bidding/helpers"

	"github.com/stretchr/testify/require"
)

// PlaceBidHandler Tests
func TestPlaceBid(t *testing.T) {
	tests := []struct {
		name       string
		bidder     string
		request    any
		wantStatus int
		wantReason string
	}{
		{name: "Valid_Bid", bidder: "buyer1", request: helpers.PlaceBidRequest{Amount: 100}, wantStatus: http.StatusCreated},
		{name: "Invalid_JSON", bidder: "buyer1", request: "{amount: 'missing quotes'}", wantStatus: http.StatusBadRequest},
		{name: "Equal_To_Starting_Bid", bidder: "buyer1", request: helpers.PlaceBidRequest{Amount: 50}, wantStatus: http.StatusConflict, wantReason: "bid-too-low"},
		{name: "Seller_Bids_On_Own_Auction", bidder: "seller1", request: helpers.PlaceBidRequest{Amount: 100}, wantStatus: http.StatusForbidden, wantReason: "self-bid-forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := SetupTestApp(t, openAuction("a1", "seller1", 50, 0))
			resp, w := app.Do(t, http.MethodPost, "/auctions/a1/bids", app.Token(t, tt.bidder, model.RoleBuyer), tt.request)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantReason != "" {
				require.Equal(t, tt.wantReason, resp["reason"])
			}
			if tt.wantStatus == http.StatusCreated {
				data := resp["data"].(map[string]any)
				bid := data["bid"].(map[string]any)
				require.Equal(t, "a1", bid["auction_id"])
				require.Equal(t, tt.bidder, bid["bidder_id"])
				require.Equal(t, 100.0, bid["amount"])
				require.NotEmpty(t, bid["bid_id"])

				_, err := time.Parse(time.RFC3339, bid["created_at"].(string))
				require.NoError(t, err)
			}
		})
	}
}

func TestPlaceBid_UnknownAuction(t *testing.T) {
	app := SetupTestApp(t)
	resp, w := app.Do(t, http.MethodPost, "/auctions/ghost/bids", app.Token(t, "buyer1", model.RoleBuyer), helpers.PlaceBidRequest{Amount: 10})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "auction-not-found", resp["reason"])
}

func TestPlaceBid_ClosedAuction(t *testing.T) {
	ended := openAuction("a1", "seller1", 10, 0)
	ended.AuctionEnd = time.Now().Add(-time.Minute)
	app := SetupTestApp(t, ended)

	resp, w := app.Do(t, http.MethodPost, "/auctions/a1/bids", app.Token(t, "buyer1", model.RoleBuyer), helpers.PlaceBidRequest{Amount: 1000})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "auction-closed", resp["reason"])
}

func TestBiddingSequence(t *testing.T) {
	app := SetupTestApp(t, openAuction("a1", "seller1", 10, 0))
	alice := app.Token(t, "alice", model.RoleBuyer)
	bob := app.Token(t, "bob", model.RoleBuyer)

	steps := []struct {
		token      string
		amount     float64
		wantStatus int
	}{
		{alice, 12, http.StatusCreated},
		{bob, 12, http.StatusConflict},
		{bob, 15, http.StatusCreated},
		{alice, 14, http.StatusConflict},
	}
	for i, step := range steps {
		_, w := app.Do(t, http.MethodPost, "/auctions/a1/bids", step.token, helpers.PlaceBidRequest{Amount: step.amount})
		require.Equal(t, step.wantStatus, w.Code, "step %d", i)
	}

	resp, w := app.Do(t, http.MethodGet, "/auctions/a1/leading", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	leading := resp["data"].(map[string]any)
	require.Equal(t, "bob", leading["bidder_id"])
	require.Equal(t, 15.0, leading["amount"])

	resp, w = app.Do(t, http.MethodGet, "/auctions/no-such-auction/leading", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "auction not found", resp["message"])

	resp, w = app.Do(t, http.MethodGet, "/auctions/a1/bids", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 2)

	// seller heard about both bids, alice was told she was outbid
	require.Len(t, app.Notifications(t, "seller1"), 2)
	aliceNotes := app.Notifications(t, "alice")
	require.Len(t, aliceNotes, 1)
	require.Contains(t, aliceNotes[0].Message, "outbid")

	resp, w = app.Do(t, http.MethodGet, "/notifications", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1.0, resp["data"].(map[string]any)["unread"])

	resp, w = app.Do(t, http.MethodPost, "/notifications/read", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1.0, resp["data"].(map[string]any)["marked"])

	resp, w = app.Do(t, http.MethodGet, "/users/me/auctions", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)
}

func TestBuyNow(t *testing.T) {
	app := SetupTestApp(t, openAuction("a1", "seller1", 100, 500))
	buyer := app.Token(t, "buyer1", model.RoleBuyer)

	resp, w := app.Do(t, http.MethodPost, "/auctions/a1/bids", buyer, helpers.PlaceBidRequest{Amount: 650})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "auction won with buy now", resp["message"])
	data := resp["data"].(map[string]any)
	require.Equal(t, true, data["auction_closed"])
	require.Equal(t, 500.0, data["bid"].(map[string]any)["amount"])

	resp, w = app.Do(t, http.MethodPost, "/auctions/a1/bids", app.Token(t, "buyer2", model.RoleBuyer), helpers.PlaceBidRequest{Amount: 900})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "auction-closed", resp["reason"])

	resp, w = app.Do(t, http.MethodGet, "/auctions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, resp["data"], "a closed auction is not listed as active")
}

func TestOpenAndEndAuction(t *testing.T) {
	app := SetupTestApp(t)
	seller := app.Token(t, "seller1", model.RoleSeller)
	buyer := app.Token(t, "buyer1", model.RoleBuyer)

	req := helpers.OpenAuctionRequest{
		Title:       "Mechanical Watch",
		Category:    "watches",
		StartingBid: 200,
		BuyNowPrice: 900,
		AuctionEnd:  time.Now().Add(48 * time.Hour).UTC(),
	}

	_, w := app.Do(t, http.MethodPost, "/auctions", buyer, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w := app.Do(t, http.MethodPost, "/auctions", seller, req)
	require.Equal(t, http.StatusCreated, w.Code)
	auctionID := resp["data"].(map[string]any)["auction_id"].(string)
	require.NotEmpty(t, auctionID)

	resp, w = app.Do(t, http.MethodGet, "/auctions?category=watches", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	_, w = app.Do(t, http.MethodPost, fmt.Sprintf("/auctions/%s/bids", auctionID), buyer, helpers.PlaceBidRequest{Amount: 250})
	require.Equal(t, http.StatusCreated, w.Code)

	_, w = app.Do(t, http.MethodPost, fmt.Sprintf("/auctions/%s/end", auctionID), buyer, nil)
	require.Equal(t, http.StatusForbidden, w.Code, "only the seller may end the auction")

	resp, w = app.Do(t, http.MethodPost, fmt.Sprintf("/auctions/%s/end", auctionID), seller, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["data"].(map[string]any)["closed"])

	notes := app.Notifications(t, "buyer1")
	require.NotEmpty(t, notes)
	require.Contains(t, notes[0].Message, "Congratulations")

	resp, w = app.Do(t, http.MethodPost, fmt.Sprintf("/auctions/%s/end", auctionID), seller, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "auction-closed", resp["reason"])
}

func TestConcurrentBidsOverHTTP(t *testing.T) {
	app := SetupTestApp(t, openAuction("a1", "seller1", 10, 0))

	const bidders = 30
	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		token := app.Token(t, fmt.Sprintf("user-%d", i), model.RoleBuyer)
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			app.Do(t, http.MethodPost, "/auctions/a1/bids", token, helpers.PlaceBidRequest{Amount: float64(20 + i)})
		}(i, token)
	}
	wg.Wait()

	resp, w := app.Do(t, http.MethodGet, "/auctions/a1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	auction := resp["data"].(map[string]any)
	require.Equal(t, float64(20+bidders-1), auction["current_bid"])
	require.Equal(t, fmt.Sprintf("user-%d", bidders-1), auction["leading_bidder_id"])
}
