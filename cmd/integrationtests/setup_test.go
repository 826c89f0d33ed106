package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/auth"
	bidding "marketplace/internal/biddingService"
	"marketplace/internal/cache"
	model "marketplace/internal/models"
	"marketplace/internal/notification"
	"marketplace/internal/repository"
	review "marketplace/internal/reviewService"
	"marketplace/internal/server"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

// testApp is the full HTTP stack over the in-memory store and a miniredis rating cache
type testApp struct {
	router   *gin.Engine
	repo     *repository.MemoryRepo
	verifier *auth.TokenVerifier
}

// SetupTestApp initializes the router and seeds the store with products.
func SetupTestApp(t *testing.T, products ...model.Product) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	for _, p := range products {
		repo.AddProduct(p)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	notifier := notification.NewService(repo, nil)
	verifier := auth.NewTokenVerifier(testSecret)

	router := server.SetupRouter(server.Dependencies{
		Bidding:       bidding.NewBiddingService(repo, bidding.WithNotifier(notifier)),
		Reviews:       review.NewReviewService(repo, repo, review.WithRatingCache(cache.NewRedisRatingCache(client, time.Minute))),
		Notifications: notifier,
		Verifier:      verifier,
	})

	return &testApp{router: router, repo: repo, verifier: verifier}
}

// Token issues a bearer token the way the identity layer would
func (a *testApp) Token(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	token, err := a.verifier.Issue(model.Identity{UserID: userID, Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

// Do executes an HTTP request on the app and parses the envelope
func (a *testApp) Do(t *testing.T, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	a.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// Notifications returns the stored notifications of a user, newest first
func (a *testApp) Notifications(t *testing.T, userID string) []model.Notification {
	t.Helper()
	items, err := a.repo.ListNotifications(context.Background(), userID, 0)
	require.NoError(t, err)
	return items
}

// openAuction is an auction listing closing in an hour
func openAuction(id, sellerID string, startingBid, buyNow float64) model.Product {
	return model.Product{
		ProductID:   id,
		SellerID:    sellerID,
		Title:       "Listing " + id,
		Category:    "cameras",
		IsAuction:   true,
		StartingBid: startingBid,
		Price:       startingBid,
		BuyNowPrice: buyNow,
		AuctionEnd:  time.Now().Add(time.Hour),
		CreatedAt:   time.Now(),
	}
}
