package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/marketerrors"
	model "marketplace/internal/models"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{
	"id", "seller_id", "title", "description", "category", "price", "is_auction", "starting_bid",
	"current_bid", "leading_bidder_id", "bid_count", "buy_now_price", "auction_end", "created_at",
}

var reviewRowColumns = []string{
	"id", "product_id", "author_id", "rating", "title", "body", "seller_response", "is_approved", "approved_at", "created_at",
}

func newMockRepo(t *testing.T) (*PostgresRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepo(mock), mock
}

func productRow(p model.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productRowColumns).AddRow(
		p.ProductID, p.SellerID, p.Title, p.Description, p.Category, p.Price, p.IsAuction, p.StartingBid,
		p.CurrentBid, p.LeadingBidderID, p.BidCount, p.BuyNowPrice, p.AuctionEnd, p.CreatedAt,
	)
}

func TestPostgresRepo_CreateProduct(t *testing.T) {
	p := newAuction("a1", "seller1", 10, base.Add(time.Hour))

	t.Run("inserted", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("INSERT INTO products").
			WithArgs(p.ProductID, p.SellerID, p.Title, p.Description, p.Category, p.Price, p.IsAuction, p.StartingBid,
				p.CurrentBid, p.LeadingBidderID, p.BidCount, p.BuyNowPrice, p.AuctionEnd, p.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.CreateProduct(context.Background(), p))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("INSERT INTO products").WillReturnResult(pgxmock.NewResult("INSERT", 0))

		err := repo.CreateProduct(context.Background(), p)
		require.ErrorIs(t, err, marketerrors.ErrProductAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepo_GetProduct(t *testing.T) {
	p := newAuction("a1", "seller1", 10, base.Add(time.Hour))

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT .+ FROM products WHERE id").WithArgs("a1").WillReturnRows(productRow(p))

		got, err := repo.GetProduct(context.Background(), "a1")
		require.NoError(t, err)
		require.Equal(t, p, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT .+ FROM products WHERE id").WithArgs("nope").WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetProduct(context.Background(), "nope")
		require.ErrorIs(t, err, marketerrors.ErrProductNotFound)
		require.ErrorIs(t, err, marketerrors.ErrNotFound)
	})
}

func TestPostgresRepo_RecordBid(t *testing.T) {
	auction := newAuction("a1", "seller1", 10, base.Add(time.Hour))
	bid := newBid("b1", "a1", "buyer1", 25, base)

	t.Run("accepted", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM products WHERE id = \\$1 FOR UPDATE").WithArgs("a1").WillReturnRows(productRow(auction))
		mock.ExpectExec("UPDATE products").
			WithArgs(bid.AuctionID, bid.Amount, bid.BidderID, bid.CreatedAt, false).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("INSERT INTO bids").
			WithArgs(bid.BidID, bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		before, err := repo.RecordBid(context.Background(), bid, false)
		require.NoError(t, err)
		require.Equal(t, auction, before)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outbid_by_concurrent_writer", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FOR UPDATE").WithArgs("a1").WillReturnRows(productRow(auction))
		mock.ExpectExec("UPDATE products").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		_, err := repo.RecordBid(context.Background(), bid, false)
		require.ErrorIs(t, err, marketerrors.ErrBidTooLow)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("closed", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		closed := auction
		closed.AuctionEnd = base
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FOR UPDATE").WithArgs("a1").WillReturnRows(productRow(closed))
		mock.ExpectRollback()

		_, err := repo.RecordBid(context.Background(), bid, false)
		require.ErrorIs(t, err, marketerrors.ErrAuctionClosed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FOR UPDATE").WithArgs("a1").WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.RecordBid(context.Background(), bid, false)
		require.ErrorIs(t, err, marketerrors.ErrAuctionNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert_failure_rolls_back", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FOR UPDATE").WithArgs("a1").WillReturnRows(productRow(auction))
		mock.ExpectExec("UPDATE products").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("INSERT INTO bids").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, err := repo.RecordBid(context.Background(), bid, false)
		require.ErrorContains(t, err, "insert bid")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepo_GetAuctionsByBidder(t *testing.T) {
	t.Run("latest_ending_first", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		late := newAuction("late", "seller1", 10, base.Add(3*time.Hour))
		early := newAuction("early", "seller1", 10, base.Add(time.Hour))
		rows := pgxmock.NewRows(productRowColumns)
		for _, p := range []model.Product{late, early} {
			rows.AddRow(
				p.ProductID, p.SellerID, p.Title, p.Description, p.Category, p.Price, p.IsAuction, p.StartingBid,
				p.CurrentBid, p.LeadingBidderID, p.BidCount, p.BuyNowPrice, p.AuctionEnd, p.CreatedAt,
			)
		}
		mock.ExpectQuery(`ORDER BY auction_end DESC, id`).WithArgs("user1").WillReturnRows(rows)

		auctions, err := repo.GetAuctionsByBidder(context.Background(), "user1")
		require.NoError(t, err)
		require.Len(t, auctions, 2)
		require.Equal(t, "late", auctions[0].ProductID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no_bids", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("FROM products").WithArgs("nobody").WillReturnRows(pgxmock.NewRows(productRowColumns))

		_, err := repo.GetAuctionsByBidder(context.Background(), "nobody")
		require.ErrorIs(t, err, marketerrors.ErrBidderNoBids)
	})
}

func TestPostgresRepo_Reviews(t *testing.T) {
	approvedAt := base.Add(time.Hour)

	t.Run("approve_missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("UPDATE reviews").WithArgs("r1", base).WillReturnError(pgx.ErrNoRows)

		_, _, err := repo.ApproveReview(context.Background(), "r1", base)
		require.ErrorIs(t, err, marketerrors.ErrReviewNotFound)
	})

	approveColumns := append(append([]string{}, reviewRowColumns...), "changed")

	t.Run("approve_first_time", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("FOR UPDATE").WithArgs("r1", base).WillReturnRows(
			pgxmock.NewRows(approveColumns).AddRow("r1", "p1", "u1", 4, "t", "b", "", true, &base, base, true),
		)

		rv, changed, err := repo.ApproveReview(context.Background(), "r1", base)
		require.NoError(t, err)
		require.True(t, changed)
		require.True(t, rv.Approved)
		require.True(t, rv.ApprovedAt.Equal(base))
	})

	t.Run("approve_already_approved", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("UPDATE reviews").WithArgs("r1", base).WillReturnRows(
			pgxmock.NewRows(approveColumns).AddRow("r1", "p1", "u1", 4, "t", "b", "", true, &approvedAt, base, false),
		)

		rv, changed, err := repo.ApproveReview(context.Background(), "r1", base)
		require.NoError(t, err)
		require.False(t, changed)
		require.True(t, rv.ApprovedAt.Equal(approvedAt), "the first approval time is kept")
	})

	t.Run("upsert_returns_existing_id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("INSERT INTO reviews").
			WithArgs("new-id", "p1", "u1", 5, "t", "b", base).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("r-existing"))

		id, err := repo.UpsertReview(context.Background(), model.Review{
			ReviewID: "new-id", ProductID: "p1", AuthorID: "u1", Rating: 5, Title: "t", Body: "b", CreatedAt: base,
		})
		require.NoError(t, err)
		require.Equal(t, "r-existing", id)
	})

	t.Run("delete_missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("DELETE FROM reviews").WithArgs("r1").WillReturnResult(pgxmock.NewResult("DELETE", 0))

		require.ErrorIs(t, repo.DeleteReview(context.Background(), "r1"), marketerrors.ErrReviewNotFound)
	})

	t.Run("rating_summary", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT COALESCE\\(AVG\\(rating\\), 0\\)").WithArgs("p1").
			WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(3.5, 2))

		summary, err := repo.ApprovedRatingSummary(context.Background(), "p1")
		require.NoError(t, err)
		require.Equal(t, model.RatingSummary{ProductID: "p1", Average: 3.5, Count: 2}, summary)
	})

	t.Run("unknown_status", func(t *testing.T) {
		repo, _ := newMockRepo(t)
		_, err := repo.ListReviewsByStatus(context.Background(), model.ReviewStatus("spam"))
		require.ErrorIs(t, err, marketerrors.ErrValidation)
	})
}

func TestPostgresRepo_Notifications(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM notifications").WithArgs("u1", 50).WillReturnRows(
		pgxmock.NewRows([]string{"id", "user_id", "message", "link", "is_read", "created_at"}).
			AddRow("n2", "u1", "outbid", "/auctions/a1", false, base.Add(time.Minute)).
			AddRow("n1", "u1", "new bid", "/auctions/a1", true, base),
	)
	mock.ExpectExec("UPDATE notifications SET is_read").WithArgs("u1").WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	items, err := repo.ListNotifications(context.Background(), "u1", 50)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "n2", items[0].NotificationID)

	marked, err := repo.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 1, marked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	t.Run("applies_pending", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs("001_init.up.sql").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
		mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("001_init.up.sql").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, RunMigrations(context.Background(), mock))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips_applied", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs("001_init.up.sql").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, RunMigrations(context.Background(), mock))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConnectBackoff(t *testing.T) {
	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		got := connectBackoff(attempt)
		require.InDelta(t, float64(want), float64(got), float64(want)/4)
	}
}
