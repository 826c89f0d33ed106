package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/marketerrors"
	model "marketplace/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool used by PostgresRepo. pgxmock pools satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresRepo implements Store on PostgreSQL
type PostgresRepo struct {
	db DBTX
}

// NewPostgresRepo creates a PostgreSQL-backed store
func NewPostgresRepo(db DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const productColumns = `id, seller_id, title, description, category, price, is_auction, starting_bid,
		current_bid, leading_bidder_id, bid_count, buy_now_price, auction_end, created_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ProductID,
		&p.SellerID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.IsAuction,
		&p.StartingBid,
		&p.CurrentBid,
		&p.LeadingBidderID,
		&p.BidCount,
		&p.BuyNowPrice,
		&p.AuctionEnd,
		&p.CreatedAt,
	)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// CreateProduct inserts a product listing
func (r *PostgresRepo) CreateProduct(ctx context.Context, p model.Product) (err error) {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING`

	ctx, end := traceQuery(ctx, "CreateProduct", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query,
		p.ProductID,
		p.SellerID,
		p.Title,
		p.Description,
		p.Category,
		p.Price,
		p.IsAuction,
		p.StartingBid,
		p.CurrentBid,
		p.LeadingBidderID,
		p.BidCount,
		p.BuyNowPrice,
		p.AuctionEnd,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insert product %s: %w", p.ProductID, marketerrors.ErrProductAlreadyExists)
	}
	return nil
}

// GetProduct returns a product by id
func (r *PostgresRepo) GetProduct(ctx context.Context, productID string) (p model.Product, err error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	ctx, end := traceQuery(ctx, "GetProduct", query)
	defer func() { end(err) }()

	p, err = scanProduct(r.db.QueryRow(ctx, query, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, fmt.Errorf("get product %s: %w", productID, marketerrors.ErrProductNotFound)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product %s: %w", productID, err)
	}
	return p, nil
}

// ListActiveAuctions returns open auctions ordered by closing time
func (r *PostgresRepo) ListActiveAuctions(ctx context.Context, now time.Time, filter model.AuctionFilter) (auctions []model.Product, err error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_auction AND auction_end > $1
		  AND ($2 = '' OR category = $2)
		  AND (NOT $3 OR auction_end <= $4)
		ORDER BY auction_end ASC`

	ctx, end := traceQuery(ctx, "ListActiveAuctions", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, now, filter.Category, filter.EndingSoon, now.Add(endingSoonWindow))
	if err != nil {
		return nil, fmt.Errorf("list active auctions: %w", err)
	}
	return collectProducts(rows)
}

// RecordBid locks the auction row, checks it is open and outbid, then
// applies a conditional update and inserts the bid in one transaction.
func (r *PostgresRepo) RecordBid(ctx context.Context, bid model.Bid, closeAuction bool) (before model.Product, err error) {
	ctx, end := traceQuery(ctx, "RecordBid", "UPDATE products SET current_bid ...")
	defer func() { end(err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Product{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	before, err = scanProduct(tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, bid.AuctionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, marketerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("lock auction %s: %w", bid.AuctionID, err)
	}
	if !before.IsAuction {
		return model.Product{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, marketerrors.ErrAuctionNotFound)
	}
	if before.IsClosed(bid.CreatedAt) {
		return model.Product{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, marketerrors.ErrAuctionClosed)
	}

	update := `
		UPDATE products
		SET current_bid = $2,
		    leading_bidder_id = $3,
		    bid_count = bid_count + 1,
		    auction_end = CASE WHEN $5 THEN $4 ELSE auction_end END
		WHERE id = $1
		  AND is_auction
		  AND auction_end > $4
		  AND $2 > CASE WHEN bid_count > 0 THEN current_bid ELSE starting_bid END`

	tag, err := tx.Exec(ctx, update, bid.AuctionID, bid.Amount, bid.BidderID, bid.CreatedAt, closeAuction)
	if err != nil {
		return model.Product{}, fmt.Errorf("update leading bid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Product{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, marketerrors.ErrBidTooLow)
	}

	insert := `
		INSERT INTO bids (id, auction_id, bidder_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, insert, bid.BidID, bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt); err != nil {
		return model.Product{}, fmt.Errorf("insert bid: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Product{}, fmt.Errorf("commit bid: %w", err)
	}
	return before, nil
}

func collectBids(rows pgx.Rows) ([]model.Bid, error) {
	defer rows.Close()

	bids := make([]model.Bid, 0)
	for rows.Next() {
		var b model.Bid
		if err := rows.Scan(&b.BidID, &b.AuctionID, &b.BidderID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bid row: %w", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bid rows: %w", err)
	}
	return bids, nil
}

// GetBidsByAuction returns all bids for an auction, highest first
func (r *PostgresRepo) GetBidsByAuction(ctx context.Context, auctionID string) (bids []model.Bid, err error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, created_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC`

	ctx, end := traceQuery(ctx, "GetBidsByAuction", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	bids, err = collectBids(rows)
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, marketerrors.ErrNoBids)
	}
	return bids, nil
}

// GetLeadingBid returns the highest bid for an auction
func (r *PostgresRepo) GetLeadingBid(ctx context.Context, auctionID string) (b model.Bid, err error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, created_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC
		LIMIT 1`

	ctx, end := traceQuery(ctx, "GetLeadingBid", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, auctionID).Scan(&b.BidID, &b.AuctionID, &b.BidderID, &b.Amount, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get leading bid for auction %s: %w", auctionID, marketerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get leading bid: %w", err)
	}
	return b, nil
}

// GetAuctionsByBidder returns all auctions a user has bid on
func (r *PostgresRepo) GetAuctionsByBidder(ctx context.Context, bidderID string) (auctions []model.Product, err error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id IN (SELECT auction_id FROM bids WHERE bidder_id = $1)
		ORDER BY auction_end DESC, id`

	ctx, end := traceQuery(ctx, "GetAuctionsByBidder", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, bidderID)
	if err != nil {
		return nil, fmt.Errorf("list auctions by bidder: %w", err)
	}
	auctions, err = collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(auctions) == 0 {
		return nil, fmt.Errorf("get auctions for bidder %s: %w", bidderID, marketerrors.ErrBidderNoBids)
	}
	return auctions, nil
}

// CloseAuction ends an open auction at the given time
func (r *PostgresRepo) CloseAuction(ctx context.Context, auctionID string, at time.Time) (err error) {
	query := `
		UPDATE products
		SET auction_end = $2
		WHERE id = $1 AND is_auction AND auction_end > $2`

	ctx, end := traceQuery(ctx, "CloseAuction", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, auctionID, at)
	if err != nil {
		return fmt.Errorf("close auction: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	p, err := r.GetProduct(ctx, auctionID)
	if err != nil || !p.IsAuction {
		return fmt.Errorf("close auction %s: %w", auctionID, marketerrors.ErrAuctionNotFound)
	}
	return fmt.Errorf("close auction %s: %w", auctionID, marketerrors.ErrAuctionClosed)
}

const reviewColumns = `id, product_id, author_id, rating, title, body, seller_response, is_approved, approved_at, created_at`

const qualifiedReviewColumns = `reviews.id, reviews.product_id, reviews.author_id, reviews.rating, reviews.title, reviews.body,
		reviews.seller_response, reviews.is_approved, reviews.approved_at, reviews.created_at`

func scanReview(row pgx.Row) (model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ReviewID,
		&rv.ProductID,
		&rv.AuthorID,
		&rv.Rating,
		&rv.Title,
		&rv.Body,
		&rv.SellerResponse,
		&rv.Approved,
		&rv.ApprovedAt,
		&rv.CreatedAt,
	)
	return rv, err
}

func collectReviews(rows pgx.Rows) ([]model.Review, error) {
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}

// UpsertReview inserts a pending review or resets the author's existing one
func (r *PostgresRepo) UpsertReview(ctx context.Context, rv model.Review) (id string, err error) {
	query := `
		INSERT INTO reviews (id, product_id, author_id, rating, title, body, is_approved, approved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NULL, $7)
		ON CONFLICT (product_id, author_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			created_at = EXCLUDED.created_at,
			is_approved = FALSE,
			approved_at = NULL
		RETURNING id`

	ctx, end := traceQuery(ctx, "UpsertReview", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query,
		rv.ReviewID,
		rv.ProductID,
		rv.AuthorID,
		rv.Rating,
		rv.Title,
		rv.Body,
		rv.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert review: %w", err)
	}
	return id, nil
}

// GetReview returns a review by id
func (r *PostgresRepo) GetReview(ctx context.Context, reviewID string) (rv model.Review, err error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	ctx, end := traceQuery(ctx, "GetReview", query)
	defer func() { end(err) }()

	rv, err = scanReview(r.db.QueryRow(ctx, query, reviewID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Review{}, fmt.Errorf("get review %s: %w", reviewID, marketerrors.ErrReviewNotFound)
	}
	if err != nil {
		return model.Review{}, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

// ApproveReview approves a review, keeping approved_at from the first approval
func (r *PostgresRepo) ApproveReview(ctx context.Context, reviewID string, at time.Time) (rv model.Review, changed bool, err error) {
	// prev locks the row so two concurrent approvals cannot both see it pending
	query := `
		WITH prev AS (
			SELECT id, is_approved AS was_approved FROM reviews WHERE id = $1 FOR UPDATE
		)
		UPDATE reviews
		SET is_approved = TRUE,
		    approved_at = COALESCE(reviews.approved_at, $2)
		FROM prev
		WHERE reviews.id = prev.id
		RETURNING ` + qualifiedReviewColumns + `, NOT prev.was_approved`

	ctx, end := traceQuery(ctx, "ApproveReview", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, reviewID, at).Scan(
		&rv.ReviewID,
		&rv.ProductID,
		&rv.AuthorID,
		&rv.Rating,
		&rv.Title,
		&rv.Body,
		&rv.SellerResponse,
		&rv.Approved,
		&rv.ApprovedAt,
		&rv.CreatedAt,
		&changed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Review{}, false, fmt.Errorf("approve review %s: %w", reviewID, marketerrors.ErrReviewNotFound)
	}
	if err != nil {
		return model.Review{}, false, fmt.Errorf("approve review: %w", err)
	}
	return rv, changed, nil
}

// DeleteReview permanently removes a review
func (r *PostgresRepo) DeleteReview(ctx context.Context, reviewID string) (err error) {
	query := `DELETE FROM reviews WHERE id = $1`

	ctx, end := traceQuery(ctx, "DeleteReview", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, reviewID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete review %s: %w", reviewID, marketerrors.ErrReviewNotFound)
	}
	return nil
}

// SetSellerResponse stores the seller's reply on a review
func (r *PostgresRepo) SetSellerResponse(ctx context.Context, reviewID, response string) (err error) {
	query := `UPDATE reviews SET seller_response = $2 WHERE id = $1`

	ctx, end := traceQuery(ctx, "SetSellerResponse", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, reviewID, response)
	if err != nil {
		return fmt.Errorf("set seller response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set seller response on review %s: %w", reviewID, marketerrors.ErrReviewNotFound)
	}
	return nil
}

// ListApprovedReviews returns a product's approved reviews, newest first
func (r *PostgresRepo) ListApprovedReviews(ctx context.Context, productID string) (reviews []model.Review, err error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1 AND is_approved
		ORDER BY created_at DESC`

	ctx, end := traceQuery(ctx, "ListApprovedReviews", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list approved reviews: %w", err)
	}
	return collectReviews(rows)
}

var moderationQueries = map[model.ReviewStatus]string{
	model.ReviewStatusPending:  `SELECT ` + reviewColumns + ` FROM reviews WHERE NOT is_approved ORDER BY created_at DESC`,
	model.ReviewStatusApproved: `SELECT ` + reviewColumns + ` FROM reviews WHERE is_approved ORDER BY approved_at DESC`,
	model.ReviewStatusAll:      `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`,
}

// ListReviewsByStatus returns the moderation queue for status
func (r *PostgresRepo) ListReviewsByStatus(ctx context.Context, status model.ReviewStatus) (reviews []model.Review, err error) {
	query, ok := moderationQueries[status]
	if !ok {
		return nil, marketerrors.NewValidationError(marketerrors.ErrInvalidReview, "status", "must be one of pending, approved, all")
	}

	ctx, end := traceQuery(ctx, "ListReviewsByStatus", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reviews by status: %w", err)
	}
	return collectReviews(rows)
}

// ApprovedRatingSummary averages the approved ratings of a product
func (r *PostgresRepo) ApprovedRatingSummary(ctx context.Context, productID string) (summary model.RatingSummary, err error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE product_id = $1 AND is_approved`

	ctx, end := traceQuery(ctx, "ApprovedRatingSummary", query)
	defer func() { end(err) }()

	summary.ProductID = productID
	if err = r.db.QueryRow(ctx, query, productID).Scan(&summary.Average, &summary.Count); err != nil {
		return model.RatingSummary{}, fmt.Errorf("get rating summary: %w", err)
	}
	return summary, nil
}

// ModerationStats counts pending and approved reviews
func (r *PostgresRepo) ModerationStats(ctx context.Context) (stats model.ModerationStats, err error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE NOT is_approved),
		       COUNT(*) FILTER (WHERE is_approved),
		       COUNT(*)
		FROM reviews`

	ctx, end := traceQuery(ctx, "ModerationStats", query)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, query).Scan(&stats.Pending, &stats.Approved, &stats.Total); err != nil {
		return model.ModerationStats{}, fmt.Errorf("get moderation stats: %w", err)
	}
	return stats, nil
}

// CreateNotification inserts a notification
func (r *PostgresRepo) CreateNotification(ctx context.Context, n model.Notification) (err error) {
	query := `
		INSERT INTO notifications (id, user_id, message, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := traceQuery(ctx, "CreateNotification", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, n.NotificationID, n.UserID, n.Message, n.Link, n.Read, n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns up to limit notifications for a user, newest first
func (r *PostgresRepo) ListNotifications(ctx context.Context, userID string, limit int) (notifications []model.Notification, err error) {
	query := `
		SELECT id, user_id, message, link, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	ctx, end := traceQuery(ctx, "ListNotifications", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications = make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}
	return notifications, nil
}

// MarkAllRead marks every unread notification of a user as read
func (r *PostgresRepo) MarkAllRead(ctx context.Context, userID string) (updated int, err error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`

	ctx, end := traceQuery(ctx, "MarkAllRead", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
