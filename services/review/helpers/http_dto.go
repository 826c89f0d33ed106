package helpers

// Request/Response DTOs
type SubmitReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body" binding:"required"`
}

type ReplyRequest struct {
	Response string `json:"response" binding:"required"`
}

type SubmitReviewResponse struct {
	ReviewID  string `json:"review_id"`
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
}

type ReviewResponse struct {
	ReviewID       string  `json:"review_id"`
	ProductID      string  `json:"product_id"`
	AuthorID       string  `json:"author_id"`
	Rating         int     `json:"rating"`
	Title          string  `json:"title"`
	Body           string  `json:"body"`
	SellerResponse string  `json:"seller_response,omitempty"`
	Approved       bool    `json:"approved"`
	ApprovedAt     *string `json:"approved_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// RatingResponse carries a nil Rating when the product has no approved reviews
type RatingResponse struct {
	ProductID string   `json:"product_id"`
	Rating    *float64 `json:"rating"`
	Count     int      `json:"count"`
}
