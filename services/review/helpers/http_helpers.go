package helpers

import (
	"time"

	model "marketplace/internal/models"
)

// NewReviewResponse converts a review to its wire form
func NewReviewResponse(rv model.Review) ReviewResponse {
	resp := ReviewResponse{
		ReviewID:       rv.ReviewID,
		ProductID:      rv.ProductID,
		AuthorID:       rv.AuthorID,
		Rating:         rv.Rating,
		Title:          rv.Title,
		Body:           rv.Body,
		SellerResponse: rv.SellerResponse,
		Approved:       rv.Approved,
		CreatedAt:      rv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rv.ApprovedAt != nil {
		at := rv.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	return resp
}

// NewReviewResponses converts a list of reviews
func NewReviewResponses(reviews []model.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, NewReviewResponse(rv))
	}
	return out
}

// NewRatingResponse converts a rating summary. Pass ok=false when no rating exists yet.
func NewRatingResponse(productID string, summary model.RatingSummary, ok bool) RatingResponse {
	resp := RatingResponse{ProductID: productID}
	if ok {
		avg := summary.Average
		resp.Rating = &avg
		resp.Count = summary.Count
	}
	return resp
}
