package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisputeStatus_Transitions(t *testing.T) {
	assert.True(t, DisputeOpen.CanTransitionTo(DisputeUnderReview))
	assert.True(t, DisputeOpen.CanTransitionTo(DisputeClosed))
	assert.True(t, DisputeUnderReview.CanTransitionTo(DisputeResolved))
	assert.False(t, DisputeUnderReview.CanTransitionTo(DisputeOpen))
	assert.False(t, DisputeResolved.CanTransitionTo(DisputeClosed))
	assert.False(t, DisputeClosed.CanTransitionTo(DisputeUnderReview))
}

func TestNewDispute_FromSeller(t *testing.T) {
	o := Order{ID: 10, UserID: 1, Items: []OrderItem{{ProductID: 5, SellerID: 2}, {ProductID: 5, SellerID: 2}, {ProductID: 6, SellerID: 3}}}

	d := NewDispute(o, 3, PartySeller, "no show", time.Now())

	assert.Equal(t, int64(1), d.BuyerID)
	assert.Equal(t, int64(3), d.SellerID)
	assert.Equal(t, []int64{5, 6}, d.ProductIDs)
	assert.Equal(t, DisputeOpen, d.Status)
	if assert.Len(t, d.Messages, 1) {
		assert.Equal(t, PartySeller, d.Messages[0].SenderRole)
		assert.Equal(t, "no show", d.Messages[0].Text)
	}
}

func TestSummarizeReviews(t *testing.T) {
	s := SummarizeReviews(2, []Review{{Rating: 5}, {Rating: 4}, {Rating: 4}, {Rating: 9}})
	assert.Equal(t, 3, s.TotalReviews)
	assert.Equal(t, 4.33, s.AverageRating)
	assert.Equal(t, 1, s.RatingCounts.FiveStar)
	assert.Equal(t, 2, s.RatingCounts.FourStar)
}
