package model

import "time"

// 受け渡し完了した注文に対する買い手のレビュー（1注文1件）
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;uniqueIndex" json:"order_id"`
	BuyerID   int64     `gorm:"not null;index" json:"buyer_id"`
	SellerID  int64     `gorm:"not null;index" json:"seller_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type RatingCounts struct {
	FiveStar  int `json:"five_star"`
	FourStar  int `json:"four_star"`
	ThreeStar int `json:"three_star"`
	TwoStar   int `json:"two_star"`
	OneStar   int `json:"one_star"`
}

type SellerRatingSummary struct {
	SellerID      int64        `json:"seller_id"`
	TotalReviews  int          `json:"total_reviews"`
	AverageRating float64      `json:"average_rating"`
	RatingCounts  RatingCounts `json:"rating_counts"`
}

func SummarizeReviews(sellerID int64, reviews []Review) SellerRatingSummary {
	s := SellerRatingSummary{SellerID: sellerID}
	sum := 0
	for _, r := range reviews {
		switch r.Rating {
		case 5:
			s.RatingCounts.FiveStar++
		case 4:
			s.RatingCounts.FourStar++
		case 3:
			s.RatingCounts.ThreeStar++
		case 2:
			s.RatingCounts.TwoStar++
		case 1:
			s.RatingCounts.OneStar++
		default:
			continue
		}
		sum += r.Rating
		s.TotalReviews++
	}
	if s.TotalReviews > 0 {
		//小数第2位まで
		s.AverageRating = float64(sum*100/s.TotalReviews) / 100
	}
	return s
}
