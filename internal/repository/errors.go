package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// 注文番号のユニーク制約違反（新しいサフィックスで再試行する）
	ErrDuplicateOrderNumber = errors.New("duplicate order number")

	// 1注文1レビュー
	ErrDuplicateReview = errors.New("review already exists")

	ErrEmailTaken = errors.New("email already used")
)
