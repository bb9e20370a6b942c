package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidMoney = errors.New("invalid money")

// 金額は10進数の文字列として扱い、小数第2位で切り捨てる（float禁止）
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidMoney
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidMoney
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidMoney
	}
	return d.Truncate(2), nil
}

// レスポンス用（常に小数2桁）
func FormatMoney(d decimal.Decimal) string {
	return d.Truncate(2).StringFixed(2)
}
