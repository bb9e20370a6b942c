package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// 検索用の正規化。全角・半角、大文字・小文字、ß→ss などの違いを吸収する。
// 保存側（search_text）と検索語の両方に同じものをかける。
func SearchKey(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

func (p Product) SearchSource() string {
	return SearchKey(p.Title + "\n" + p.Description)
}

// db.Createのどの経路でもsearch_textを埋める。更新側はリポジトリで明示的に入れる。
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.SearchText = p.SearchSource()
	return nil
}

// LIKEのワイルドカードを文字として扱う（ESCAPE '\'と組で使う）
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
