package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category は商品カテゴリを表します
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

// CategorySummary はカテゴリと所属商品数です
type CategorySummary struct {
	Category
	ProductCount int
}

// Product はカタログ上の商品を表します
// 価格はユーロのセント単位で保持します
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	CategoryID  *uuid.UUID
	Category    *Category
	CreatedAt   time.Time
}

// Price は価格をユーロ単位で返します
func (p *Product) Price() float64 {
	return float64(p.PriceCents) / 100
}
