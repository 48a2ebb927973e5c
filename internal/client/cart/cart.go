package cart

import (
	"github.com/shopspring/decimal"
)

// クライアント側のカート1行（productIdで一意）
type LineItem struct {
	ProductID     string              `json:"productId"`
	Name          string              `json:"name"`
	Images        []string            `json:"images"`
	RegularPrice  decimal.Decimal     `json:"regularPrice"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	Quantity      int64               `json:"quantity"`
}

// 割引価格が0より大きければそちら
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.DiscountPrice.Valid && li.DiscountPrice.Decimal.IsPositive() {
		return li.DiscountPrice.Decimal
	}
	return li.RegularPrice
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice().Mul(decimal.NewFromInt(li.Quantity))
}

// 同じ商品なら数量を足す、無ければ末尾に追加
// 数量が1未満の追加は無視する
func AddToCart(items []LineItem, item LineItem) []LineItem {
	if item.Quantity <= 0 {
		return Replace(items)
	}
	out := make([]LineItem, 0, len(items)+1)
	merged := false
	for _, it := range items {
		if !merged && it.ProductID == item.ProductID {
			it.Quantity += item.Quantity
			merged = true
		}
		out = append(out, it)
	}
	if !merged {
		out = append(out, item)
	}
	return out
}

func RemoveFromCart(items []LineItem, productID string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == productID {
			continue
		}
		out = append(out, it)
	}
	return out
}

// 数量は1未満にしない
func ChangeQuantity(items []LineItem, productID string, delta int64) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == productID {
			it.Quantity = max(1, it.Quantity+delta)
		}
		out = append(out, it)
	}
	return out
}

func Replace(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
