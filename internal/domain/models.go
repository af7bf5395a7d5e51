package domain

import "time"

// LedgerRow is one discount record from the point-of-sale ledger export.
type LedgerRow struct {
	Store    string    `json:"store"`
	Date     time.Time `json:"date"`
	Document string    `json:"document"`
	Till     string    `json:"till"`
	Value    Number    `json:"value"`
	Discount Number    `json:"discount"`
	Type     string    `json:"type"`
	Client   string    `json:"client"`
	Operator string    `json:"operator"`
}

// CouponRow is one sale line item from a monthly coupon spreadsheet.
type CouponRow struct {
	Store           string    `json:"store"`
	CouponNumber    string    `json:"coupon_number"`
	Date            time.Time `json:"date"`
	PDV             string    `json:"pdv"`
	Item            string    `json:"item"`
	ItemDescription string    `json:"item_description"`
	Quantity        Number    `json:"quantity"`
	UnitPrice       Number    `json:"unit_price"`
	TotalPrice      Number    `json:"total_price"`
	PromotionFlag   string    `json:"promotion_flag"`
}

// TreatedSale is a ledger row joined to its coupon line items. The join keys
// appear on both sides, so both copies are kept except the shared date.
type TreatedSale struct {
	Month string `json:"month"`

	Store    string    `json:"store"`
	Date     time.Time `json:"date"`
	Document string    `json:"document"`
	Till     string    `json:"till"`
	Value    Number    `json:"value"`
	Discount Number    `json:"discount"`
	Type     string    `json:"type"`
	Client   string    `json:"client"`
	Operator string    `json:"operator"`

	CouponStore     string `json:"coupon_store"`
	CouponNumber    string `json:"coupon_number"`
	PDV             string `json:"pdv"`
	Item            string `json:"item"`
	ItemDescription string `json:"item_description"`
	Quantity        Number `json:"quantity"`
	UnitPrice       Number `json:"unit_price"`
	TotalPrice      Number `json:"total_price"`
	PromotionFlag   string `json:"promotion_flag"`
}

// Promotion is one SKU line of a tabloid campaign at one store.
type Promotion struct {
	Name          string       `json:"name"`
	Key           PromotionKey `json:"key"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       time.Time    `json:"end_date"`
	SKU           string       `json:"sku"`
	ItemName      string       `json:"item_name"`
	SoldPrice     Number       `json:"sold_price"`
	PromoPrice    Number       `json:"promo_price"`
	ActivationQty int          `json:"activation_qty"`
}

// CorrelatedRow is a promotion matched to a non-promotional sale of the same
// SKU that reached the activation threshold.
type CorrelatedRow struct {
	PromotionName   string       `json:"promotion_name"`
	Key             PromotionKey `json:"key"`
	SKU             string       `json:"sku"`
	ItemName        string       `json:"item_name"`
	SoldPrice       float64      `json:"sold_price"`
	PromoPrice      float64      `json:"promo_price"`
	ActivationQty   int          `json:"activation_qty"`
	Store           string       `json:"store"`
	Date            time.Time    `json:"date"`
	Document        string       `json:"document"`
	Till            string       `json:"till"`
	ItemDescription string       `json:"item_description"`
	Quantity        float64      `json:"quantity"`
	UnitPrice       float64      `json:"unit_price"`
	PromotionFlag   string       `json:"promotion_flag"`
	DiscountApplied float64      `json:"discount_applied"`
	GrossProfit     float64      `json:"gross_profit"`
}
