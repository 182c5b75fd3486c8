package order

import (
	"github.com/shopspring/decimal"
)

// currencyDecimals covers the native coin and the 18 decimal erc20s the
// exchange settles in
const currencyDecimals = 18

// DisplayPrice sums the currency side of the order and scales it down to a
// human readable decimal string. Listings price with consideration, offers
// with the offered currency.
func (o *Order) DisplayPrice() string {
	var items []Item
	switch o.Kind {
	case KindListing:
		items = o.Consideration
	case KindOffer:
		items = o.Offer
	default:
		return ""
	}

	total := decimal.Zero
	for _, it := range items {
		if !it.ItemType.IsCurrency() {
			continue
		}
		amt, err := decimal.NewFromString(it.StartAmount)
		if err != nil {
			return ""
		}
		total = total.Add(amt)
	}
	return total.Shift(-currencyDecimals).String()
}
