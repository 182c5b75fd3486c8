package order

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/openmark/goapi/base/ethereum"
	"github.com/openmark/goapi/domain"
)

// maxStartTimeAge bounds how far in the past an order may claim to start
const maxStartTimeAge = 365 * 24 * time.Hour

func (i *Item) validate() error {
	if !i.ItemType.IsValid() {
		return xerrors.Errorf("item type %d: %w", i.ItemType, domain.ErrMalformedOrder)
	}
	start, err := domain.ParseBig256(i.StartAmount)
	if err != nil {
		return xerrors.Errorf("start amount: %w", domain.ErrMalformedOrder)
	}
	end, err := domain.ParseBig256(i.EndAmount)
	if err != nil {
		return xerrors.Errorf("end amount: %w", domain.ErrMalformedOrder)
	}
	if start.Sign() <= 0 || end.Sign() <= 0 {
		return xerrors.Errorf("non-positive amount: %w", domain.ErrMalformedOrder)
	}
	switch i.ItemType {
	case ItemTypeNative:
		if !i.Token.IsEmpty() && !i.Token.Equals(domain.EmptyAddress) {
			return xerrors.Errorf("native item carries token address: %w", domain.ErrMalformedOrder)
		}
	case ItemTypeErc20:
		if i.Token.IsEmpty() {
			return xerrors.Errorf("erc20 item missing token address: %w", domain.ErrMalformedOrder)
		}
	case ItemTypeErc721:
		if i.Token.IsEmpty() || i.Identifier == "" {
			return xerrors.Errorf("erc721 item missing token or identifier: %w", domain.ErrMalformedOrder)
		}
		if start.Cmp(domain.Big1) != 0 || end.Cmp(domain.Big1) != 0 {
			return xerrors.Errorf("erc721 amount must be exactly 1: %w", domain.ErrMalformedOrder)
		}
	case ItemTypeErc1155:
		if i.Token.IsEmpty() || i.Identifier == "" {
			return xerrors.Errorf("erc1155 item missing token or identifier: %w", domain.ErrMalformedOrder)
		}
	}
	return nil
}

// Validate checks structural invariants, then the offerer's EIP-712 signature
// over the canonical encoding of every other field.
func (o *Order) Validate(cfg *ExchangeCfg) error {
	if len(o.Offer) == 0 || len(o.Consideration) == 0 {
		return xerrors.Errorf("empty offer or consideration: %w", domain.ErrMalformedOrder)
	}
	if !o.OrderType.IsValid() {
		return xerrors.Errorf("order type %d: %w", o.OrderType, domain.ErrMalformedOrder)
	}
	if o.OrderType.IsRestricted() && o.Zone.IsEmpty() {
		return xerrors.Errorf("restricted order without zone: %w", domain.ErrMalformedOrder)
	}
	if o.Offerer.IsEmpty() {
		return xerrors.Errorf("missing offerer: %w", domain.ErrMalformedOrder)
	}
	if _, err := domain.ParseBig256(o.Salt); err != nil {
		return xerrors.Errorf("salt: %w", domain.ErrMalformedOrder)
	}

	times, err := domain.ToBigInt([]string{o.StartTime, o.EndTime})
	if err != nil {
		return xerrors.Errorf("timestamps: %w", domain.ErrMalformedOrder)
	}
	start, end := times[0], times[1]
	if end.Cmp(start) <= 0 {
		return xerrors.Errorf("endTime not after startTime: %w", domain.ErrMalformedOrder)
	}
	if !start.IsInt64() || !end.IsInt64() {
		return xerrors.Errorf("timestamp overflow: %w", domain.ErrMalformedOrder)
	}
	if time.Unix(start.Int64(), 0).Before(time.Now().Add(-maxStartTimeAge)) {
		return xerrors.Errorf("startTime too far in the past: %w", domain.ErrMalformedOrder)
	}

	for i := range o.Offer {
		if err := o.Offer[i].validate(); err != nil {
			return err
		}
	}
	for i := range o.Consideration {
		if err := o.Consideration[i].validate(); err != nil {
			return err
		}
		if o.Consideration[i].Recipient.IsEmpty() {
			return xerrors.Errorf("consideration item missing recipient: %w", domain.ErrMalformedOrder)
		}
	}

	digest, err := o.Digest(cfg.ChainId, cfg.Address)
	if err != nil {
		return xerrors.Errorf("digest: %w", domain.ErrMalformedOrder)
	}
	valid, err := ethereum.ValidateHashSignature(digest, o.Signature, string(o.Offerer))
	if err != nil {
		return xerrors.Errorf("signature: %w", domain.ErrMalformedOrder)
	}
	if !valid {
		return domain.ErrSignatureMismatch
	}
	return nil
}

// Classify resolves the order side by its item type pattern. A listing offers
// assets and demands currency; an offer is the mirror image. Extra currency
// consideration lines are tolerated when they pay a configured fee recipient.
func (o *Order) Classify(cfg *ExchangeCfg) Kind {
	offerAssets, offerCurrency := countItemTypes(o.Offer)
	considAssets, considCurrency := countItemTypes(o.Consideration)

	if offerAssets == len(o.Offer) && considCurrency == len(o.Consideration) {
		// sell side: proceeds must reach the offerer, fees may be skimmed
		for i := range o.Consideration {
			r := o.Consideration[i].Recipient
			if !r.Equals(o.Offerer) && !cfg.IsFeeRecipient(r) {
				return KindUnrecognized
			}
		}
		return KindListing
	}

	if offerCurrency == len(o.Offer) && considAssets > 0 {
		// buy side: every asset goes to the offerer, currency lines only for fees
		for i := range o.Consideration {
			it := &o.Consideration[i]
			if it.ItemType.IsAsset() {
				if !it.Recipient.Equals(o.Offerer) {
					return KindUnrecognized
				}
			} else if !cfg.IsFeeRecipient(it.Recipient) {
				return KindUnrecognized
			}
		}
		return KindOffer
	}

	return KindUnrecognized
}

func countItemTypes(items []Item) (assets, currency int) {
	for i := range items {
		if items[i].ItemType.IsAsset() {
			assets++
		} else if items[i].ItemType.IsCurrency() {
			currency++
		}
	}
	return
}
