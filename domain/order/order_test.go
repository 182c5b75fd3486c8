package order

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/openmark/goapi/base/ethereum"
	"github.com/openmark/goapi/domain"
)

var (
	testErc20   = domain.Address("0x07fe9ffd85b54a3a18467d3b5e91a55ecc52a268")
	testErc721  = domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")
	testFeeAddr = domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
)

func testExchangeCfg() *ExchangeCfg {
	return &ExchangeCfg{
		ChainId:       domain.ChainId(5),
		Address:       domain.Address("0x1a01ecd2263a9d5b5967667e508ea22db478bc4b"),
		FeeRecipients: []domain.Address{testFeeAddr},
	}
}

func newSigner(t *testing.T) (*ecdsa.PrivateKey, domain.Address) {
	key, pub, err := ethereum.GenerateKey()
	require.NoError(t, err)
	return key, domain.Address(crypto.PubkeyToAddress(*pub).Hex())
}

func signOrder(t *testing.T, ord *Order, key *ecdsa.PrivateKey, cfg *ExchangeCfg) {
	digest, err := ord.Digest(cfg.ChainId, cfg.Address)
	require.NoError(t, err)
	sig, err := ethereum.SignHash(digest, key)
	require.NoError(t, err)
	ord.Signature = sig
}

func makeListing(t *testing.T, key *ecdsa.PrivateKey, offerer domain.Address, cfg *ExchangeCfg) Order {
	now := time.Now()
	ord := Order{
		ChainId: cfg.ChainId,
		Offerer: offerer,
		Offer: []Item{
			{ItemType: ItemTypeErc721, Token: testErc721, Identifier: "42", StartAmount: "1", EndAmount: "1"},
		},
		Consideration: []Item{
			{ItemType: ItemTypeNative, Identifier: "0", StartAmount: "950000000000000000", EndAmount: "950000000000000000", Recipient: offerer},
			{ItemType: ItemTypeNative, Identifier: "0", StartAmount: "50000000000000000", EndAmount: "50000000000000000", Recipient: testFeeAddr},
		},
		OrderType: OrderTypeFullOpen,
		StartTime: fmt.Sprint(now.Add(-time.Hour).Unix()),
		EndTime:   fmt.Sprint(now.Add(24 * time.Hour).Unix()),
		Salt:      "12345",
	}
	signOrder(t, &ord, key, cfg)
	return ord
}

func makeOffer(t *testing.T, key *ecdsa.PrivateKey, offerer domain.Address, cfg *ExchangeCfg) Order {
	now := time.Now()
	ord := Order{
		ChainId: cfg.ChainId,
		Offerer: offerer,
		Offer: []Item{
			{ItemType: ItemTypeErc20, Token: testErc20, Identifier: "0", StartAmount: "1000000000000000000", EndAmount: "1000000000000000000"},
		},
		Consideration: []Item{
			{ItemType: ItemTypeErc721, Token: testErc721, Identifier: "42", StartAmount: "1", EndAmount: "1", Recipient: offerer},
			{ItemType: ItemTypeErc20, Token: testErc20, Identifier: "0", StartAmount: "25000000000000000", EndAmount: "25000000000000000", Recipient: testFeeAddr},
		},
		OrderType: OrderTypeFullOpen,
		StartTime: fmt.Sprint(now.Add(-time.Hour).Unix()),
		EndTime:   fmt.Sprint(now.Add(24 * time.Hour).Unix()),
		Salt:      "54321",
	}
	signOrder(t, &ord, key, cfg)
	return ord
}

func TestValidateListing(t *testing.T) {
	req := require.New(t)
	cfg := testExchangeCfg()
	key, offerer := newSigner(t)

	ord := makeListing(t, key, offerer, cfg)
	req.NoError(ord.Validate(cfg))
	req.Equal(KindListing, ord.Classify(cfg))
}

func TestValidateOffer(t *testing.T) {
	req := require.New(t)
	cfg := testExchangeCfg()
	key, offerer := newSigner(t)

	ord := makeOffer(t, key, offerer, cfg)
	req.NoError(ord.Validate(cfg))
	req.Equal(KindOffer, ord.Classify(cfg))
}

func TestValidateMalformed(t *testing.T) {
	cfg := testExchangeCfg()
	key, offerer := newSigner(t)

	cases := []struct {
		name   string
		mutate func(o *Order)
	}{
		{"empty offer", func(o *Order) { o.Offer = nil }},
		{"empty consideration", func(o *Order) { o.Consideration = nil }},
		{"bad order type", func(o *Order) { o.OrderType = OrderType(9) }},
		{"restricted without zone", func(o *Order) { o.OrderType = OrderTypeFullRestricted }},
		{"missing offerer", func(o *Order) { o.Offerer = "" }},
		{"bad salt", func(o *Order) { o.Salt = "not-a-number" }},
		{"negative salt", func(o *Order) { o.Salt = "-1" }},
		{"end before start", func(o *Order) { o.EndTime = "1" }},
		{"bad start time", func(o *Order) { o.StartTime = "abc" }},
		{"zero amount", func(o *Order) { o.Offer[0].StartAmount = "0" }},
		{"erc721 amount not one", func(o *Order) { o.Offer[0].StartAmount = "2"; o.Offer[0].EndAmount = "2" }},
		{"erc721 missing identifier", func(o *Order) { o.Offer[0].Identifier = "" }},
		{"bad item type", func(o *Order) { o.Offer[0].ItemType = ItemType(7) }},
		{"missing recipient", func(o *Order) { o.Consideration[0].Recipient = "" }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ord := makeListing(t, key, offerer, cfg)
			c.mutate(&ord)
			err := ord.Validate(cfg)
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrMalformedOrder), "got %v", err)
		})
	}
}

func TestValidateTamperedContent(t *testing.T) {
	req := require.New(t)
	cfg := testExchangeCfg()
	key, offerer := newSigner(t)

	// any field change after signing must invalidate the signature
	ord := makeListing(t, key, offerer, cfg)
	ord.Consideration[0].StartAmount = "1"
	ord.Consideration[0].EndAmount = "1"
	req.ErrorIs(ord.Validate(cfg), domain.ErrSignatureMismatch)
}

func TestValidateWrongSigner(t *testing.T) {
	req := require.New(t)
	cfg := testExchangeCfg()
	key, _ := newSigner(t)
	_, other := newSigner(t)

	ord := makeListing(t, key, other, cfg)
	req.ErrorIs(ord.Validate(cfg), domain.ErrSignatureMismatch)
}

func TestClassifyUnrecognized(t *testing.T) {
	req := require.New(t)
	cfg := testExchangeCfg()
	key, offerer := newSigner(t)
	_, stranger := newSigner(t)

	// listing proceeds diverted to a stranger
	ord := makeListing(t, key, offerer, cfg)
	ord.Consideration[1].Recipient = stranger
	req.Equal(KindUnrecognized, ord.Classify(cfg))

	// offer asset delivered to someone else
	ord = makeOffer(t, key, offerer, cfg)
	ord.Consideration[0].Recipient = stranger
	req.Equal(KindUnrecognized, ord.Classify(cfg))

	// mixed offer side fits neither pattern
	ord = makeListing(t, key, offerer, cfg)
	ord.Offer = append(ord.Offer, Item{ItemType: ItemTypeErc20, Token: testErc20, StartAmount: "1", EndAmount: "1"})
	req.Equal(KindUnrecognized, ord.Classify(cfg))
}

func TestHashDeterministic(t *testing.T) {
	req := require.New(t)
	cfg := testExchangeCfg()
	key, offerer := newSigner(t)

	a := makeListing(t, key, offerer, cfg)
	b := makeListing(t, key, offerer, cfg)

	ha, err := a.HashHex()
	req.NoError(err)
	hb, err := b.HashHex()
	req.NoError(err)
	req.Equal(ha, hb)

	// hash covers content, not the signature
	b.Signature = a.Signature
	hb, err = b.HashHex()
	req.NoError(err)
	req.Equal(ha, hb)

	b.Salt = "99999"
	hb, err = b.HashHex()
	req.NoError(err)
	req.NotEqual(ha, hb)
}

func TestDisplayPrice(t *testing.T) {
	req := require.New(t)
	cfg := testExchangeCfg()
	key, offerer := newSigner(t)

	ord := makeListing(t, key, offerer, cfg)
	ord.Kind = KindListing
	req.Equal("1", ord.DisplayPrice())

	ord = makeOffer(t, key, offerer, cfg)
	ord.Kind = KindOffer
	req.Equal("1", ord.DisplayPrice())

	ord.Kind = KindUnrecognized
	req.Equal("", ord.DisplayPrice())
}
