package order

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/openmark/goapi/domain"
)

const (
	PrimaryType      = "OrderComponents"
	Eip712DomainName = "EIP712Domain"
)

func GetDomainSeparator(chainId domain.ChainId, address domain.Address) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              "Seaport",
		Version:           "1.1",
		ChainId:           math.NewHexOrDecimal256(int64(chainId)),
		VerifyingContract: address.ToLowerStr(),
	}
}

var OrderTypes = apitypes.Types{
	"OrderComponents": {
		{Name: "offerer", Type: "address"},
		{Name: "zone", Type: "address"},
		{Name: "offer", Type: "OfferItem[]"},
		{Name: "consideration", Type: "ConsiderationItem[]"},
		{Name: "orderType", Type: "uint8"},
		{Name: "startTime", Type: "uint256"},
		{Name: "endTime", Type: "uint256"},
		{Name: "salt", Type: "uint256"},
	},
	"OfferItem": {
		{Name: "itemType", Type: "uint8"},
		{Name: "token", Type: "address"},
		{Name: "identifier", Type: "uint256"},
		{Name: "startAmount", Type: "uint256"},
		{Name: "endAmount", Type: "uint256"},
	},
	"ConsiderationItem": {
		{Name: "itemType", Type: "uint8"},
		{Name: "token", Type: "address"},
		{Name: "identifier", Type: "uint256"},
		{Name: "startAmount", Type: "uint256"},
		{Name: "endAmount", Type: "uint256"},
		{Name: "recipient", Type: "address"},
	},
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
}

func (i *Item) toMessage(withRecipient bool) apitypes.TypedDataMessage {
	token := i.Token
	if token.IsEmpty() {
		token = domain.EmptyAddress
	}
	identifier := i.Identifier
	if identifier == "" {
		identifier = "0"
	}
	msg := apitypes.TypedDataMessage{
		"itemType":    fmt.Sprint(int(i.ItemType)),
		"token":       token.ToLowerStr(),
		"identifier":  identifier,
		"startAmount": i.StartAmount,
		"endAmount":   i.EndAmount,
	}
	if withRecipient {
		recipient := i.Recipient
		if recipient.IsEmpty() {
			recipient = domain.EmptyAddress
		}
		msg["recipient"] = recipient.ToLowerStr()
	}
	return msg
}

func (o *Order) ToMessage() apitypes.TypedDataMessage {
	offer := []interface{}{}
	for i := range o.Offer {
		offer = append(offer, o.Offer[i].toMessage(false))
	}
	consideration := []interface{}{}
	for i := range o.Consideration {
		consideration = append(consideration, o.Consideration[i].toMessage(true))
	}
	zone := o.Zone
	if zone.IsEmpty() {
		zone = domain.EmptyAddress
	}
	return apitypes.TypedDataMessage{
		"offerer":       o.Offerer.ToLowerStr(),
		"zone":          zone.ToLowerStr(),
		"offer":         offer,
		"consideration": consideration,
		"orderType":     fmt.Sprint(int(o.OrderType)),
		"startTime":     o.StartTime,
		"endTime":       o.EndTime,
		"salt":          o.Salt,
	}
}

// Hash returns the EIP-712 struct hash of the order components. It is
// independent of the signing domain and used as the order identifier.
func (o *Order) Hash() ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       OrderTypes,
		PrimaryType: PrimaryType,
		Domain:      GetDomainSeparator(1, domain.EmptyAddress), // dummy
		Message:     o.ToMessage(),
	}

	return typedData.HashStruct(typedData.PrimaryType, typedData.Message)
}

// Digest returns the signed EIP-712 digest for the given exchange deployment.
func (o *Order) Digest(chainId domain.ChainId, verifyingContract domain.Address) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       OrderTypes,
		PrimaryType: PrimaryType,
		Domain:      GetDomainSeparator(chainId, verifyingContract),
		Message:     o.ToMessage(),
	}

	domainSeparator, err := typedData.HashStruct(Eip712DomainName, typedData.Domain.Map())
	if err != nil {
		return nil, err
	}
	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, err
	}
	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(structHash)))
	return crypto.Keccak256(rawData), nil
}

// HashHex returns the struct hash as a 0x-prefixed lowercase hex string.
func (o *Order) HashHex() (domain.OrderHash, error) {
	h, err := o.Hash()
	if err != nil {
		return "", err
	}
	return domain.OrderHash(hexutil.Encode(h)), nil
}
