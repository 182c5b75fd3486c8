package ethereum

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/openmark/goapi/domain"
)

// ParseAddress validates the textual form and re-encodes it to the EIP-55
// checksummed representation.
func ParseAddress(text string) (domain.Address, error) {
	if !common.IsHexAddress(text) {
		return "", domain.ErrInvalidAddress
	}
	return domain.Address(common.HexToAddress(text).Hex()), nil
}

func GenerateKey() (*ecdsa.PrivateKey, *ecdsa.PublicKey, error) {
	if privateKey, err := crypto.GenerateKey(); err != nil {
		return nil, nil, err
	} else {
		publicKey := privateKey.Public().(*ecdsa.PublicKey)
		return privateKey, publicKey, nil
	}
}
