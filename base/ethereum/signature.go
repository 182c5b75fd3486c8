package ethereum

import (
	"bytes"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/xerrors"

	"github.com/openmark/goapi/domain"
)

var (
	// ErrInvalidSignatureFormat means the signature bytes are not 65 bytes of
	// r||s||v with a recovery id in range
	ErrInvalidSignatureFormat = xerrors.New("invalid signature format")
	// ErrRecoveryFailed means the curve point recovery did not yield a key
	ErrRecoveryFailed = xerrors.New("public key recovery failed")
)

// RecoverMsgSigner applies the personal message prefix to message and recovers
// the signing address. Pure function of its inputs.
func RecoverMsgSigner(message, signature []byte) (domain.Address, error) {
	addr, err := ecRecover(accounts.TextHash(message), signature)
	if err != nil {
		return "", err
	}
	return domain.Address(addr.Hex()), nil
}

func ValidateMsgSignature(message []byte, signature, signer string) (bool, error) {
	return validateSignature(message, signature, signer, true)
}

func ValidateHashSignature(hash []byte, signature, signer string) (bool, error) {
	return validateSignature(hash, signature, signer, false)
}

func validateSignature(data []byte, signature, signer string, applyTextHash bool) (bool, error) {
	hash := data
	if applyTextHash {
		hash = accounts.TextHash(data)
	}
	address := common.HexToAddress(signer)
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false, xerrors.Errorf("decode signature: %w", ErrInvalidSignatureFormat)
	}
	recoveredAddress, err := ecRecover(hash, sig)
	if err != nil {
		return false, err
	}
	return bytes.Equal(address.Bytes(), recoveredAddress.Bytes()), nil
}

// ecRecover returns the address for the account that was used to create the signature.
// copy of internal go-ethereum function:
// https://github.com/ethereum/go-ethereum/blob/v1.10.9/internal/ethapi/api.go#L524
func ecRecover(data []byte, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, xerrors.Errorf("signature must be %d bytes long: %w", crypto.SignatureLength, ErrInvalidSignatureFormat)
	}

	// support both versions of `eth_sign` responses
	//	@see	https://github.com/ethereumjs/ethereumjs-util/blob/master/src/signature.ts#L112
	cp := make([]byte, len(sig))
	copy(cp, sig)
	if cp[crypto.RecoveryIDOffset] < 27 {
		cp[crypto.RecoveryIDOffset] += 27
	}

	if cp[crypto.RecoveryIDOffset] != 27 && cp[crypto.RecoveryIDOffset] != 28 {
		return common.Address{}, xerrors.Errorf("invalid recovery id (V is not 27 or 28): %w", ErrInvalidSignatureFormat)
	}

	cp[crypto.RecoveryIDOffset] -= 27 // Transform yellow paper V from 27/28 to 0/1

	rpk, err := crypto.SigToPub(data, cp)
	if err != nil {
		return common.Address{}, xerrors.Errorf("%v: %w", err, ErrRecoveryFailed)
	}

	return crypto.PubkeyToAddress(*rpk), nil
}

// SignHash is a test helper producing an eth_sign style signature (V = 27/28)
func SignHash(hash []byte, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}
