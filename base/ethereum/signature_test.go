package ethereum

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMsgSignature(t *testing.T) {
	messageTemplate := "Welcome! Sign this one-time code to log in: %s"
	privateKey, publicKey, err := GenerateKey()
	assert.NoError(t, err)
	address := crypto.PubkeyToAddress(*publicKey).Hex()
	nonce := "123456"
	message := []byte(fmt.Sprintf(messageTemplate, nonce))
	hash := accounts.TextHash(message)
	signature, err := crypto.Sign(hash, privateKey)
	assert.NoError(t, err)

	res, err := ValidateMsgSignature(message, hexutil.Encode(signature), address)
	assert.NoError(t, err)
	assert.True(t, res)

	// incorrect nonce
	res2, err := ValidateMsgSignature([]byte("654321"), hexutil.Encode(signature), address)
	assert.NoError(t, err)
	assert.False(t, res2)

	// incorrect signer
	_, pubKey, err := GenerateKey()
	assert.NoError(t, err)
	res3, err := ValidateMsgSignature(message, hexutil.Encode(signature), crypto.PubkeyToAddress(*pubKey).Hex())
	assert.NoError(t, err)
	assert.False(t, res3)
}

func TestValidateMsgSignatureDeterministic(t *testing.T) {
	req := require.New(t)
	privateKey, publicKey, err := GenerateKey()
	req.NoError(err)
	address := crypto.PubkeyToAddress(*publicKey).Hex()
	message := []byte("same bytes every time")
	signature, err := crypto.Sign(accounts.TextHash(message), privateKey)
	req.NoError(err)

	for i := 0; i < 3; i++ {
		valid, err := ValidateMsgSignature(message, hexutil.Encode(signature), address)
		req.NoError(err)
		req.True(valid)
	}
}

func TestValidateMsgSignatureBitFlip(t *testing.T) {
	req := require.New(t)
	privateKey, publicKey, err := GenerateKey()
	req.NoError(err)
	address := crypto.PubkeyToAddress(*publicKey).Hex()
	message := []byte("flip one bit and the signer changes")
	signature, err := crypto.Sign(accounts.TextHash(message), privateKey)
	req.NoError(err)

	// flipping a bit of r either fails recovery or recovers a different key,
	// never the original signer
	flipped := make([]byte, len(signature))
	copy(flipped, signature)
	flipped[0] ^= 0x01
	valid, err := ValidateMsgSignature(message, hexutil.Encode(flipped), address)
	if err == nil {
		req.False(valid)
	}
}

func TestValidateSignatureRecoveryIds(t *testing.T) {
	req := require.New(t)
	privateKey, publicKey, err := GenerateKey()
	req.NoError(err)
	address := crypto.PubkeyToAddress(*publicKey).Hex()
	message := []byte("recovery id normalization")
	signature, err := crypto.Sign(accounts.TextHash(message), privateKey)
	req.NoError(err)

	// v in {0,1} and v in {27,28} encode the same signature
	legacy := make([]byte, len(signature))
	copy(legacy, signature)
	legacy[crypto.RecoveryIDOffset] += 27

	for _, sig := range [][]byte{signature, legacy} {
		valid, err := ValidateMsgSignature(message, hexutil.Encode(sig), address)
		req.NoError(err)
		req.True(valid)
	}

	// out of range recovery id
	bad := make([]byte, len(signature))
	copy(bad, signature)
	bad[crypto.RecoveryIDOffset] = 29
	_, err = ValidateMsgSignature(message, hexutil.Encode(bad), address)
	req.ErrorIs(err, ErrInvalidSignatureFormat)
}

func TestValidateSignatureMalformed(t *testing.T) {
	req := require.New(t)
	_, publicKey, err := GenerateKey()
	req.NoError(err)
	address := crypto.PubkeyToAddress(*publicKey).Hex()

	_, err = ValidateMsgSignature([]byte("msg"), "not-hex", address)
	req.ErrorIs(err, ErrInvalidSignatureFormat)

	_, err = ValidateMsgSignature([]byte("msg"), "0x0102", address)
	req.ErrorIs(err, ErrInvalidSignatureFormat)
}

func TestValidateHashSignature(t *testing.T) {
	req := require.New(t)
	privateKey, publicKey, err := GenerateKey()
	req.NoError(err)
	address := crypto.PubkeyToAddress(*publicKey).Hex()
	hash := crypto.Keccak256([]byte("typed data digest"))
	sig, err := SignHash(hash, privateKey)
	req.NoError(err)

	valid, err := ValidateHashSignature(hash, sig, address)
	req.NoError(err)
	req.True(valid)

	valid, err = ValidateHashSignature(crypto.Keccak256([]byte("other digest")), sig, address)
	req.NoError(err)
	req.False(valid)
}
