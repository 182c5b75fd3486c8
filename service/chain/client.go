package chain

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/log"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

const callTimeout = 10 * time.Second

type ClientCfg struct {
	RpcUrls map[int32]string
	// OperatorKey is the hex encoded private key used to sign transactions
	// submitted through Send. Leave empty for a read-only client.
	OperatorKey string
}

type Client interface {
	// Call executes a read-only contract call at the latest block
	Call(bCtx.Ctx, int32, common.Address, abi.ABI, string, ...interface{}) ([]interface{}, error)

	// Send signs and submits a contract transaction with the operator key.
	// No local retry, callers decide whether to resubmit.
	Send(bCtx.Ctx, int32, common.Address, abi.ABI, string, ...interface{}) (common.Hash, error)
}

type clientImpl struct {
	clients     map[int32]*ethclient.Client
	operatorKey *ecdsa.PrivateKey
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	var anyerr error
	clients := make(map[int32]*ethclient.Client)
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the server start
			continue
		}
		clients[chainId] = client
	}

	var operatorKey *ecdsa.PrivateKey
	if cfg.OperatorKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.OperatorKey, "0x"))
		if err != nil {
			return nil, err
		}
		operatorKey = key
	}

	return &clientImpl{
		clients:     clients,
		operatorKey: operatorKey,
	}, anyerr
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}

	callCtx, cancel := bCtx.WithTimeout(ctx, callTimeout)
	defer cancel()

	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := client.CallContract(callCtx, msg, nil)
	if err != nil {
		ctx.WithField("err", err).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

func (c *clientImpl) Send(ctx bCtx.Ctx, chainId int32, addr common.Address, _abi abi.ABI, method string, params ...interface{}) (common.Hash, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return common.Hash{}, ErrUnsupportedChain
	}
	if c.operatorKey == nil {
		return common.Hash{}, errors.New("no operator key configured")
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("abi.Pack failed")
		return common.Hash{}, err
	}

	sendCtx, cancel := bCtx.WithTimeout(ctx, callTimeout)
	defer cancel()

	from := crypto.PubkeyToAddress(c.operatorKey.PublicKey)
	nonce, err := client.PendingNonceAt(sendCtx, from)
	if err != nil {
		ctx.WithField("err", err).Error("client.PendingNonceAt failed")
		return common.Hash{}, err
	}
	gasPrice, err := client.SuggestGasPrice(sendCtx)
	if err != nil {
		ctx.WithField("err", err).Error("client.SuggestGasPrice failed")
		return common.Hash{}, err
	}
	gasLimit, err := client.EstimateGas(sendCtx, ethereum.CallMsg{
		From: from,
		To:   &addr,
		Data: data,
	})
	if err != nil {
		ctx.WithField("err", err).Error("client.EstimateGas failed")
		return common.Hash{}, err
	}

	tx := types.NewTransaction(nonce, addr, big.NewInt(0), gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(int64(chainId))), c.operatorKey)
	if err != nil {
		ctx.WithField("err", err).Error("types.SignTx failed")
		return common.Hash{}, err
	}
	if err := client.SendTransaction(sendCtx, signed); err != nil {
		ctx.WithField("err", err).Error("client.SendTransaction failed")
		return common.Hash{}, err
	}
	return signed.Hash(), nil
}
