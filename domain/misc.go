package domain

import (
	"math/big"
	"strings"

	"golang.org/x/xerrors"
)

var (
	Big0 = big.NewInt(0)
	Big1 = big.NewInt(1)
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

type TxHash string

type OrderHash string

func (h OrderHash) ToLower() OrderHash {
	return OrderHash(strings.ToLower(string(h)))
}

// Table is the name of a mongo collection
type Table string

const (
	TableAccounts Table = "accounts"
	TableOrders   Table = "orders"
)

func ToBigInt(nums []string) ([]*big.Int, error) {
	var bns []*big.Int
	for _, n := range nums {
		bn, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, ErrInvalidNumberFormat
		}
		bns = append(bns, bn)
	}
	return bns, nil
}

// ParseBig256 parses s as a decimal or 0x-prefixed hex 256-bit integer
func ParseBig256(s string) (*big.Int, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	bn, ok := new(big.Int).SetString(s, base)
	if !ok || bn.Sign() < 0 || bn.BitLen() > 256 {
		return nil, xerrors.Errorf("parse %q: %w", s, ErrInvalidNumberFormat)
	}
	return bn, nil
}
