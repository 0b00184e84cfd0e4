// Package domain contains the OP_NET contract call encoding and the token
// and pool types read from chain.
package domain

import (
	"crypto/sha256"
)

// View method signatures of the contracts OPtrack reads.
const (
	SigName        = "name()"
	SigSymbol      = "symbol()"
	SigDecimals    = "decimals()"
	SigTotalSupply = "totalSupply()"
	SigGetReserves = "getReserves()"
	SigToken0      = "token0()"
	SigToken1      = "token1()"
)

// SelectorSize is the length of a function selector.
const SelectorSize = 4

// Selector returns the function selector of signature: the first four bytes
// of its SHA-256 digest.
func Selector(signature string) [SelectorSize]byte {
	sum := sha256.Sum256([]byte(signature))
	var sel [SelectorSize]byte
	copy(sel[:], sum[:SelectorSize])
	return sel
}

// EncodeCall builds calldata: the selector followed by the encoded args.
func EncodeCall(signature string, args ...[]byte) []byte {
	sel := Selector(signature)

	n := SelectorSize
	for _, a := range args {
		n += len(a)
	}

	out := make([]byte, 0, n)
	out = append(out, sel[:]...)
	for _, a := range args {
		out = append(out, a...)
	}
	return out
}
