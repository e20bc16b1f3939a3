// Package crypto wraps the secp256k1 signing primitives this family's
// batcher uses to authenticate transactions: agents and batchers are
// identified by the hex-encoded compressed public key, matching the
// addressing scheme's publicKey fields directly (no bech32/EVM-style
// address derivation is needed here).
package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

type PrivateKey struct {
	*ecdsa.PrivateKey
}

type PublicKey struct {
	*ecdsa.PublicKey
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the raw 32-byte scalar.
func (k *PrivateKey) Bytes() []byte {
	return crypto.FromECDSA(k.PrivateKey)
}

// Hex returns the raw scalar hex-encoded, the form PrivateKeyFromHex
// parses back.
func (k *PrivateKey) Hex() string {
	return hex.EncodeToString(k.Bytes())
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

// PublicKeyHex returns the hex-encoded compressed public key — the
// identity string carried as Agent.PublicKey and every signer field
// the transaction family validates against.
func (k *PublicKey) PublicKeyHex() string {
	return hex.EncodeToString(crypto.CompressPubkey(k.PublicKey))
}

func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid private key hex: %w", err)
	}
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid private key: %w", err)
	}
	return &PrivateKey{key}, nil
}

func PublicKeyFromHex(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid public key hex: %w", err)
	}
	pub, err := crypto.DecompressPubkey(b)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid public key: %w", err)
	}
	return &PublicKey{pub}, nil
}
