package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Sign produces a 65-byte recoverable signature over SHA-256(digest),
// hex-encoded, matching the compact form the batcher embeds in a
// batch header.
func (k *PrivateKey) Sign(digest []byte) (string, error) {
	hash := sha256.Sum256(digest)
	sig, err := crypto.Sign(hash[:], k.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("crypto: sign: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Verify checks that signatureHex was produced by the private key
// behind publicKeyHex over digest.
func Verify(publicKeyHex string, digest []byte, signatureHex string) (bool, error) {
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false, fmt.Errorf("crypto: invalid signature hex: %w", err)
	}
	if len(sig) != 65 {
		return false, fmt.Errorf("crypto: signature must be 65 bytes, got %d", len(sig))
	}
	pubKeyBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false, fmt.Errorf("crypto: invalid public key hex: %w", err)
	}
	hash := sha256.Sum256(digest)
	recovered, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return false, fmt.Errorf("crypto: recover pubkey: %w", err)
	}
	return hex.EncodeToString(crypto.CompressPubkey(recovered)) == hex.EncodeToString(pubKeyBytes), nil
}
