package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger-archives/sawtooth-supply-chain/crypto"
)

func TestSignAndVerify(t *testing.T) {
	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	digest := []byte("batch header bytes")
	sig, err := key.Sign(digest)
	require.NoError(t, err)

	ok, err := crypto.Verify(key.PubKey().PublicKeyHex(), digest, sig)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	other, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	digest := []byte("batch header bytes")
	sig, err := key.Sign(digest)
	require.NoError(t, err)

	ok, err := crypto.Verify(other.PubKey().PublicKeyHex(), digest, sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPrivateKeyHexRoundTrip(t *testing.T) {
	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	loaded, err := crypto.PrivateKeyFromHex(key.Hex())
	require.NoError(t, err)
	require.Equal(t, key.PubKey().PublicKeyHex(), loaded.PubKey().PublicKeyHex())
}
