// Package batch implements the batcher/submitter façade: it validates
// that an incoming transaction's declared batcher key matches this
// server's own signing key, wraps the transaction in a batch header
// signed by that key, and submits the batch to the platform — with an
// optional wait for commit, grounded on the otc-gateway's
// sign-then-submit request flow.
package batch

import (
	"crypto/sha256"
	"fmt"

	xcrypto "github.com/hyperledger-archives/sawtooth-supply-chain/crypto"
)

// ErrBatcherKeyMismatch is returned when a transaction's declared
// batcherPublicKey does not match the server's configured signing key.
type ErrBatcherKeyMismatch struct {
	Declared string
	Actual   string
}

func (e *ErrBatcherKeyMismatch) Error() string {
	return fmt.Sprintf("batch: transaction batcher key %q does not match server key %q", e.Declared, e.Actual)
}

// TransactionHeader is the subset of an incoming transaction's header
// the batcher inspects before wrapping it.
type TransactionHeader struct {
	SignerPublicKey  string
	BatcherPublicKey string
	PayloadSha512    string
}

// Transaction pairs a header with its already-signed payload bytes and
// signature, as submitted by the end-user client.
type Transaction struct {
	Header    TransactionHeader
	Payload   []byte
	Signature string
}

// Header is the batch-level header signed by the batcher's key. Batches
// carry one or more transactions, all validated against the same
// batcher public key.
type Header struct {
	SignerPublicKey string
	TransactionIDs  []string
}

func digest(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// ValidateBatcherKey rejects txn if its declared batcher key does not
// match key's public identity.
func ValidateBatcherKey(txn Transaction, key *xcrypto.PrivateKey) error {
	actual := key.PubKey().PublicKeyHex()
	if txn.Header.BatcherPublicKey != actual {
		return &ErrBatcherKeyMismatch{Declared: txn.Header.BatcherPublicKey, Actual: actual}
	}
	return nil
}
