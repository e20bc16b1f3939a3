// Package addressing derives the deterministic 70-hex-character state
// addresses used to store every on-chain entity of the supply_chain
// transaction family. Address derivation must be bit-identical across the
// transaction processor, the batcher, and the ledger-sync pipeline, or
// state silently diverges between writer and reader.
package addressing

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// Namespace is the 6-hex prefix shared by every address this family
// writes or reads.
const Namespace = "3400de"

// Type prefixes, 2 hex characters following the namespace.
const (
	TypeAgent      = "ae"
	TypeRecordType = "ec"
	TypeRecord     = "ee"
	TypeProperty   = "ea" // also used for PropertyPage; disambiguated by the trailing 4 hex
	TypeProposal   = "aa"
)

// EntityKind identifies the decoded class of an address.
type EntityKind int

const (
	KindUnknown EntityKind = iota
	KindAgent
	KindRecordType
	KindRecord
	KindProperty
	KindPropertyPage
	KindProposal
)

const (
	addressLength  = 70
	namespaceLen   = 6
	typeLen        = 2
	bodyLen        = 62
	pageNumberHexN = 4
)

// hashHex returns the first n hex characters of SHA-512(data).
func hashHex(data []byte, n int) string {
	sum := sha512.Sum512(data)
	full := hex.EncodeToString(sum[:])
	if n > len(full) {
		n = len(full)
	}
	return full[:n]
}

// PageNumberHex zero-pads a page number to 4 hex digits, matching the
// reference processor's num_to_page_number.
func PageNumberHex(page uint32) string {
	return fmt.Sprintf("%04x", page)
}

// AgentAddress derives the address of an Agent keyed by its public key.
func AgentAddress(publicKey string) string {
	return Namespace + TypeAgent + hashHex([]byte(publicKey), bodyLen)
}

// RecordTypeAddress derives the address of a RecordType keyed by its name.
func RecordTypeAddress(name string) string {
	return Namespace + TypeRecordType + hashHex([]byte(name), bodyLen)
}

// RecordAddress derives the address of a Record keyed by its record id.
func RecordAddress(recordID string) string {
	return Namespace + TypeRecord + hashHex([]byte(recordID), bodyLen)
}

// PropertyAddressPrefix derives the shared 36-hex record-id digest that
// every Property/PropertyPage address for a given record shares.
func PropertyAddressPrefix(recordID string) string {
	return Namespace + TypeProperty + hashHex([]byte(recordID), 36)
}

// PropertyAddress derives the address of the Property entity itself
// (page number 0000) for (recordID, name).
func PropertyAddress(recordID, name string) string {
	return PropertyPageAddress(recordID, name, 0)
}

// PropertyPageAddress derives the address of a PropertyPage for
// (recordID, name, page).
func PropertyPageAddress(recordID, name string, page uint32) string {
	return PropertyAddressPrefix(recordID) + hashHex([]byte(name), 22) + PageNumberHex(page)
}

// ProposalAddress derives the address of a Proposal keyed by
// (recordID, receivingAgent, role).
func ProposalAddress(recordID, receivingAgent, role string) string {
	toHash := recordID + "\x00" + receivingAgent + "\x00" + role
	return Namespace + TypeProposal + hashHex([]byte(toHash), bodyLen)
}

// Valid reports whether addr satisfies the universal invariants: 70 hex
// characters, under the family namespace, with a known type prefix.
func Valid(addr string) bool {
	return DecodeKind(addr) != KindUnknown
}

// DecodeKind extracts the entity kind from an address, disambiguating
// Property from PropertyPage using the trailing page-number hex.
func DecodeKind(addr string) EntityKind {
	if len(addr) != addressLength {
		return KindUnknown
	}
	if _, err := hex.DecodeString(addr); err != nil {
		return KindUnknown
	}
	if addr[:namespaceLen] != Namespace {
		return KindUnknown
	}
	typ := addr[namespaceLen : namespaceLen+typeLen]
	switch typ {
	case TypeAgent:
		return KindAgent
	case TypeRecordType:
		return KindRecordType
	case TypeRecord:
		return KindRecord
	case TypeProposal:
		return KindProposal
	case TypeProperty:
		tail := addr[len(addr)-pageNumberHexN:]
		if tail == "0000" {
			return KindProperty
		}
		return KindPropertyPage
	default:
		return KindUnknown
	}
}

// DecodePageNumber extracts the trailing page number from a Property or
// PropertyPage address. Returns 0 and false if the address is not of
// that kind.
func DecodePageNumber(addr string) (uint32, bool) {
	kind := DecodeKind(addr)
	if kind != KindProperty && kind != KindPropertyPage {
		return 0, false
	}
	tail := addr[len(addr)-pageNumberHexN:]
	var page uint32
	if _, err := fmt.Sscanf(tail, "%04x", &page); err != nil {
		return 0, false
	}
	return page, true
}
