package addressing

import "testing"

func TestAddressesAreWellFormed(t *testing.T) {
	cases := map[string]string{
		"agent":       AgentAddress("pub-key-1"),
		"recordType":  RecordTypeAddress("asset"),
		"record":      RecordAddress("r1"),
		"property":    PropertyAddress("r1", "temp"),
		"propertyPg":  PropertyPageAddress("r1", "temp", 1),
		"proposal":    ProposalAddress("r1", "pub-key-2", "OWNER"),
	}
	for name, addr := range cases {
		if len(addr) != addressLength {
			t.Fatalf("%s: want len %d, got %d (%s)", name, addressLength, len(addr), addr)
		}
		if addr[:namespaceLen] != Namespace {
			t.Fatalf("%s: address %s missing namespace prefix", name, addr)
		}
		if !Valid(addr) {
			t.Fatalf("%s: address %s should be valid", name, addr)
		}
	}
}

func TestDecodeKind(t *testing.T) {
	if DecodeKind(AgentAddress("x")) != KindAgent {
		t.Fatal("expected KindAgent")
	}
	if DecodeKind(RecordTypeAddress("x")) != KindRecordType {
		t.Fatal("expected KindRecordType")
	}
	if DecodeKind(RecordAddress("x")) != KindRecord {
		t.Fatal("expected KindRecord")
	}
	if DecodeKind(ProposalAddress("r", "a", "OWNER")) != KindProposal {
		t.Fatal("expected KindProposal")
	}
	if DecodeKind(PropertyAddress("r", "p")) != KindProperty {
		t.Fatal("expected KindProperty")
	}
	if DecodeKind(PropertyPageAddress("r", "p", 1)) != KindPropertyPage {
		t.Fatal("expected KindPropertyPage")
	}
	if DecodeKind("deadbeef") != KindUnknown {
		t.Fatal("expected KindUnknown for malformed address")
	}
}

func TestPropertyAddressSharesRecordPrefix(t *testing.T) {
	a := PropertyAddress("r1", "temp")
	b := PropertyPageAddress("r1", "humidity", 3)
	prefix := PropertyAddressPrefix("r1")
	if a[:len(prefix)] != prefix || b[:len(prefix)] != prefix {
		t.Fatal("property addresses for the same record must share the 36-hex record digest")
	}
}

func TestDecodePageNumber(t *testing.T) {
	addr := PropertyPageAddress("r1", "temp", 0x12ab)
	page, ok := DecodePageNumber(addr)
	if !ok || page != 0x12ab {
		t.Fatalf("expected page 0x12ab, got %x ok=%v", page, ok)
	}
}

func TestDeterministic(t *testing.T) {
	if AgentAddress("k1") != AgentAddress("k1") {
		t.Fatal("address derivation must be deterministic")
	}
	if AgentAddress("k1") == AgentAddress("k2") {
		t.Fatal("distinct keys should not collide in this test")
	}
}
