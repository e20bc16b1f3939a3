package wire

import (
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

const containerFieldEntries protowire.Number = 1

// --- AgentContainer ---

type AgentContainer struct{ Entries []Agent }

func (c AgentContainer) Marshal() []byte {
	var b []byte
	for _, e := range c.Entries {
		b = appendMessage(b, containerFieldEntries, e.Marshal(nil))
	}
	return b
}

func UnmarshalAgentContainer(data []byte) (AgentContainer, error) {
	var c AgentContainer
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return AgentContainer{}, err
		}
		if !ok {
			break
		}
		if num != containerFieldEntries {
			continue
		}
		e, err := UnmarshalAgent(raw)
		if err != nil {
			return AgentContainer{}, err
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

// Upsert inserts or replaces the entry matching publicKey, returning a
// container with entries sorted ascending by public key, no duplicates.
func (c AgentContainer) Upsert(e Agent) AgentContainer {
	out := make([]Agent, 0, len(c.Entries)+1)
	for _, existing := range c.Entries {
		if existing.PublicKey != e.PublicKey {
			out = append(out, existing)
		}
	}
	out = append(out, e)
	sort.Slice(out, func(i, j int) bool { return out[i].PublicKey < out[j].PublicKey })
	return AgentContainer{Entries: out}
}

func (c AgentContainer) Find(publicKey string) (Agent, bool) {
	for _, e := range c.Entries {
		if e.PublicKey == publicKey {
			return e, true
		}
	}
	return Agent{}, false
}

// --- RecordTypeContainer ---

type RecordTypeContainer struct{ Entries []RecordType }

func (c RecordTypeContainer) Marshal() []byte {
	var b []byte
	for _, e := range c.Entries {
		b = appendMessage(b, containerFieldEntries, e.Marshal(nil))
	}
	return b
}

func UnmarshalRecordTypeContainer(data []byte) (RecordTypeContainer, error) {
	var c RecordTypeContainer
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return RecordTypeContainer{}, err
		}
		if !ok {
			break
		}
		if num != containerFieldEntries {
			continue
		}
		e, err := UnmarshalRecordType(raw)
		if err != nil {
			return RecordTypeContainer{}, err
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

func (c RecordTypeContainer) Upsert(e RecordType) RecordTypeContainer {
	out := make([]RecordType, 0, len(c.Entries)+1)
	for _, existing := range c.Entries {
		if existing.Name != e.Name {
			out = append(out, existing)
		}
	}
	out = append(out, e)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return RecordTypeContainer{Entries: out}
}

func (c RecordTypeContainer) Find(name string) (RecordType, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return RecordType{}, false
}

// --- RecordContainer ---

type RecordContainer struct{ Entries []Record }

func (c RecordContainer) Marshal() []byte {
	var b []byte
	for _, e := range c.Entries {
		b = appendMessage(b, containerFieldEntries, e.Marshal(nil))
	}
	return b
}

func UnmarshalRecordContainer(data []byte) (RecordContainer, error) {
	var c RecordContainer
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return RecordContainer{}, err
		}
		if !ok {
			break
		}
		if num != containerFieldEntries {
			continue
		}
		e, err := UnmarshalRecord(raw)
		if err != nil {
			return RecordContainer{}, err
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

func (c RecordContainer) Upsert(e Record) RecordContainer {
	out := make([]Record, 0, len(c.Entries)+1)
	for _, existing := range c.Entries {
		if existing.RecordID != e.RecordID {
			out = append(out, existing)
		}
	}
	out = append(out, e)
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID < out[j].RecordID })
	return RecordContainer{Entries: out}
}

func (c RecordContainer) Find(recordID string) (Record, bool) {
	for _, e := range c.Entries {
		if e.RecordID == recordID {
			return e, true
		}
	}
	return Record{}, false
}

// --- PropertyContainer ---

type PropertyContainer struct{ Entries []Property }

func (c PropertyContainer) Marshal() []byte {
	var b []byte
	for _, e := range c.Entries {
		b = appendMessage(b, containerFieldEntries, e.Marshal(nil))
	}
	return b
}

func UnmarshalPropertyContainer(data []byte) (PropertyContainer, error) {
	var c PropertyContainer
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return PropertyContainer{}, err
		}
		if !ok {
			break
		}
		if num != containerFieldEntries {
			continue
		}
		e, err := UnmarshalProperty(raw)
		if err != nil {
			return PropertyContainer{}, err
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

func (c PropertyContainer) Upsert(e Property) PropertyContainer {
	out := make([]Property, 0, len(c.Entries)+1)
	for _, existing := range c.Entries {
		if existing.Name != e.Name {
			out = append(out, existing)
		}
	}
	out = append(out, e)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return PropertyContainer{Entries: out}
}

func (c PropertyContainer) Find(name string) (Property, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Property{}, false
}

// --- PropertyPageContainer ---

type PropertyPageContainer struct{ Entries []PropertyPage }

func (c PropertyPageContainer) Marshal() []byte {
	var b []byte
	for _, e := range c.Entries {
		b = appendMessage(b, containerFieldEntries, e.Marshal(nil))
	}
	return b
}

func UnmarshalPropertyPageContainer(data []byte) (PropertyPageContainer, error) {
	var c PropertyPageContainer
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return PropertyPageContainer{}, err
		}
		if !ok {
			break
		}
		if num != containerFieldEntries {
			continue
		}
		e, err := UnmarshalPropertyPage(raw)
		if err != nil {
			return PropertyPageContainer{}, err
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

func (c PropertyPageContainer) Upsert(e PropertyPage) PropertyPageContainer {
	out := make([]PropertyPage, 0, len(c.Entries)+1)
	for _, existing := range c.Entries {
		if existing.Name != e.Name {
			out = append(out, existing)
		}
	}
	out = append(out, e)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return PropertyPageContainer{Entries: out}
}

func (c PropertyPageContainer) Find(name string) (PropertyPage, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return PropertyPage{}, false
}

// --- ProposalContainer ---

type ProposalContainer struct{ Entries []Proposal }

func (c ProposalContainer) Marshal() []byte {
	var b []byte
	for _, e := range c.Entries {
		b = appendMessage(b, containerFieldEntries, e.Marshal(nil))
	}
	return b
}

func UnmarshalProposalContainer(data []byte) (ProposalContainer, error) {
	var c ProposalContainer
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return ProposalContainer{}, err
		}
		if !ok {
			break
		}
		if num != containerFieldEntries {
			continue
		}
		e, err := UnmarshalProposal(raw)
		if err != nil {
			return ProposalContainer{}, err
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

// proposalIdentity is the full identity tuple (recordId, receivingAgent,
// timestamp, role) that distinguishes otherwise colliding proposals.
func proposalIdentity(p Proposal) [4]string {
	return [4]string{p.RecordID, p.ReceivingAgent, fmtUint(p.Timestamp), p.Role.String()}
}

func (c ProposalContainer) Upsert(e Proposal) ProposalContainer {
	id := proposalIdentity(e)
	out := make([]Proposal, 0, len(c.Entries)+1)
	for _, existing := range c.Entries {
		if proposalIdentity(existing) != id {
			out = append(out, existing)
		}
	}
	out = append(out, e)
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].NaturalKey(), out[j].NaturalKey()
		for n := 0; n < len(ki); n++ {
			if ki[n] != kj[n] {
				return ki[n] < kj[n]
			}
		}
		return false
	})
	return ProposalContainer{Entries: out}
}

// FindOpen returns the OPEN proposal for (recordID, role, receivingAgent),
// enforcing the at-most-one-OPEN invariant.
func (c ProposalContainer) FindOpen(recordID, receivingAgent string, role Role) (Proposal, bool) {
	for _, e := range c.Entries {
		if e.RecordID == recordID && e.ReceivingAgent == receivingAgent && e.Role == role && e.Status == StatusOpen {
			return e, true
		}
	}
	return Proposal{}, false
}

func (c ProposalContainer) Find(recordID, receivingAgent string, timestamp uint64, role Role) (Proposal, bool) {
	for _, e := range c.Entries {
		if e.RecordID == recordID && e.ReceivingAgent == receivingAgent && e.Timestamp == timestamp && e.Role == role {
			return e, true
		}
	}
	return Proposal{}, false
}
