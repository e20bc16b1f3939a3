package state

import (
	stdctx "context"

	"github.com/hyperledger-archives/sawtooth-supply-chain/addressing"
	"github.com/hyperledger-archives/sawtooth-supply-chain/wire"
)

func getOne(ctx stdctx.Context, c Context, address string) ([]byte, error) {
	out, err := c.GetState(ctx, []string{address})
	if err != nil {
		return nil, err
	}
	return out[address], nil
}

// GetAgent returns the Agent at publicKey, or ok=false if its container
// holds no matching entry (or the address is unset).
func GetAgent(ctx stdctx.Context, c Context, publicKey string) (wire.Agent, bool, error) {
	raw, err := getOne(ctx, c, addressing.AgentAddress(publicKey))
	if err != nil || len(raw) == 0 {
		return wire.Agent{}, false, err
	}
	container, err := wire.UnmarshalAgentContainer(raw)
	if err != nil {
		return wire.Agent{}, false, err
	}
	a, ok := container.Find(publicKey)
	return a, ok, nil
}

// SetAgent upserts agent into the container at its address.
func SetAgent(ctx stdctx.Context, c Context, agent wire.Agent) error {
	address := addressing.AgentAddress(agent.PublicKey)
	raw, err := getOne(ctx, c, address)
	if err != nil {
		return err
	}
	var container wire.AgentContainer
	if len(raw) > 0 {
		container, err = wire.UnmarshalAgentContainer(raw)
		if err != nil {
			return err
		}
	}
	container = container.Upsert(agent)
	return c.SetState(ctx, map[string][]byte{address: container.Marshal()})
}

// GetRecordType returns the RecordType named name.
func GetRecordType(ctx stdctx.Context, c Context, name string) (wire.RecordType, bool, error) {
	raw, err := getOne(ctx, c, addressing.RecordTypeAddress(name))
	if err != nil || len(raw) == 0 {
		return wire.RecordType{}, false, err
	}
	container, err := wire.UnmarshalRecordTypeContainer(raw)
	if err != nil {
		return wire.RecordType{}, false, err
	}
	rt, ok := container.Find(name)
	return rt, ok, nil
}

func SetRecordType(ctx stdctx.Context, c Context, rt wire.RecordType) error {
	address := addressing.RecordTypeAddress(rt.Name)
	raw, err := getOne(ctx, c, address)
	if err != nil {
		return err
	}
	var container wire.RecordTypeContainer
	if len(raw) > 0 {
		container, err = wire.UnmarshalRecordTypeContainer(raw)
		if err != nil {
			return err
		}
	}
	container = container.Upsert(rt)
	return c.SetState(ctx, map[string][]byte{address: container.Marshal()})
}

// GetRecord returns the Record named recordID.
func GetRecord(ctx stdctx.Context, c Context, recordID string) (wire.Record, bool, error) {
	raw, err := getOne(ctx, c, addressing.RecordAddress(recordID))
	if err != nil || len(raw) == 0 {
		return wire.Record{}, false, err
	}
	container, err := wire.UnmarshalRecordContainer(raw)
	if err != nil {
		return wire.Record{}, false, err
	}
	r, ok := container.Find(recordID)
	return r, ok, nil
}

func SetRecord(ctx stdctx.Context, c Context, r wire.Record) error {
	address := addressing.RecordAddress(r.RecordID)
	raw, err := getOne(ctx, c, address)
	if err != nil {
		return err
	}
	var container wire.RecordContainer
	if len(raw) > 0 {
		container, err = wire.UnmarshalRecordContainer(raw)
		if err != nil {
			return err
		}
	}
	container = container.Upsert(r)
	return c.SetState(ctx, map[string][]byte{address: container.Marshal()})
}

// GetProperty returns the Property named name under recordID.
func GetProperty(ctx stdctx.Context, c Context, recordID, name string) (wire.Property, bool, error) {
	raw, err := getOne(ctx, c, addressing.PropertyAddress(recordID, name))
	if err != nil || len(raw) == 0 {
		return wire.Property{}, false, err
	}
	container, err := wire.UnmarshalPropertyContainer(raw)
	if err != nil {
		return wire.Property{}, false, err
	}
	p, ok := container.Find(name)
	return p, ok, nil
}

func SetProperty(ctx stdctx.Context, c Context, recordID string, p wire.Property) error {
	address := addressing.PropertyAddress(recordID, p.Name)
	raw, err := getOne(ctx, c, address)
	if err != nil {
		return err
	}
	var container wire.PropertyContainer
	if len(raw) > 0 {
		container, err = wire.UnmarshalPropertyContainer(raw)
		if err != nil {
			return err
		}
	}
	container = container.Upsert(p)
	return c.SetState(ctx, map[string][]byte{address: container.Marshal()})
}

// GetPropertyPage returns page pageNum of property name under recordID.
func GetPropertyPage(ctx stdctx.Context, c Context, recordID, name string, pageNum uint32) (wire.PropertyPage, bool, error) {
	raw, err := getOne(ctx, c, addressing.PropertyPageAddress(recordID, name, pageNum))
	if err != nil || len(raw) == 0 {
		return wire.PropertyPage{}, false, err
	}
	container, err := wire.UnmarshalPropertyPageContainer(raw)
	if err != nil {
		return wire.PropertyPage{}, false, err
	}
	pp, ok := container.Find(name)
	return pp, ok, nil
}

func SetPropertyPage(ctx stdctx.Context, c Context, recordID string, pp wire.PropertyPage) error {
	address := addressing.PropertyPageAddress(recordID, pp.Name, pp.PageNum)
	raw, err := getOne(ctx, c, address)
	if err != nil {
		return err
	}
	var container wire.PropertyPageContainer
	if len(raw) > 0 {
		container, err = wire.UnmarshalPropertyPageContainer(raw)
		if err != nil {
			return err
		}
	}
	container = container.Upsert(pp)
	return c.SetState(ctx, map[string][]byte{address: container.Marshal()})
}

// GetProposalContainer returns the full proposal container at the
// address shared by (recordID, receivingAgent, role) — callers use
// ProposalContainer.FindOpen/Find to locate a specific proposal.
func GetProposalContainer(ctx stdctx.Context, c Context, recordID, receivingAgent string, role wire.Role) (wire.ProposalContainer, error) {
	raw, err := getOne(ctx, c, addressing.ProposalAddress(recordID, receivingAgent, role.String()))
	if err != nil {
		return wire.ProposalContainer{}, err
	}
	if len(raw) == 0 {
		return wire.ProposalContainer{}, nil
	}
	return wire.UnmarshalProposalContainer(raw)
}

func SetProposal(ctx stdctx.Context, c Context, p wire.Proposal) error {
	address := addressing.ProposalAddress(p.RecordID, p.ReceivingAgent, p.Role.String())
	container, err := GetProposalContainer(ctx, c, p.RecordID, p.ReceivingAgent, p.Role)
	if err != nil {
		return err
	}
	container = container.Upsert(p)
	return c.SetState(ctx, map[string][]byte{address: container.Marshal()})
}
