package processor

import (
	stdctx "context"

	"github.com/hyperledger-archives/sawtooth-supply-chain/core/state"
	"github.com/hyperledger-archives/sawtooth-supply-chain/wire"
)

func (h *Handler) createProposal(ctx stdctx.Context, store state.Context, signer string, timestamp uint64, body wire.CreateProposalAction) error {
	if _, ok, err := state.GetAgent(ctx, store, signer); err != nil {
		return err
	} else if !ok {
		return invalidf("issuing agent does not exist: %s", signer)
	}
	if _, ok, err := state.GetAgent(ctx, store, body.ReceivingAgent); err != nil {
		return err
	} else if !ok {
		return invalidf("receiving agent does not exist: %s", body.ReceivingAgent)
	}

	record, ok, err := state.GetRecord(ctx, store, body.RecordID)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("record does not exist: %s", body.RecordID)
	}
	if record.Final {
		return invalidf("record is final: %s", body.RecordID)
	}

	container, err := state.GetProposalContainer(ctx, store, body.RecordID, body.ReceivingAgent, body.Role)
	if err != nil {
		return err
	}
	if _, ok := container.FindOpen(body.RecordID, body.ReceivingAgent, body.Role); ok {
		return invalidf("proposal already exists")
	}

	switch body.Role {
	case wire.RoleOwner, wire.RoleReporter:
		if record.Owner != signer {
			return invalidf("only the owner can create a proposal to change ownership or reporters")
		}
	case wire.RoleCustodian:
		if record.Custodian != signer {
			return invalidf("only the custodian can create a proposal to change custodianship")
		}
	default:
		return invalidf("invalid role: %d", body.Role)
	}

	if body.Role == wire.RoleReporter && len(body.Properties) == 0 {
		return invalidf("reporter proposals must name at least one property")
	}
	for _, name := range body.Properties {
		if _, ok, err := state.GetProperty(ctx, store, body.RecordID, name); err != nil {
			return err
		} else if !ok {
			return invalidf("proposal references unknown property: %s", name)
		}
	}

	return state.SetProposal(ctx, store, wire.Proposal{
		RecordID:       body.RecordID,
		ReceivingAgent: body.ReceivingAgent,
		IssuingAgent:   signer,
		Role:           body.Role,
		Properties:     body.Properties,
		Status:         wire.StatusOpen,
		Terms:          body.Terms,
		Timestamp:      timestamp,
	})
}

func (h *Handler) answerProposal(ctx stdctx.Context, store state.Context, signer string, body wire.AnswerProposalAction) error {
	container, err := state.GetProposalContainer(ctx, store, body.RecordID, body.ReceivingAgent, body.Role)
	if err != nil {
		return err
	}
	current, ok := container.Find(body.RecordID, body.ReceivingAgent, body.Timestamp, body.Role)
	if !ok || current.Status != wire.StatusOpen {
		return invalidf("no open proposal found for record %s for %s", body.RecordID, body.ReceivingAgent)
	}

	switch body.Response {
	case wire.ResponseCancel:
		if current.IssuingAgent != signer {
			return invalidf("only the issuing agent can cancel a proposal")
		}
		current.Status = wire.StatusCanceled
		return state.SetProposal(ctx, store, current)
	case wire.ResponseReject:
		if current.ReceivingAgent != signer {
			return invalidf("only the receiving agent can reject a proposal")
		}
		current.Status = wire.StatusRejected
		return state.SetProposal(ctx, store, current)
	case wire.ResponseAccept:
		if current.ReceivingAgent != signer {
			return invalidf("only the receiving agent can accept a proposal")
		}
	default:
		return invalidf("invalid response: %d", body.Response)
	}

	record, ok, err := state.GetRecord(ctx, store, body.RecordID)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("record in proposal does not exist: %s", body.RecordID)
	}

	switch current.Role {
	case wire.RoleOwner:
		if record.Owner != current.IssuingAgent {
			current.Status = wire.StatusCanceled
			return state.SetProposal(ctx, store, current)
		}
		record.Owner = body.ReceivingAgent
		if err := state.SetRecord(ctx, store, record); err != nil {
			return err
		}
		if err := h.reassignReporters(ctx, store, record, current.IssuingAgent, body.ReceivingAgent); err != nil {
			return err
		}
	case wire.RoleCustodian:
		if record.Custodian != current.IssuingAgent {
			current.Status = wire.StatusCanceled
			return state.SetProposal(ctx, store, current)
		}
		record.Custodian = body.ReceivingAgent
		if err := state.SetRecord(ctx, store, record); err != nil {
			return err
		}
	case wire.RoleReporter:
		if record.Owner != current.IssuingAgent {
			current.Status = wire.StatusCanceled
			return state.SetProposal(ctx, store, current)
		}
		for _, name := range current.Properties {
			prop, ok, err := state.GetProperty(ctx, store, body.RecordID, name)
			if err != nil {
				return err
			}
			if !ok {
				return invalidf("property does not exist: %s", name)
			}
			prop.Reporters = append(prop.Reporters, wire.Reporter{
				PublicKey:  body.ReceivingAgent,
				Authorized: true,
				Index:      uint32(len(prop.Reporters)),
			})
			if err := state.SetProperty(ctx, store, body.RecordID, prop); err != nil {
				return err
			}
		}
	}

	current.Status = wire.StatusAccepted
	return state.SetProposal(ctx, store, current)
}

// reassignReporters mirrors an OWNER proposal's acceptance onto every
// Property of the record: the old owner's reporter authorization is
// revoked and the new owner gains (or regains) one.
func (h *Handler) reassignReporters(ctx stdctx.Context, store state.Context, record wire.Record, oldOwner, newOwner string) error {
	recordType, ok, err := state.GetRecordType(ctx, store, record.RecordType)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("record type does not exist: %s", record.RecordType)
	}
	for _, schema := range recordType.Properties {
		prop, ok, err := state.GetProperty(ctx, store, record.RecordID, schema.Name)
		if err != nil {
			return err
		}
		if !ok {
			return invalidf("property does not exist: %s", schema.Name)
		}
		authorized := false
		for i := range prop.Reporters {
			switch prop.Reporters[i].PublicKey {
			case oldOwner:
				prop.Reporters[i].Authorized = false
			case newOwner:
				prop.Reporters[i].Authorized = true
				authorized = true
			}
		}
		if !authorized {
			prop.Reporters = append(prop.Reporters, wire.Reporter{
				PublicKey:  newOwner,
				Authorized: true,
				Index:      uint32(len(prop.Reporters)),
			})
		}
		if err := state.SetProperty(ctx, store, record.RecordID, prop); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) revokeReporter(ctx stdctx.Context, store state.Context, signer string, body wire.RevokeReporterAction) error {
	record, ok, err := state.GetRecord(ctx, store, body.RecordID)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("record does not exist: %s", body.RecordID)
	}
	if record.Owner != signer {
		return invalidf("must be owner to revoke reporters")
	}
	if record.Final {
		return invalidf("record is final: %s", body.RecordID)
	}

	prop, ok, err := state.GetProperty(ctx, store, body.RecordID, body.Name)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("property does not exist: %s", body.Name)
	}

	found := false
	for i := range prop.Reporters {
		if prop.Reporters[i].PublicKey == body.ReporterID {
			if !prop.Reporters[i].Authorized {
				return invalidf("reporter is not currently authorized: %s", body.ReporterID)
			}
			prop.Reporters[i].Authorized = false
			found = true
			break
		}
	}
	if !found {
		return invalidf("reporter not found on property: %s", body.ReporterID)
	}
	return state.SetProperty(ctx, store, body.RecordID, prop)
}
