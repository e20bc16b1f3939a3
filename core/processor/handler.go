// Package processor implements the supply_chain family's transaction
// logic: one handler per Action, each validating its preconditions
// against current ledger state before mutating it through the core/state
// helpers. Every exported entry point is pure with respect to its
// state.Context argument — no package-level state survives between
// transactions.
package processor

import (
	stdctx "context"
	"strconv"
	"time"

	"github.com/hyperledger-archives/sawtooth-supply-chain/core/state"
	"github.com/hyperledger-archives/sawtooth-supply-chain/observability"
	"github.com/hyperledger-archives/sawtooth-supply-chain/wire"
)

// FamilyName and FamilyVersion identify this transaction family to the
// platform's dispatch layer.
const (
	FamilyName    = "supply_chain"
	FamilyVersion = "1.1"

	propertyPageMaxLength = 256
	maxPageNumber         = 0xFFFF
)

// Handler dispatches a decoded Payload to its action-specific logic.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// Apply validates and executes payload against ctx, attributing the
// transaction to signer. The timestamp used by every action below is
// the one committed to the signed payload bytes (wire.Payload.Timestamp),
// never a value supplied out of band.
func (h *Handler) Apply(ctx stdctx.Context, store state.Context, signer string, payload []byte) (err error) {
	start := time.Now()
	action := "unknown"
	defer func() {
		observability.Processor().Observe(action, time.Since(start), err)
	}()

	p, err := wire.UnmarshalPayload(payload)
	if err != nil {
		return invalidf("cannot decode payload: %v", err)
	}
	action = strconv.Itoa(int(p.Action))
	if p.Timestamp == 0 {
		return invalidf("timestamp must be greater than zero")
	}
	timestamp := p.Timestamp
	switch p.Action {
	case wire.ActionCreateAgent:
		body, err := wire.UnmarshalCreateAgentAction(p.Body)
		if err != nil {
			return invalidf("cannot decode CreateAgentAction: %v", err)
		}
		return h.createAgent(ctx, store, signer, timestamp, body)
	case wire.ActionCreateRecordType:
		body, err := wire.UnmarshalCreateRecordTypeAction(p.Body)
		if err != nil {
			return invalidf("cannot decode CreateRecordTypeAction: %v", err)
		}
		return h.createRecordType(ctx, store, signer, body)
	case wire.ActionCreateRecord:
		body, err := wire.UnmarshalCreateRecordAction(p.Body)
		if err != nil {
			return invalidf("cannot decode CreateRecordAction: %v", err)
		}
		return h.createRecord(ctx, store, signer, timestamp, body)
	case wire.ActionUpdateProperties:
		body, err := wire.UnmarshalUpdatePropertiesAction(p.Body)
		if err != nil {
			return invalidf("cannot decode UpdatePropertiesAction: %v", err)
		}
		return h.updateProperties(ctx, store, signer, timestamp, body)
	case wire.ActionCreateProposal:
		body, err := wire.UnmarshalCreateProposalAction(p.Body)
		if err != nil {
			return invalidf("cannot decode CreateProposalAction: %v", err)
		}
		return h.createProposal(ctx, store, signer, timestamp, body)
	case wire.ActionAnswerProposal:
		body, err := wire.UnmarshalAnswerProposalAction(p.Body)
		if err != nil {
			return invalidf("cannot decode AnswerProposalAction: %v", err)
		}
		return h.answerProposal(ctx, store, signer, body)
	case wire.ActionRevokeReporter:
		body, err := wire.UnmarshalRevokeReporterAction(p.Body)
		if err != nil {
			return invalidf("cannot decode RevokeReporterAction: %v", err)
		}
		return h.revokeReporter(ctx, store, signer, body)
	case wire.ActionFinalizeRecord:
		body, err := wire.UnmarshalFinalizeRecordAction(p.Body)
		if err != nil {
			return invalidf("cannot decode FinalizeRecordAction: %v", err)
		}
		return h.finalizeRecord(ctx, store, signer, body)
	default:
		return invalidf("unknown action: %d", p.Action)
	}
}

func (h *Handler) createAgent(ctx stdctx.Context, store state.Context, signer string, timestamp uint64, body wire.CreateAgentAction) error {
	if body.Name == "" {
		return invalidf("agent name must not be empty")
	}
	if _, ok, err := state.GetAgent(ctx, store, signer); err != nil {
		return err
	} else if ok {
		return invalidf("agent already exists: %s", signer)
	}
	return state.SetAgent(ctx, store, wire.Agent{
		PublicKey: signer,
		Name:      body.Name,
		Timestamp: timestamp,
	})
}

func (h *Handler) createRecordType(ctx stdctx.Context, store state.Context, signer string, body wire.CreateRecordTypeAction) error {
	if body.Name == "" {
		return invalidf("record type name must not be empty")
	}
	if len(body.Properties) == 0 {
		return invalidf("record type %s declares no properties", body.Name)
	}
	for _, p := range body.Properties {
		if err := validatePropertySchema(p); err != nil {
			return err
		}
	}
	if _, ok, err := state.GetAgent(ctx, store, signer); err != nil {
		return err
	} else if !ok {
		return invalidf("agent is not registered: %s", signer)
	}
	if _, ok, err := state.GetRecordType(ctx, store, body.Name); err != nil {
		return err
	} else if ok {
		return invalidf("record type already exists: %s", body.Name)
	}
	return state.SetRecordType(ctx, store, wire.RecordType{
		Name:       body.Name,
		Properties: body.Properties,
	})
}

func (h *Handler) createRecord(ctx stdctx.Context, store state.Context, signer string, timestamp uint64, body wire.CreateRecordAction) error {
	if _, ok, err := state.GetAgent(ctx, store, signer); err != nil {
		return err
	} else if !ok {
		return invalidf("agent is not registered: %s", signer)
	}
	if _, ok, err := state.GetRecord(ctx, store, body.RecordID); err != nil {
		return err
	} else if ok {
		return invalidf("record already exists: %s", body.RecordID)
	}
	recordType, ok, err := state.GetRecordType(ctx, store, body.RecordType)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("record type does not exist: %s", body.RecordType)
	}

	provided := make(map[string]wire.Value, len(body.Properties))
	for _, p := range body.Properties {
		provided[p.Name] = p.Value
	}
	for _, schema := range recordType.Properties {
		if schema.Required {
			if _, ok := provided[schema.Name]; !ok {
				return invalidf("required property %s not provided", schema.Name)
			}
		}
	}
	for name, value := range provided {
		var schema *wire.PropertySchema
		for i := range recordType.Properties {
			if recordType.Properties[i].Name == name {
				schema = &recordType.Properties[i]
				break
			}
		}
		if schema == nil {
			return invalidf("provided property %s is not in record type schema", name)
		}
		if value.DataType != schema.DataType {
			return invalidf("value provided for %s is the wrong type", name)
		}
		if err := validateValueShape(value, schema.EnumOptions, schema.NumberExponent, schema.Struct); err != nil {
			return invalidf("value provided for %s: %v", name, err)
		}
	}

	if err := state.SetRecord(ctx, store, wire.Record{
		RecordID:   body.RecordID,
		RecordType: body.RecordType,
		Owner:      signer,
		Custodian:  signer,
		Final:      false,
	}); err != nil {
		return err
	}

	for _, schema := range recordType.Properties {
		prop := wire.Property{
			Name:           schema.Name,
			RecordID:       body.RecordID,
			RecordType:     body.RecordType,
			DataType:       schema.DataType,
			CurrentPage:    1,
			Wrapped:        false,
			Reporters:      []wire.Reporter{{PublicKey: signer, Authorized: true, Index: 0}},
			NumberExponent: schema.NumberExponent,
			EnumOptions:    schema.EnumOptions,
			Struct:         schema.Struct,
			Unit:           schema.Unit,
		}
		if err := state.SetProperty(ctx, store, body.RecordID, prop); err != nil {
			return err
		}

		page := wire.PropertyPage{Name: schema.Name, PageNum: 1, RecordID: body.RecordID}
		if v, ok := provided[schema.Name]; ok {
			page.Reports = []wire.PropertyReport{{ReporterIndex: 0, Timestamp: timestamp, Value: v}}
		}
		if err := state.SetPropertyPage(ctx, store, body.RecordID, page); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) finalizeRecord(ctx stdctx.Context, store state.Context, signer string, body wire.FinalizeRecordAction) error {
	record, ok, err := state.GetRecord(ctx, store, body.RecordID)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("record does not exist: %s", body.RecordID)
	}
	if record.Owner != signer || record.Custodian != signer {
		return invalidf("must be owner and custodian to finalize record")
	}
	if record.Final {
		return invalidf("record is already final: %s", body.RecordID)
	}
	record.Final = true
	return state.SetRecord(ctx, store, record)
}

func (h *Handler) updateProperties(ctx stdctx.Context, store state.Context, signer string, timestamp uint64, body wire.UpdatePropertiesAction) error {
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

	for _, update := range body.Properties {
		prop, ok, err := state.GetProperty(ctx, store, body.RecordID, update.Name)
		if err != nil {
			return err
		}
		if !ok {
			return invalidf("record does not have provided property: %s", update.Name)
		}
		if update.Value.DataType != prop.DataType {
			return invalidf("update has wrong type for %s", update.Name)
		}
		if err := validateValueShape(update.Value, prop.EnumOptions, prop.NumberExponent, prop.Struct); err != nil {
			return invalidf("update for %s: %v", update.Name, err)
		}

		var reporterIndex uint32
		authorized := false
		for _, r := range prop.Reporters {
			if r.PublicKey == signer && r.Authorized {
				authorized = true
				reporterIndex = r.Index
				break
			}
		}
		if !authorized {
			return invalidf("reporter is not authorized: %s", signer)
		}

		pageNum := prop.CurrentPage
		page, ok, err := state.GetPropertyPage(ctx, store, body.RecordID, update.Name, pageNum)
		if err != nil {
			return err
		}
		if !ok {
			return invalidf("property page does not exist")
		}
		page.Reports = append(page.Reports, wire.PropertyReport{
			ReporterIndex: reporterIndex,
			Timestamp:     timestamp,
			Value:         update.Value,
		})
		if err := state.SetPropertyPage(ctx, store, body.RecordID, page); err != nil {
			return err
		}

		if len(page.Reports) >= propertyPageMaxLength {
			newPageNum := pageNum + 1
			if newPageNum > maxPageNumber {
				newPageNum = 1
			}
			newPage, existed, err := state.GetPropertyPage(ctx, store, body.RecordID, update.Name, newPageNum)
			if err != nil {
				return err
			}
			if existed {
				newPage.Reports = nil
			} else {
				newPage = wire.PropertyPage{Name: update.Name, PageNum: newPageNum, RecordID: body.RecordID}
			}
			if err := state.SetPropertyPage(ctx, store, body.RecordID, newPage); err != nil {
				return err
			}
			prop.CurrentPage = newPageNum
			if newPageNum == 1 && !prop.Wrapped {
				prop.Wrapped = true
			}
			if err := state.SetProperty(ctx, store, body.RecordID, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

