package store

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger-archives/sawtooth-supply-chain/wire"
)

// Applier turns decoded wire containers into block-versioned store rows.
// It is the only place C6 reaches into wire's types, keeping the
// projection logic (JSON-encoding reporters, enriching enum/struct
// values) out of the sync pipeline's control flow.
type Applier struct {
	store *Store
}

func NewApplier(s *Store) *Applier { return &Applier{store: s} }

func (a *Applier) ApplyAgent(e wire.Agent, blockNum uint64) error {
	return a.store.UpsertAgent(AgentRow{
		PublicKey: e.PublicKey,
		Name:      e.Name,
		Timestamp: e.Timestamp,
	}, blockNum)
}

func (a *Applier) ApplyRecordType(e wire.RecordType, blockNum uint64) error {
	propsJSON, err := json.Marshal(e.Properties)
	if err != nil {
		return fmt.Errorf("store: encode record type properties: %w", err)
	}
	return a.store.UpsertRecordType(RecordTypeRow{
		Name:           e.Name,
		PropertiesJSON: string(propsJSON),
	}, blockNum)
}

func (a *Applier) ApplyRecord(e wire.Record, blockNum uint64) error {
	return a.store.UpsertRecord(RecordRow{
		RecordID:   e.RecordID,
		RecordType: e.RecordType,
		Owner:      e.Owner,
		Custodian:  e.Custodian,
		Final:      e.Final,
	}, blockNum)
}

func (a *Applier) ApplyProperty(e wire.Property, blockNum uint64) error {
	reportersJSON, err := json.Marshal(e.Reporters)
	if err != nil {
		return fmt.Errorf("store: encode property reporters: %w", err)
	}
	enumJSON, err := json.Marshal(e.EnumOptions)
	if err != nil {
		return fmt.Errorf("store: encode property enum options: %w", err)
	}
	structJSON, err := json.Marshal(e.Struct)
	if err != nil {
		return fmt.Errorf("store: encode property struct schema: %w", err)
	}
	return a.store.UpsertProperty(PropertyRow{
		Name:            e.Name,
		RecordID:        e.RecordID,
		DataType:        uint8(e.DataType),
		CurrentPage:     e.CurrentPage,
		Wrapped:         e.Wrapped,
		ReportersJSON:   string(reportersJSON),
		Fixed:           e.Fixed,
		NumberExponent:  e.NumberExponent,
		EnumOptionsJSON: string(enumJSON),
		StructJSON:      string(structJSON),
		Unit:            e.Unit,
	}, blockNum)
}

// enrichedReport is the read-store's JSON shape for one PropertyPage
// report: the raw typed value plus, for ENUM/STRUCT properties, the
// resolved human-readable form.
type enrichedReport struct {
	ReporterIndex uint32         `json:"reporterIndex"`
	Timestamp     uint64         `json:"timestamp"`
	Value         wire.Value     `json:"value"`
	EnumLabel     string         `json:"enumLabel,omitempty"`
	StructValue   map[string]any `json:"structValue,omitempty"`
}

// ApplyPropertyPage projects a PropertyPage, consulting the property's
// row live at blockNum (by name, recordId) — including a row written
// earlier in the same block — to enrich ENUM reports with their label
// and STRUCT reports with a keyed map. If no Property row is found the
// page is skipped — not fatal, matching the pipeline's decode-error
// disposition for a missing cross-table dependency.
func (a *Applier) ApplyPropertyPage(e wire.PropertyPage, blockNum uint64) error {
	prop, ok, err := a.store.PropertyAsOf(e.RecordID, e.Name, blockNum)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var enumOptions []string
	_ = json.Unmarshal([]byte(prop.EnumOptionsJSON), &enumOptions)

	reports := make([]enrichedReport, 0, len(e.Reports))
	for _, r := range e.Reports {
		er := enrichedReport{ReporterIndex: r.ReporterIndex, Timestamp: r.Timestamp, Value: r.Value}
		switch wire.DataType(prop.DataType) {
		case wire.DataTypeEnum:
			idx := int(r.Value.EnumValue)
			if idx >= 0 && idx < len(enumOptions) {
				er.EnumLabel = enumOptions[idx]
			}
		case wire.DataTypeStruct:
			er.StructValue = foldStruct(r.Value.StructValues)
		}
		reports = append(reports, er)
	}

	reportsJSON, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("store: encode property page reports: %w", err)
	}
	return a.store.UpsertPropertyPage(PropertyPageRow{
		Name:        e.Name,
		RecordID:    e.RecordID,
		PageNum:     e.PageNum,
		ReportsJSON: string(reportsJSON),
	}, blockNum)
}

func foldStruct(values []wire.Value) map[string]any {
	out := make(map[string]any, len(values))
	for _, v := range values {
		switch v.DataType {
		case wire.DataTypeStruct:
			out[v.Name] = foldStruct(v.StructValues)
		case wire.DataTypeString:
			out[v.Name] = v.StringValue
		case wire.DataTypeNumber:
			out[v.Name] = v.NumberValue
		case wire.DataTypeBoolean:
			out[v.Name] = v.BooleanValue
		case wire.DataTypeBytes:
			out[v.Name] = v.BytesValue
		case wire.DataTypeLocation:
			out[v.Name] = map[string]int64{"latitude": v.LocationLat, "longitude": v.LocationLong}
		case wire.DataTypeEnum:
			out[v.Name] = v.EnumValue
		}
	}
	return out
}

func (a *Applier) ApplyProposal(e wire.Proposal, blockNum uint64) error {
	propsJSON, err := json.Marshal(e.Properties)
	if err != nil {
		return fmt.Errorf("store: encode proposal properties: %w", err)
	}
	return a.store.UpsertProposal(ProposalRow{
		RecordID:       e.RecordID,
		Timestamp:      e.Timestamp,
		ReceivingAgent: e.ReceivingAgent,
		Role:           uint8(e.Role),
		IssuingAgent:   e.IssuingAgent,
		PropertiesJSON: string(propsJSON),
		Status:         uint8(e.Status),
		Terms:          e.Terms,
	}, blockNum)
}
