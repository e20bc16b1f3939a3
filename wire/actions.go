package wire

import "google.golang.org/protobuf/encoding/protowire"

// Action identifies the kind of state transition a Payload carries.
type Action uint8

const (
	ActionUnspecified      Action = 0
	ActionCreateAgent      Action = 1
	ActionCreateRecord     Action = 2
	ActionCreateRecordType Action = 3
	ActionUpdateProperties Action = 4
	ActionCreateProposal   Action = 5
	ActionAnswerProposal   Action = 6
	ActionRevokeReporter   Action = 7
	ActionFinalizeRecord   Action = 8
)

func (a Action) Valid() bool { return a >= ActionCreateAgent && a <= ActionFinalizeRecord }

// AnswerResponse is the receiving/issuing agent's reply to a Proposal.
type AnswerResponse uint8

const (
	ResponseUnspecified AnswerResponse = 0
	ResponseAccept      AnswerResponse = 1
	ResponseReject      AnswerResponse = 2
	ResponseCancel      AnswerResponse = 3
)

// PropertyValueInput names a Value targeted at a specific property, used
// by CreateRecordAction and UpdatePropertiesAction.
type PropertyValueInput struct {
	Name  string
	Value Value
}

const (
	pvInputFieldName  protowire.Number = 1
	pvInputFieldValue protowire.Number = 2
)

func (p PropertyValueInput) Marshal(b []byte) []byte {
	b = appendString(b, pvInputFieldName, p.Name)
	b = appendMessage(b, pvInputFieldValue, p.Value.Marshal(nil))
	return b
}

func UnmarshalPropertyValueInput(data []byte) (PropertyValueInput, error) {
	var p PropertyValueInput
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return PropertyValueInput{}, err
		}
		if !ok {
			break
		}
		switch num {
		case pvInputFieldName:
			p.Name = readString(raw)
		case pvInputFieldValue:
			v, err := UnmarshalValue(raw)
			if err != nil {
				return PropertyValueInput{}, err
			}
			p.Value = v
		}
	}
	return p, nil
}

// --- CreateAgentAction ---

const createAgentFieldName protowire.Number = 1

type CreateAgentAction struct{ Name string }

func (a CreateAgentAction) Marshal(b []byte) []byte {
	return appendString(b, createAgentFieldName, a.Name)
}

func UnmarshalCreateAgentAction(data []byte) (CreateAgentAction, error) {
	var a CreateAgentAction
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return CreateAgentAction{}, err
		}
		if !ok {
			break
		}
		if num == createAgentFieldName {
			a.Name = readString(raw)
		}
	}
	return a, nil
}

// --- CreateRecordTypeAction ---

const (
	createRecordTypeFieldName       protowire.Number = 1
	createRecordTypeFieldProperties protowire.Number = 2
)

type CreateRecordTypeAction struct {
	Name       string
	Properties []PropertySchema
}

func (a CreateRecordTypeAction) Marshal(b []byte) []byte {
	b = appendString(b, createRecordTypeFieldName, a.Name)
	for _, p := range a.Properties {
		b = appendMessage(b, createRecordTypeFieldProperties, p.Marshal(nil))
	}
	return b
}

func UnmarshalCreateRecordTypeAction(data []byte) (CreateRecordTypeAction, error) {
	var a CreateRecordTypeAction
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return CreateRecordTypeAction{}, err
		}
		if !ok {
			break
		}
		switch num {
		case createRecordTypeFieldName:
			a.Name = readString(raw)
		case createRecordTypeFieldProperties:
			p, err := UnmarshalPropertySchema(raw)
			if err != nil {
				return CreateRecordTypeAction{}, err
			}
			a.Properties = append(a.Properties, p)
		}
	}
	return a, nil
}

// --- CreateRecordAction ---

const (
	createRecordFieldRecordID   protowire.Number = 1
	createRecordFieldRecordType protowire.Number = 2
	createRecordFieldProperties protowire.Number = 3
)

type CreateRecordAction struct {
	RecordID   string
	RecordType string
	Properties []PropertyValueInput
}

func (a CreateRecordAction) Marshal(b []byte) []byte {
	b = appendString(b, createRecordFieldRecordID, a.RecordID)
	b = appendString(b, createRecordFieldRecordType, a.RecordType)
	for _, p := range a.Properties {
		b = appendMessage(b, createRecordFieldProperties, p.Marshal(nil))
	}
	return b
}

func UnmarshalCreateRecordAction(data []byte) (CreateRecordAction, error) {
	var a CreateRecordAction
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return CreateRecordAction{}, err
		}
		if !ok {
			break
		}
		switch num {
		case createRecordFieldRecordID:
			a.RecordID = readString(raw)
		case createRecordFieldRecordType:
			a.RecordType = readString(raw)
		case createRecordFieldProperties:
			p, err := UnmarshalPropertyValueInput(raw)
			if err != nil {
				return CreateRecordAction{}, err
			}
			a.Properties = append(a.Properties, p)
		}
	}
	return a, nil
}

// --- UpdatePropertiesAction ---

const (
	updatePropertiesFieldRecordID   protowire.Number = 1
	updatePropertiesFieldProperties protowire.Number = 2
)

type UpdatePropertiesAction struct {
	RecordID   string
	Properties []PropertyValueInput
}

func (a UpdatePropertiesAction) Marshal(b []byte) []byte {
	b = appendString(b, updatePropertiesFieldRecordID, a.RecordID)
	for _, p := range a.Properties {
		b = appendMessage(b, updatePropertiesFieldProperties, p.Marshal(nil))
	}
	return b
}

func UnmarshalUpdatePropertiesAction(data []byte) (UpdatePropertiesAction, error) {
	var a UpdatePropertiesAction
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return UpdatePropertiesAction{}, err
		}
		if !ok {
			break
		}
		switch num {
		case updatePropertiesFieldRecordID:
			a.RecordID = readString(raw)
		case updatePropertiesFieldProperties:
			p, err := UnmarshalPropertyValueInput(raw)
			if err != nil {
				return UpdatePropertiesAction{}, err
			}
			a.Properties = append(a.Properties, p)
		}
	}
	return a, nil
}

// --- CreateProposalAction ---

const (
	createProposalFieldRecordID       protowire.Number = 1
	createProposalFieldReceivingAgent protowire.Number = 2
	createProposalFieldRole           protowire.Number = 3
	createProposalFieldProperties     protowire.Number = 4
	createProposalFieldTerms          protowire.Number = 5
)

type CreateProposalAction struct {
	RecordID       string
	ReceivingAgent string
	Role           Role
	Properties     []string
	Terms          string
}

func (a CreateProposalAction) Marshal(b []byte) []byte {
	b = appendString(b, createProposalFieldRecordID, a.RecordID)
	b = appendString(b, createProposalFieldReceivingAgent, a.ReceivingAgent)
	b = appendUint64(b, createProposalFieldRole, uint64(a.Role))
	for _, p := range a.Properties {
		b = appendString(b, createProposalFieldProperties, p)
	}
	b = appendString(b, createProposalFieldTerms, a.Terms)
	return b
}

func UnmarshalCreateProposalAction(data []byte) (CreateProposalAction, error) {
	var a CreateProposalAction
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return CreateProposalAction{}, err
		}
		if !ok {
			break
		}
		switch num {
		case createProposalFieldRecordID:
			a.RecordID = readString(raw)
		case createProposalFieldReceivingAgent:
			a.ReceivingAgent = readString(raw)
		case createProposalFieldRole:
			a.Role = Role(readVarint(raw))
		case createProposalFieldProperties:
			a.Properties = append(a.Properties, readString(raw))
		case createProposalFieldTerms:
			a.Terms = readString(raw)
		}
	}
	return a, nil
}

// --- AnswerProposalAction ---

const (
	answerProposalFieldRecordID       protowire.Number = 1
	answerProposalFieldReceivingAgent protowire.Number = 2
	answerProposalFieldRole           protowire.Number = 3
	answerProposalFieldResponse       protowire.Number = 4
	answerProposalFieldTimestamp      protowire.Number = 5
)

type AnswerProposalAction struct {
	RecordID       string
	ReceivingAgent string
	Role           Role
	Response       AnswerResponse
	Timestamp      uint64
}

func (a AnswerProposalAction) Marshal(b []byte) []byte {
	b = appendString(b, answerProposalFieldRecordID, a.RecordID)
	b = appendString(b, answerProposalFieldReceivingAgent, a.ReceivingAgent)
	b = appendUint64(b, answerProposalFieldRole, uint64(a.Role))
	b = appendUint64(b, answerProposalFieldResponse, uint64(a.Response))
	b = appendUint64(b, answerProposalFieldTimestamp, a.Timestamp)
	return b
}

func UnmarshalAnswerProposalAction(data []byte) (AnswerProposalAction, error) {
	var a AnswerProposalAction
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return AnswerProposalAction{}, err
		}
		if !ok {
			break
		}
		switch num {
		case answerProposalFieldRecordID:
			a.RecordID = readString(raw)
		case answerProposalFieldReceivingAgent:
			a.ReceivingAgent = readString(raw)
		case answerProposalFieldRole:
			a.Role = Role(readVarint(raw))
		case answerProposalFieldResponse:
			a.Response = AnswerResponse(readVarint(raw))
		case answerProposalFieldTimestamp:
			a.Timestamp = readVarint(raw)
		}
	}
	return a, nil
}

// --- RevokeReporterAction ---

const (
	revokeReporterFieldRecordIDNum protowire.Number = 1
	revokeReporterFieldReporterID  protowire.Number = 2
	revokeReporterFieldName        protowire.Number = 3
)

type RevokeReporterAction struct {
	RecordID   string
	ReporterID string
	Name       string
}

func (a RevokeReporterAction) Marshal(b []byte) []byte {
	b = appendString(b, revokeReporterFieldRecordIDNum, a.RecordID)
	b = appendString(b, revokeReporterFieldReporterID, a.ReporterID)
	b = appendString(b, revokeReporterFieldName, a.Name)
	return b
}

func UnmarshalRevokeReporterAction(data []byte) (RevokeReporterAction, error) {
	var a RevokeReporterAction
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return RevokeReporterAction{}, err
		}
		if !ok {
			break
		}
		switch num {
		case revokeReporterFieldRecordIDNum:
			a.RecordID = readString(raw)
		case revokeReporterFieldReporterID:
			a.ReporterID = readString(raw)
		case revokeReporterFieldName:
			a.Name = readString(raw)
		}
	}
	return a, nil
}

// --- FinalizeRecordAction ---

const finalizeRecordFieldRecordID protowire.Number = 1

type FinalizeRecordAction struct{ RecordID string }

func (a FinalizeRecordAction) Marshal(b []byte) []byte {
	return appendString(b, finalizeRecordFieldRecordID, a.RecordID)
}

func UnmarshalFinalizeRecordAction(data []byte) (FinalizeRecordAction, error) {
	var a FinalizeRecordAction
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return FinalizeRecordAction{}, err
		}
		if !ok {
			break
		}
		if num == finalizeRecordFieldRecordID {
			a.RecordID = readString(raw)
		}
	}
	return a, nil
}
