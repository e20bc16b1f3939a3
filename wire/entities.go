package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Role identifies the kind of authority a Proposal transfers.
type Role uint8

const (
	RoleUnspecified Role = 0
	RoleOwner       Role = 1
	RoleCustodian   Role = 2
	RoleReporter    Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "OWNER"
	case RoleCustodian:
		return "CUSTODIAN"
	case RoleReporter:
		return "REPORTER"
	default:
		return "UNSPECIFIED"
	}
}

// ProposalStatus is the lifecycle state of a Proposal.
type ProposalStatus uint8

const (
	StatusUnspecified ProposalStatus = 0
	StatusOpen        ProposalStatus = 1
	StatusAccepted     ProposalStatus = 2
	StatusRejected     ProposalStatus = 3
	StatusCanceled     ProposalStatus = 4
	StatusRescinded    ProposalStatus = 5
	StatusExpired      ProposalStatus = 6
)

// --- Agent ---

const (
	agentFieldPublicKey protowire.Number = 1
	agentFieldName      protowire.Number = 2
	agentFieldTimestamp protowire.Number = 3
)

type Agent struct {
	PublicKey string
	Name      string
	Timestamp uint64
}

func (a Agent) NaturalKey() string { return a.PublicKey }

func (a Agent) Marshal(b []byte) []byte {
	b = appendString(b, agentFieldPublicKey, a.PublicKey)
	b = appendString(b, agentFieldName, a.Name)
	b = appendUint64(b, agentFieldTimestamp, a.Timestamp)
	return b
}

func UnmarshalAgent(data []byte) (Agent, error) {
	var a Agent
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return Agent{}, err
		}
		if !ok {
			break
		}
		switch num {
		case agentFieldPublicKey:
			a.PublicKey = readString(raw)
		case agentFieldName:
			a.Name = readString(raw)
		case agentFieldTimestamp:
			a.Timestamp = readVarint(raw)
		}
	}
	return a, nil
}

// --- RecordType ---

const (
	recordTypeFieldName       protowire.Number = 1
	recordTypeFieldProperties protowire.Number = 2
)

type RecordType struct {
	Name       string
	Properties []PropertySchema
}

func (rt RecordType) NaturalKey() string { return rt.Name }

func (rt RecordType) Marshal(b []byte) []byte {
	b = appendString(b, recordTypeFieldName, rt.Name)
	for _, p := range rt.Properties {
		b = appendMessage(b, recordTypeFieldProperties, p.Marshal(nil))
	}
	return b
}

func UnmarshalRecordType(data []byte) (RecordType, error) {
	var rt RecordType
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return RecordType{}, err
		}
		if !ok {
			break
		}
		switch num {
		case recordTypeFieldName:
			rt.Name = readString(raw)
		case recordTypeFieldProperties:
			p, err := UnmarshalPropertySchema(raw)
			if err != nil {
				return RecordType{}, err
			}
			rt.Properties = append(rt.Properties, p)
		}
	}
	return rt, nil
}

// --- Record ---

const (
	recordFieldRecordID   protowire.Number = 1
	recordFieldRecordType protowire.Number = 2
	recordFieldOwner      protowire.Number = 3
	recordFieldCustodian  protowire.Number = 4
	recordFieldFinal      protowire.Number = 5
)

type Record struct {
	RecordID   string
	RecordType string
	Owner      string
	Custodian  string
	Final      bool
}

func (r Record) NaturalKey() string { return r.RecordID }

func (r Record) Marshal(b []byte) []byte {
	b = appendString(b, recordFieldRecordID, r.RecordID)
	b = appendString(b, recordFieldRecordType, r.RecordType)
	b = appendString(b, recordFieldOwner, r.Owner)
	b = appendString(b, recordFieldCustodian, r.Custodian)
	b = appendBool(b, recordFieldFinal, r.Final)
	return b
}

func UnmarshalRecord(data []byte) (Record, error) {
	var rec Record
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return Record{}, err
		}
		if !ok {
			break
		}
		switch num {
		case recordFieldRecordID:
			rec.RecordID = readString(raw)
		case recordFieldRecordType:
			rec.RecordType = readString(raw)
		case recordFieldOwner:
			rec.Owner = readString(raw)
		case recordFieldCustodian:
			rec.Custodian = readString(raw)
		case recordFieldFinal:
			rec.Final = readVarint(raw) != 0
		}
	}
	return rec, nil
}

// --- Property ---

const (
	reporterFieldPublicKey  protowire.Number = 1
	reporterFieldAuthorized protowire.Number = 2
	reporterFieldIndex      protowire.Number = 3
)

type Reporter struct {
	PublicKey  string
	Authorized bool
	Index      uint32
}

func (rp Reporter) Marshal(b []byte) []byte {
	b = appendString(b, reporterFieldPublicKey, rp.PublicKey)
	b = appendBool(b, reporterFieldAuthorized, rp.Authorized)
	b = appendUint32(b, reporterFieldIndex, rp.Index)
	return b
}

func UnmarshalReporter(data []byte) (Reporter, error) {
	var rp Reporter
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return Reporter{}, err
		}
		if !ok {
			break
		}
		switch num {
		case reporterFieldPublicKey:
			rp.PublicKey = readString(raw)
		case reporterFieldAuthorized:
			rp.Authorized = readVarint(raw) != 0
		case reporterFieldIndex:
			rp.Index = uint32(readVarint(raw))
		}
	}
	return rp, nil
}

const (
	propertyFieldName           protowire.Number = 1
	propertyFieldRecordID       protowire.Number = 2
	propertyFieldRecordType     protowire.Number = 3
	propertyFieldDataType       protowire.Number = 4
	propertyFieldCurrentPage    protowire.Number = 5
	propertyFieldWrapped        protowire.Number = 6
	propertyFieldReporters      protowire.Number = 7
	propertyFieldFixed          protowire.Number = 8
	propertyFieldNumberExponent protowire.Number = 9
	propertyFieldEnumOptions    protowire.Number = 10
	propertyFieldStruct         protowire.Number = 11
	propertyFieldUnit           protowire.Number = 12
)

type Property struct {
	Name           string
	RecordID       string
	RecordType     string
	DataType       DataType
	CurrentPage    uint32
	Wrapped        bool
	Reporters      []Reporter
	Fixed          bool
	NumberExponent int32
	EnumOptions    []string
	Struct         []PropertySchema
	Unit           string
}

func (p Property) NaturalKey() string { return p.Name }

func (p Property) Marshal(b []byte) []byte {
	b = appendString(b, propertyFieldName, p.Name)
	b = appendString(b, propertyFieldRecordID, p.RecordID)
	b = appendString(b, propertyFieldRecordType, p.RecordType)
	b = appendUint64(b, propertyFieldDataType, uint64(p.DataType))
	b = appendUint32(b, propertyFieldCurrentPage, p.CurrentPage)
	b = appendBool(b, propertyFieldWrapped, p.Wrapped)
	for _, rp := range p.Reporters {
		b = appendMessage(b, propertyFieldReporters, rp.Marshal(nil))
	}
	b = appendBool(b, propertyFieldFixed, p.Fixed)
	b = appendInt32(b, propertyFieldNumberExponent, p.NumberExponent)
	for _, opt := range p.EnumOptions {
		b = appendString(b, propertyFieldEnumOptions, opt)
	}
	for _, sub := range p.Struct {
		b = appendMessage(b, propertyFieldStruct, sub.Marshal(nil))
	}
	b = appendString(b, propertyFieldUnit, p.Unit)
	return b
}

func UnmarshalProperty(data []byte) (Property, error) {
	var p Property
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return Property{}, err
		}
		if !ok {
			break
		}
		switch num {
		case propertyFieldName:
			p.Name = readString(raw)
		case propertyFieldRecordID:
			p.RecordID = readString(raw)
		case propertyFieldRecordType:
			p.RecordType = readString(raw)
		case propertyFieldDataType:
			p.DataType = DataType(readVarint(raw))
		case propertyFieldCurrentPage:
			p.CurrentPage = uint32(readVarint(raw))
		case propertyFieldWrapped:
			p.Wrapped = readVarint(raw) != 0
		case propertyFieldReporters:
			rp, err := UnmarshalReporter(raw)
			if err != nil {
				return Property{}, err
			}
			p.Reporters = append(p.Reporters, rp)
		case propertyFieldFixed:
			p.Fixed = readVarint(raw) != 0
		case propertyFieldNumberExponent:
			p.NumberExponent = int32(zigzagDecode(readVarint(raw)))
		case propertyFieldEnumOptions:
			p.EnumOptions = append(p.EnumOptions, readString(raw))
		case propertyFieldStruct:
			sub, err := UnmarshalPropertySchema(raw)
			if err != nil {
				return Property{}, err
			}
			p.Struct = append(p.Struct, sub)
		case propertyFieldUnit:
			p.Unit = readString(raw)
		}
	}
	return p, nil
}

// --- PropertyPage ---

const (
	reportFieldReporterIndex protowire.Number = 1
	reportFieldTimestamp     protowire.Number = 2
	reportFieldValue         protowire.Number = 3
)

// PropertyReport is one timestamped value appended to a PropertyPage.
type PropertyReport struct {
	ReporterIndex uint32
	Timestamp     uint64
	Value         Value
}

func (r PropertyReport) Marshal(b []byte) []byte {
	b = appendUint32(b, reportFieldReporterIndex, r.ReporterIndex)
	b = appendUint64(b, reportFieldTimestamp, r.Timestamp)
	b = appendMessage(b, reportFieldValue, r.Value.Marshal(nil))
	return b
}

func UnmarshalPropertyReport(data []byte) (PropertyReport, error) {
	var rep PropertyReport
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return PropertyReport{}, err
		}
		if !ok {
			break
		}
		switch num {
		case reportFieldReporterIndex:
			rep.ReporterIndex = uint32(readVarint(raw))
		case reportFieldTimestamp:
			rep.Timestamp = readVarint(raw)
		case reportFieldValue:
			v, err := UnmarshalValue(raw)
			if err != nil {
				return PropertyReport{}, err
			}
			rep.Value = v
		}
	}
	return rep, nil
}

const (
	pageFieldName     protowire.Number = 1
	pageFieldPageNum  protowire.Number = 2
	pageFieldReports  protowire.Number = 3
	pageFieldRecordID protowire.Number = 4
)

type PropertyPage struct {
	Name     string
	PageNum  uint32
	RecordID string
	Reports  []PropertyReport
}

func (pp PropertyPage) NaturalKey() string { return pp.Name }

func (pp PropertyPage) Marshal(b []byte) []byte {
	b = appendString(b, pageFieldName, pp.Name)
	b = appendUint32(b, pageFieldPageNum, pp.PageNum)
	b = appendString(b, pageFieldRecordID, pp.RecordID)
	for _, rep := range pp.Reports {
		b = appendMessage(b, pageFieldReports, rep.Marshal(nil))
	}
	return b
}

func UnmarshalPropertyPage(data []byte) (PropertyPage, error) {
	var pp PropertyPage
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return PropertyPage{}, err
		}
		if !ok {
			break
		}
		switch num {
		case pageFieldName:
			pp.Name = readString(raw)
		case pageFieldPageNum:
			pp.PageNum = uint32(readVarint(raw))
		case pageFieldRecordID:
			pp.RecordID = readString(raw)
		case pageFieldReports:
			rep, err := UnmarshalPropertyReport(raw)
			if err != nil {
				return PropertyPage{}, err
			}
			pp.Reports = append(pp.Reports, rep)
		}
	}
	return pp, nil
}

// --- Proposal ---

const (
	proposalFieldRecordID       protowire.Number = 1
	proposalFieldReceivingAgent protowire.Number = 2
	proposalFieldIssuingAgent   protowire.Number = 3
	proposalFieldRole           protowire.Number = 4
	proposalFieldProperties     protowire.Number = 5
	proposalFieldStatus         protowire.Number = 6
	proposalFieldTerms          protowire.Number = 7
	proposalFieldTimestamp      protowire.Number = 8
)

type Proposal struct {
	RecordID       string
	ReceivingAgent string
	IssuingAgent   string
	Role           Role
	Properties     []string
	Status         ProposalStatus
	Terms          string
	Timestamp      uint64
}

// NaturalKey sorts proposals by (recordID, timestamp, receivingAgent, role).
// The timestamp is zero-padded to 20 digits so string order is numeric order.
func (p Proposal) NaturalKey() [4]string {
	return [4]string{p.RecordID, fmt.Sprintf("%020d", p.Timestamp), p.ReceivingAgent, p.Role.String()}
}

func (p Proposal) Marshal(b []byte) []byte {
	b = appendString(b, proposalFieldRecordID, p.RecordID)
	b = appendString(b, proposalFieldReceivingAgent, p.ReceivingAgent)
	b = appendString(b, proposalFieldIssuingAgent, p.IssuingAgent)
	b = appendUint64(b, proposalFieldRole, uint64(p.Role))
	for _, name := range p.Properties {
		b = appendString(b, proposalFieldProperties, name)
	}
	b = appendUint64(b, proposalFieldStatus, uint64(p.Status))
	b = appendString(b, proposalFieldTerms, p.Terms)
	b = appendUint64(b, proposalFieldTimestamp, p.Timestamp)
	return b
}

func UnmarshalProposal(data []byte) (Proposal, error) {
	var p Proposal
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return Proposal{}, err
		}
		if !ok {
			break
		}
		switch num {
		case proposalFieldRecordID:
			p.RecordID = readString(raw)
		case proposalFieldReceivingAgent:
			p.ReceivingAgent = readString(raw)
		case proposalFieldIssuingAgent:
			p.IssuingAgent = readString(raw)
		case proposalFieldRole:
			p.Role = Role(readVarint(raw))
		case proposalFieldProperties:
			p.Properties = append(p.Properties, readString(raw))
		case proposalFieldStatus:
			p.Status = ProposalStatus(readVarint(raw))
		case proposalFieldTerms:
			p.Terms = readString(raw)
		case proposalFieldTimestamp:
			p.Timestamp = readVarint(raw)
		}
	}
	return p, nil
}

func fmtUint(v uint64) string {
	const digits = "0123456789"
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v%10]
		v /= 10
	}
	return string(buf[i:])
}
