package processor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger-archives/sawtooth-supply-chain/core/processor"
	"github.com/hyperledger-archives/sawtooth-supply-chain/core/state"
	"github.com/hyperledger-archives/sawtooth-supply-chain/wire"
)

const (
	s1 = "03s1signerpublickey"
	s2 = "03s2signerpublickey"
	s3 = "03s3signerpublickey"
)

func apply(t *testing.T, h *processor.Handler, st *memState, signer string, ts uint64, action wire.Action, body []byte) error {
	t.Helper()
	payload := wire.EncodePayload(action, body, ts)
	return h.Apply(context.Background(), st, signer, payload)
}

func numberValue(n int64, exp int32) wire.Value {
	return wire.Value{DataType: wire.DataTypeNumber, NumberValue: n, NumberExponent: exp}
}

func setupTypeAndRecord(t *testing.T) (*processor.Handler, *memState) {
	t.Helper()
	h := processor.NewHandler()
	st := newMemState()

	require.NoError(t, apply(t, h, st, s1, 1, wire.ActionCreateAgent,
		wire.CreateAgentAction{Name: "Alice"}.Marshal(nil)))

	require.NoError(t, apply(t, h, st, s1, 2, wire.ActionCreateRecordType,
		wire.CreateRecordTypeAction{
			Name: "asset",
			Properties: []wire.PropertySchema{
				{Name: "temp", DataType: wire.DataTypeNumber, Required: true, NumberExponent: -1},
			},
		}.Marshal(nil)))

	require.NoError(t, apply(t, h, st, s1, 3, wire.ActionCreateRecord,
		wire.CreateRecordAction{
			RecordID:   "r1",
			RecordType: "asset",
			Properties: []wire.PropertyValueInput{
				{Name: "temp", Value: numberValue(210, -1)},
			},
		}.Marshal(nil)))

	return h, st
}

func TestTypeThenRecord(t *testing.T) {
	_, st := setupTypeAndRecord(t)
	ctx := context.Background()

	agent, ok, err := state.GetAgent(ctx, st, s1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Alice", agent.Name)

	rt, ok, err := state.GetRecordType(ctx, st, "asset")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rt.Properties, 1)

	rec, ok, err := state.GetRecord(ctx, st, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, s1, rec.Owner)
	require.Equal(t, s1, rec.Custodian)
	require.False(t, rec.Final)

	prop, ok, err := state.GetProperty(ctx, st, "r1", "temp")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, prop.Reporters, 1)
	require.Equal(t, s1, prop.Reporters[0].PublicKey)
	require.True(t, prop.Reporters[0].Authorized)

	page, ok, err := state.GetPropertyPage(ctx, st, "r1", "temp", 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, page.Reports, 1)
	require.Equal(t, int64(210), page.Reports[0].Value.NumberValue)
	require.Equal(t, int32(-1), page.Reports[0].Value.NumberExponent)
}

func TestAuthorizedReporter(t *testing.T) {
	h, st := setupTypeAndRecord(t)
	ctx := context.Background()

	require.NoError(t, apply(t, h, st, s2, 4, wire.ActionCreateAgent, wire.CreateAgentAction{Name: "Bob"}.Marshal(nil)))
	require.NoError(t, state.SetAgent(ctx, st, wire.Agent{PublicKey: s2, Name: "Bob", Timestamp: 4}))

	require.NoError(t, apply(t, h, st, s1, 4, wire.ActionCreateProposal,
		wire.CreateProposalAction{
			RecordID: "r1", ReceivingAgent: s2, Role: wire.RoleReporter, Properties: []string{"temp"},
		}.Marshal(nil)))

	require.NoError(t, apply(t, h, st, s2, 5, wire.ActionAnswerProposal,
		wire.AnswerProposalAction{
			RecordID: "r1", ReceivingAgent: s2, Role: wire.RoleReporter, Response: wire.ResponseAccept, Timestamp: 4,
		}.Marshal(nil)))

	require.NoError(t, apply(t, h, st, s2, 6, wire.ActionUpdateProperties,
		wire.UpdatePropertiesAction{
			RecordID: "r1",
			Properties: []wire.PropertyValueInput{
				{Name: "temp", Value: numberValue(230, -1)},
			},
		}.Marshal(nil)))

	prop, ok, err := state.GetProperty(ctx, st, "r1", "temp")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, prop.Reporters, 2)
	for _, r := range prop.Reporters {
		require.True(t, r.Authorized)
	}

	page, ok, err := state.GetPropertyPage(ctx, st, "r1", "temp", 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, page.Reports, 2)
}

func TestUnauthorizedUpdateRejected(t *testing.T) {
	h, st := setupTypeAndRecord(t)
	ctx := context.Background()

	err := apply(t, h, st, s3, 4, wire.ActionUpdateProperties,
		wire.UpdatePropertiesAction{
			RecordID: "r1",
			Properties: []wire.PropertyValueInput{
				{Name: "temp", Value: numberValue(400, -1)},
			},
		}.Marshal(nil))
	require.Error(t, err)
	var verr *processor.ValidationError
	require.ErrorAs(t, err, &verr)

	page, ok, err := state.GetPropertyPage(ctx, st, "r1", "temp", 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, page.Reports, 1)
}

func TestOwnershipTransfer(t *testing.T) {
	h, st := setupTypeAndRecord(t)
	ctx := context.Background()
	require.NoError(t, state.SetAgent(ctx, st, wire.Agent{PublicKey: s2, Name: "Bob", Timestamp: 4}))

	require.NoError(t, apply(t, h, st, s1, 4, wire.ActionCreateProposal,
		wire.CreateProposalAction{RecordID: "r1", ReceivingAgent: s2, Role: wire.RoleOwner}.Marshal(nil)))

	rec, _, err := state.GetRecord(ctx, st, "r1")
	require.NoError(t, err)
	require.Equal(t, s1, rec.Owner)

	require.NoError(t, apply(t, h, st, s2, 5, wire.ActionAnswerProposal,
		wire.AnswerProposalAction{RecordID: "r1", ReceivingAgent: s2, Role: wire.RoleOwner, Response: wire.ResponseAccept, Timestamp: 4}.Marshal(nil)))

	rec, _, err = state.GetRecord(ctx, st, "r1")
	require.NoError(t, err)
	require.Equal(t, s2, rec.Owner)
}

func TestDuplicateOpenProposalRejected(t *testing.T) {
	h, st := setupTypeAndRecord(t)
	ctx := context.Background()
	require.NoError(t, state.SetAgent(ctx, st, wire.Agent{PublicKey: s2, Name: "Bob", Timestamp: 4}))

	require.NoError(t, apply(t, h, st, s1, 4, wire.ActionCreateProposal,
		wire.CreateProposalAction{RecordID: "r1", ReceivingAgent: s2, Role: wire.RoleOwner}.Marshal(nil)))

	err := apply(t, h, st, s1, 4, wire.ActionCreateProposal,
		wire.CreateProposalAction{RecordID: "r1", ReceivingAgent: s2, Role: wire.RoleOwner}.Marshal(nil))
	require.Error(t, err)
}

func TestFinalizeIsTerminal(t *testing.T) {
	h, st := setupTypeAndRecord(t)

	require.NoError(t, apply(t, h, st, s1, 7, wire.ActionFinalizeRecord,
		wire.FinalizeRecordAction{RecordID: "r1"}.Marshal(nil)))

	err := apply(t, h, st, s1, 8, wire.ActionUpdateProperties,
		wire.UpdatePropertiesAction{
			RecordID: "r1",
			Properties: []wire.PropertyValueInput{
				{Name: "temp", Value: numberValue(999, -1)},
			},
		}.Marshal(nil))
	require.Error(t, err)

	err = apply(t, h, st, s1, 9, wire.ActionFinalizeRecord, wire.FinalizeRecordAction{RecordID: "r1"}.Marshal(nil))
	require.Error(t, err)
}

func TestZeroTimestampRejected(t *testing.T) {
	h := processor.NewHandler()
	st := newMemState()

	err := apply(t, h, st, s1, 0, wire.ActionCreateAgent, wire.CreateAgentAction{Name: "Alice"}.Marshal(nil))
	require.Error(t, err)
	var verr *processor.ValidationError
	require.ErrorAs(t, err, &verr)

	_, ok, err := state.GetAgent(context.Background(), st, s1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCreateAgentRejectsEmptyName(t *testing.T) {
	h := processor.NewHandler()
	st := newMemState()

	err := apply(t, h, st, s1, 1, wire.ActionCreateAgent, wire.CreateAgentAction{Name: ""}.Marshal(nil))
	require.Error(t, err)
	var verr *processor.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateRecordTypeRejectsInvalidSchemas(t *testing.T) {
	cases := []struct {
		name       string
		properties []wire.PropertySchema
	}{
		{"empty name", []wire.PropertySchema{{Name: "", DataType: wire.DataTypeString}}},
		{"no properties", nil},
		{"enum with no options", []wire.PropertySchema{{Name: "color", DataType: wire.DataTypeEnum}}},
		{"struct with no nested schema", []wire.PropertySchema{{Name: "loc", DataType: wire.DataTypeStruct}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := processor.NewHandler()
			st := newMemState()
			require.NoError(t, apply(t, h, st, s1, 1, wire.ActionCreateAgent, wire.CreateAgentAction{Name: "Alice"}.Marshal(nil)))

			err := apply(t, h, st, s1, 2, wire.ActionCreateRecordType,
				wire.CreateRecordTypeAction{Name: "asset", Properties: tc.properties}.Marshal(nil))
			require.Error(t, err)
			var verr *processor.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateRecordRejectsEnumOutOfRange(t *testing.T) {
	h := processor.NewHandler()
	st := newMemState()
	require.NoError(t, apply(t, h, st, s1, 1, wire.ActionCreateAgent, wire.CreateAgentAction{Name: "Alice"}.Marshal(nil)))
	require.NoError(t, apply(t, h, st, s1, 2, wire.ActionCreateRecordType,
		wire.CreateRecordTypeAction{
			Name: "asset",
			Properties: []wire.PropertySchema{
				{Name: "color", DataType: wire.DataTypeEnum, Required: true, EnumOptions: []string{"red", "blue"}},
			},
		}.Marshal(nil)))

	err := apply(t, h, st, s1, 3, wire.ActionCreateRecord,
		wire.CreateRecordAction{
			RecordID:   "r1",
			RecordType: "asset",
			Properties: []wire.PropertyValueInput{
				{Name: "color", Value: wire.Value{DataType: wire.DataTypeEnum, EnumValue: 5}},
			},
		}.Marshal(nil))
	require.Error(t, err)
	var verr *processor.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdatePropertiesRejectsExponentMismatch(t *testing.T) {
	h, st := setupTypeAndRecord(t)

	err := apply(t, h, st, s1, 4, wire.ActionUpdateProperties,
		wire.UpdatePropertiesAction{
			RecordID: "r1",
			Properties: []wire.PropertyValueInput{
				{Name: "temp", Value: numberValue(230, -2)},
			},
		}.Marshal(nil))
	require.Error(t, err)
	var verr *processor.ValidationError
	require.ErrorAs(t, err, &verr)

	page, ok, err := state.GetPropertyPage(context.Background(), st, "r1", "temp", 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, page.Reports, 1)
}
