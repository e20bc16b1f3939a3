package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperledger-archives/sawtooth-supply-chain/addressing"
	"github.com/hyperledger-archives/sawtooth-supply-chain/platform"
	"github.com/hyperledger-archives/sawtooth-supply-chain/store"
	"github.com/hyperledger-archives/sawtooth-supply-chain/wire"
)

// settleInterval is the pause between applying non-PropertyPage changes
// and PropertyPage changes in the same block, giving the read store's
// non-transactional cross-table enrichment read time to observe the
// Property rows those pages depend on.
const settleInterval = 100 * time.Millisecond

// Pipeline drains a platform.EventSource into the read store, one block
// at a time, through a single-writer Queue.
type Pipeline struct {
	source  platform.EventSource
	applier *store.Applier
	store   *store.Store
	queue   *Queue
	log     *slog.Logger
}

func NewPipeline(source platform.EventSource, s *store.Store, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		source:  source,
		applier: store.NewApplier(s),
		store:   s,
		log:     log,
	}
}

// Run subscribes from the genesis anchor (block 0) and blocks until ctx
// is canceled, resubscribing whenever the event stream drops.
func (p *Pipeline) Run(ctx context.Context) error {
	p.queue = NewQueue(ctx, 64, func(err error) {
		p.log.Error("block job failed", "error", err)
	})
	defer p.queue.Close()

	for {
		events, err := p.source.Subscribe(ctx, 0)
		if err != nil {
			p.log.Error("subscribe failed, retrying", "error", err)
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	recv:
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-events:
				if !ok {
					break recv
				}
				if err := p.queue.Enqueue(ctx, func(ctx context.Context) error {
					return p.applyBlock(ctx, ev)
				}); err != nil {
					return err
				}
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			p.log.Warn("event stream closed, resubscribing")
		}
	}
}

// applyBlock is one block-job: partition, decode, apply non-page
// entries, settle, apply page entries, record the block descriptor.
func (p *Pipeline) applyBlock(ctx context.Context, ev platform.Event) error {
	var pageChanges, otherChanges []platform.StateChange
	for _, c := range ev.Changes {
		switch addressing.DecodeKind(c.Address) {
		case addressing.KindPropertyPage:
			pageChanges = append(pageChanges, c)
		default:
			otherChanges = append(otherChanges, c)
		}
	}

	for _, c := range otherChanges {
		if err := p.applyChange(ev.BlockNum, c); err != nil {
			p.log.Error("skipping malformed state change", "address", c.Address, "error", err)
		}
	}

	if len(pageChanges) > 0 {
		select {
		case <-time.After(settleInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for _, c := range pageChanges {
		if err := p.applyChange(ev.BlockNum, c); err != nil {
			p.log.Error("skipping malformed state change", "address", c.Address, "error", err)
		}
	}

	return p.store.InsertBlock(ev.BlockNum, ev.BlockID, ev.StateRootHash)
}

func (p *Pipeline) applyChange(blockNum uint64, c platform.StateChange) error {
	if c.Type == platform.ChangeDelete {
		return nil
	}
	switch addressing.DecodeKind(c.Address) {
	case addressing.KindAgent:
		container, err := wire.UnmarshalAgentContainer(c.Value)
		if err != nil {
			return err
		}
		for _, e := range container.Entries {
			if err := p.applier.ApplyAgent(e, blockNum); err != nil {
				return err
			}
		}
	case addressing.KindRecordType:
		container, err := wire.UnmarshalRecordTypeContainer(c.Value)
		if err != nil {
			return err
		}
		for _, e := range container.Entries {
			if err := p.applier.ApplyRecordType(e, blockNum); err != nil {
				return err
			}
		}
	case addressing.KindRecord:
		container, err := wire.UnmarshalRecordContainer(c.Value)
		if err != nil {
			return err
		}
		for _, e := range container.Entries {
			if err := p.applier.ApplyRecord(e, blockNum); err != nil {
				return err
			}
		}
	case addressing.KindProperty:
		container, err := wire.UnmarshalPropertyContainer(c.Value)
		if err != nil {
			return err
		}
		for _, e := range container.Entries {
			if err := p.applier.ApplyProperty(e, blockNum); err != nil {
				return err
			}
		}
	case addressing.KindPropertyPage:
		container, err := wire.UnmarshalPropertyPageContainer(c.Value)
		if err != nil {
			return err
		}
		for _, e := range container.Entries {
			if err := p.applier.ApplyPropertyPage(e, blockNum); err != nil {
				return err
			}
		}
	case addressing.KindProposal:
		container, err := wire.UnmarshalProposalContainer(c.Value)
		if err != nil {
			return err
		}
		for _, e := range container.Entries {
			if err := p.applier.ApplyProposal(e, blockNum); err != nil {
				return err
			}
		}
	}
	return nil
}
