// Copyright 2025 The eth-fund-forwarder Authors

package forwarding

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// mockLedger implements Ledger for testing.
type mockLedger struct {
	balances map[common.Address]*uint256.Int
	tokens   map[common.Address]*mockToken
	rejects  map[common.Address]bool // destinations that reject native value
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		balances: make(map[common.Address]*uint256.Int),
		tokens:   make(map[common.Address]*mockToken),
		rejects:  make(map[common.Address]bool),
	}
}

func (m *mockLedger) BalanceOf(addr common.Address) *uint256.Int {
	if b, ok := m.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

func (m *mockLedger) Transfer(from, to common.Address, amount *uint256.Int) error {
	if m.rejects[to] {
		return errors.New("destination rejected value")
	}
	balance := m.BalanceOf(from)
	if balance.Lt(amount) {
		return errors.New("insufficient balance")
	}
	m.balances[from] = new(uint256.Int).Sub(balance, amount)
	m.balances[to] = new(uint256.Int).Add(m.BalanceOf(to), amount)
	return nil
}

func (m *mockLedger) Token(asset common.Address) (Token, error) {
	if tok, ok := m.tokens[asset]; ok {
		return tok, nil
	}
	return nil, errors.New("no such token")
}

// mockToken implements Token for testing.
type mockToken struct {
	balances map[common.Address]*uint256.Int
	fail     bool // next Transfer reports failure
}

func newMockToken() *mockToken {
	return &mockToken{balances: make(map[common.Address]*uint256.Int)}
}

func (m *mockToken) BalanceOf(holder common.Address) *uint256.Int {
	if b, ok := m.balances[holder]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

func (m *mockToken) Transfer(from, to common.Address, amount *uint256.Int) error {
	if m.fail {
		return errors.New("token transfer returned false")
	}
	balance := m.BalanceOf(from)
	if balance.Lt(amount) {
		return errors.New("insufficient token balance")
	}
	m.balances[from] = new(uint256.Int).Sub(balance, amount)
	m.balances[to] = new(uint256.Int).Add(m.BalanceOf(to), amount)
	return nil
}

var (
	hubAddr   = common.HexToAddress("0xaaaa000000000000000000000000000000000001")
	owner     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	authority = common.HexToAddress("0x2222222222222222222222222222222222222222")
	treasury  = common.HexToAddress("0x3333333333333333333333333333333333333333")
	stranger  = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub, err := NewHub(HubConfig{
		Address:         hubAddr,
		Owner:           owner,
		SweepAuthority:  authority,
		Destination:     treasury,
		DefaultStrategy: NewSweepAllStrategy(),
	})
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}
	return hub
}

func TestNewHubValidation(t *testing.T) {
	if _, err := NewHub(HubConfig{DefaultStrategy: NewSweepAllStrategy()}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for missing owner, got %v", err)
	}
	if _, err := NewHub(HubConfig{Owner: owner}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for missing default strategy, got %v", err)
	}

	// Destination defaults to the deploying owner.
	hub, err := NewHub(HubConfig{Owner: owner, SweepAuthority: authority, DefaultStrategy: NewSweepAllStrategy()})
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}
	if hub.Destination() != owner {
		t.Errorf("destination should default to owner, got %s", hub.Destination())
	}
	if !hub.Operational() {
		t.Error("hub should start operational")
	}
}

func TestTransferOwnership(t *testing.T) {
	hub := newTestHub(t)

	if err := hub.TransferOwnership(stranger, stranger); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := hub.TransferOwnership(owner, common.Address{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero owner, got %v", err)
	}

	ch := make(chan *OwnershipChangedRecord, 1)
	sub := hub.SubscribeOwnershipChanged(ch)
	defer sub.Unsubscribe()

	newOwner := common.HexToAddress("0x5555555555555555555555555555555555555555")
	if err := hub.TransferOwnership(owner, newOwner); err != nil {
		t.Fatalf("TransferOwnership failed: %v", err)
	}

	rec := <-ch
	if rec.Hub != hubAddr || rec.Previous != owner || rec.New != newOwner {
		t.Errorf("wrong ownership record: %+v", rec)
	}

	// The old owner loses every owner-gated entry point atomically.
	if err := hub.Halt(owner); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("old owner should be unauthorized, got %v", err)
	}
	if err := hub.SetDestination(owner, stranger); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("old owner should be unauthorized, got %v", err)
	}
	// The new owner gains them.
	if err := hub.Halt(newOwner); err != nil {
		t.Errorf("new owner should be authorized: %v", err)
	}
	if err := hub.Resume(newOwner); err != nil {
		t.Errorf("new owner should be authorized: %v", err)
	}
}

func TestSetSweepAuthority(t *testing.T) {
	hub := newTestHub(t)

	if err := hub.SetSweepAuthority(stranger, stranger); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := hub.SetSweepAuthority(owner, common.Address{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero authority, got %v", err)
	}
	next := common.HexToAddress("0x6666666666666666666666666666666666666666")
	if err := hub.SetSweepAuthority(owner, next); err != nil {
		t.Fatalf("SetSweepAuthority failed: %v", err)
	}
	if hub.SweepAuthority() != next {
		t.Errorf("authority not updated, got %s", hub.SweepAuthority())
	}
}

func TestHaltResumeIdempotent(t *testing.T) {
	hub := newTestHub(t)

	if err := hub.Halt(stranger); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	// Set semantics, not toggle: repeated calls keep the flag absolute.
	for i := 0; i < 2; i++ {
		if err := hub.Halt(owner); err != nil {
			t.Fatalf("Halt failed: %v", err)
		}
		if hub.Operational() {
			t.Fatal("hub should not be operational after Halt")
		}
	}
	for i := 0; i < 2; i++ {
		if err := hub.Resume(owner); err != nil {
			t.Fatalf("Resume failed: %v", err)
		}
		if !hub.Operational() {
			t.Fatal("hub should be operational after Resume")
		}
	}
}

func TestSetDestination(t *testing.T) {
	hub := newTestHub(t)

	if err := hub.SetDestination(stranger, stranger); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := hub.SetDestination(owner, common.Address{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero destination, got %v", err)
	}
	next := common.HexToAddress("0x7777777777777777777777777777777777777777")
	if err := hub.SetDestination(owner, next); err != nil {
		t.Fatalf("SetDestination failed: %v", err)
	}
	if hub.Destination() != next {
		t.Errorf("destination not updated, got %s", hub.Destination())
	}
}

// recordingStrategy is a stateless test strategy that marks which asset
// kinds it was asked to forward.
type recordingStrategy struct {
	calls chan AssetKind
}

func (st *recordingStrategy) Forward(ledger Ledger, sat *Satellite, asset AssetKind) (*ForwardRecord, error) {
	st.calls <- asset
	return &ForwardRecord{Asset: asset, From: sat.Address(), To: sat.Hub().Destination(), Amount: uint256.NewInt(0)}, nil
}

func TestResolveStrategyPrecedence(t *testing.T) {
	hub := newTestHub(t)
	token := TokenAsset(common.HexToAddress("0x8888888888888888888888888888888888888888"))

	def := hub.ResolveStrategy(token)
	if _, ok := def.(*SweepAllStrategy); !ok {
		t.Fatalf("expected default strategy for unmapped asset, got %T", def)
	}

	override := &recordingStrategy{calls: make(chan AssetKind, 1)}
	if err := hub.SetStrategy(stranger, token, override); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := hub.SetStrategy(owner, token, override); err != nil {
		t.Fatalf("SetStrategy failed: %v", err)
	}
	if got := hub.ResolveStrategy(token); got != Strategy(override) {
		t.Errorf("expected override strategy, got %T", got)
	}
	// Other asset kinds still resolve to the default.
	if _, ok := hub.ResolveStrategy(NativeAsset).(*SweepAllStrategy); !ok {
		t.Error("native kind should still resolve to the default")
	}

	// A nil strategy clears the override.
	if err := hub.SetStrategy(owner, token, nil); err != nil {
		t.Fatalf("clearing override failed: %v", err)
	}
	if _, ok := hub.ResolveStrategy(token).(*SweepAllStrategy); !ok {
		t.Error("cleared asset kind should fall back to the default")
	}
}
