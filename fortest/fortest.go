// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fortest provides in-memory collaborator implementations used by
// tests and by solo mode.
package fortest

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/helixstake/helix/helix"
)

// Accounts is a fixed set of addresses for tests and solo mode.
var Accounts = []helix.Address{
	helix.BytesToAddress([]byte("account-0")),
	helix.BytesToAddress([]byte("account-1")),
	helix.BytesToAddress([]byte("account-2")),
	helix.BytesToAddress([]byte("account-3")),
	helix.BytesToAddress([]byte("account-4")),
	helix.BytesToAddress([]byte("account-5")),
	helix.BytesToAddress([]byte("account-6")),
	helix.BytesToAddress([]byte("account-7")),
	helix.BytesToAddress([]byte("account-8")),
	helix.BytesToAddress([]byte("account-9")),
}

// Custody is an in-memory fungible-token ledger. Setting Fail makes every
// transfer report failure, for abort-path tests.
type Custody struct {
	balances map[helix.Address]*big.Int
	Fail     bool
	// Calls counts successful transfers, for batch-aggregation assertions.
	Calls int
}

func NewCustody() *Custody {
	return &Custody{balances: make(map[helix.Address]*big.Int)}
}

// Mint credits the holder out of thin air.
func (c *Custody) Mint(holder helix.Address, amount *big.Int) {
	c.credit(holder, amount)
}

// BalanceOf returns the holder's balance.
func (c *Custody) BalanceOf(holder helix.Address) *big.Int {
	if bal, ok := c.balances[holder]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Transfer implements staking.CustodyLedger. The "from" side is the custody
// account itself, which this fake does not track; only the credit happens.
func (c *Custody) Transfer(to helix.Address, amount *big.Int) bool {
	if c.Fail {
		return false
	}
	c.credit(to, amount)
	c.Calls++
	return true
}

func (c *Custody) TransferFrom(from, to helix.Address, amount *big.Int) bool {
	if c.Fail {
		return false
	}
	bal, ok := c.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return false
	}
	bal.Sub(bal, amount)
	c.credit(to, amount)
	c.Calls++
	return true
}

func (c *Custody) credit(holder helix.Address, amount *big.Int) {
	bal, ok := c.balances[holder]
	if !ok {
		bal = new(big.Int)
		c.balances[holder] = bal
	}
	bal.Add(bal, amount)
}

// Projects is an in-memory project registry.
type Projects struct {
	counts map[uint32]uint32
}

func NewProjects(ids ...uint32) *Projects {
	p := &Projects{counts: make(map[uint32]uint32)}
	for _, id := range ids {
		p.counts[id] = 0
	}
	return p
}

func (p *Projects) Register(id uint32) {
	if _, ok := p.counts[id]; !ok {
		p.counts[id] = 0
	}
}

func (p *Projects) Exists(id uint32) bool {
	_, ok := p.counts[id]
	return ok
}

func (p *Projects) IncrementStakerCount(id uint32) {
	if _, ok := p.counts[id]; ok {
		p.counts[id]++
	}
}

func (p *Projects) DecrementStakerCount(id uint32) {
	if n, ok := p.counts[id]; ok && n > 0 {
		p.counts[id]--
	}
}

func (p *Projects) ProjectCount() uint32 {
	return uint32(len(p.counts))
}

// StakerCount returns the tracked staker count of one project.
func (p *Projects) StakerCount(id uint32) uint32 {
	return p.counts[id]
}

// Sink is an in-memory reward-distribution sink. Setting Fail makes every
// payout report failure.
type Sink struct {
	Paid     map[helix.Address]*big.Int
	Penalty  *big.Int
	Fail     bool
	payments int
}

func NewSink() *Sink {
	return &Sink{
		Paid:    make(map[helix.Address]*big.Int),
		Penalty: new(big.Int),
	}
}

func (s *Sink) DistributeReward(user helix.Address, amount *big.Int) bool {
	if s.Fail {
		return false
	}
	paid, ok := s.Paid[user]
	if !ok {
		paid = new(big.Int)
		s.Paid[user] = paid
	}
	paid.Add(paid, amount)
	s.payments++
	return true
}

func (s *Sink) AddPenaltyRewards(amount *big.Int) {
	s.Penalty.Add(s.Penalty, amount)
}

// PaidTo returns the total paid to the user.
func (s *Sink) PaidTo(user helix.Address) *big.Int {
	if paid, ok := s.Paid[user]; ok {
		return new(big.Int).Set(paid)
	}
	return new(big.Int)
}

// Payments returns how many individual payouts succeeded.
func (s *Sink) Payments() int {
	return s.payments
}

// NFT is an in-memory boost-NFT registry.
type NFT struct {
	holders map[helix.Address]bool
}

func NewNFT(holders ...helix.Address) *NFT {
	n := &NFT{holders: make(map[helix.Address]bool)}
	for _, h := range holders {
		n.holders[h] = true
	}
	return n
}

func (n *NFT) Grant(holder helix.Address)  { n.holders[holder] = true }
func (n *NFT) Revoke(holder helix.Address) { delete(n.holders, holder) }

func (n *NFT) HoldsBoostNFT(user helix.Address) bool {
	return n.holders[user]
}

// Vote is one recorded governance vote.
type Vote struct {
	Proposal uint64
	Voter    helix.Address
	Weight   *big.Int
	Support  bool
}

// Governance is an in-memory governance contract.
type Governance struct {
	nextID    uint64
	proposals map[uint64]string
	Votes     []Vote
}

func NewGovernance() *Governance {
	return &Governance{proposals: make(map[uint64]string)}
}

func (g *Governance) CreateProposal(proposer helix.Address, description string) (uint64, error) {
	g.nextID++
	g.proposals[g.nextID] = description
	return g.nextID, nil
}

func (g *Governance) ProposalExists(id uint64) bool {
	_, ok := g.proposals[id]
	return ok
}

func (g *Governance) RecordVote(proposalID uint64, voter helix.Address, weight *big.Int, support bool) error {
	if _, ok := g.proposals[proposalID]; !ok {
		return errors.New("unknown proposal")
	}
	g.Votes = append(g.Votes, Vote{proposalID, voter, new(big.Int).Set(weight), support})
	return nil
}

// Advisor records received signals. Setting Fail makes UpdateSignal error,
// which callers must swallow.
type Advisor struct {
	Signals map[string]*big.Int
	Fail    bool
}

func NewAdvisor() *Advisor {
	return &Advisor{Signals: make(map[string]*big.Int)}
}

func (a *Advisor) UpdateSignal(subject string, value *big.Int, smoothing uint64) error {
	if a.Fail {
		return errors.New("advisor unavailable")
	}
	a.Signals[subject] = new(big.Int).Set(value)
	return nil
}
