package prize

import (
	"github.com/riskibarqy/fpl-hub/internal/domain/standing"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/money"
)

// PlatformFeeBasisPoints is the 10% cut taken before distribution.
const PlatformFeeBasisPoints int64 = 1_000

// Tier pays BasisPoints of the distributable pool to every rank in
// [FromRank, ToRank].
type Tier struct {
	FromRank    int
	ToRank      int
	BasisPoints int64
}

// Table sums to 10000 basis points.
var Table = []Tier{
	{FromRank: 1, ToRank: 1, BasisPoints: 2_000},
	{FromRank: 2, ToRank: 5, BasisPoints: 800},
	{FromRank: 6, ToRank: 10, BasisPoints: 400},
	{FromRank: 11, ToRank: 15, BasisPoints: 200},
	{FromRank: 16, ToRank: 25, BasisPoints: 180},
}

// PaidRanks is the last rank with a share.
const PaidRanks = 25

type Payout struct {
	Rank        int
	BasisPoints int64
	Amount      money.Amount
}

// Schedule is the per-rank payout of a pool, independent of how many
// entries exist.
type Schedule struct {
	Pool          money.Amount
	PlatformFee   money.Amount
	Distributable money.Amount
	Payouts       []Payout
}

// Compute splits pool by Table. Each share is floored to a whole minor unit
// and the remainder goes to rank 1, so payouts always add up to Distributable.
func Compute(pool money.Amount) Schedule {
	pool = pool.NonNegative()
	fee := pool.MulBasisPoints(PlatformFeeBasisPoints)
	distributable := pool - fee

	payouts := make([]Payout, 0, PaidRanks)
	var allocated money.Amount
	for _, tier := range Table {
		for rank := tier.FromRank; rank <= tier.ToRank; rank++ {
			amount := distributable.MulBasisPoints(tier.BasisPoints)
			allocated += amount
			payouts = append(payouts, Payout{Rank: rank, BasisPoints: tier.BasisPoints, Amount: amount})
		}
	}
	if len(payouts) > 0 {
		payouts[0].Amount += distributable - allocated
	}

	return Schedule{
		Pool:          pool,
		PlatformFee:   fee,
		Distributable: distributable,
		Payouts:       payouts,
	}
}

// ForRank returns the payout of rank, zero beyond the table.
func (s Schedule) ForRank(rank int) money.Amount {
	if rank < 1 || rank > len(s.Payouts) {
		return 0
	}
	return s.Payouts[rank-1].Amount
}

type Award struct {
	Rank     int
	RosterID id.ID
	UserID   string
	Points   int
	Amount   money.Amount
}

// Settlement pays only the ranks that have an occupant.
type Settlement struct {
	Schedule    Schedule
	Awards      []Award
	Unallocated money.Amount
}

func Settle(schedule Schedule, standings []standing.Standing) Settlement {
	awards := make([]Award, 0, len(standings))
	var paid money.Amount
	for _, s := range standings {
		amount := schedule.ForRank(s.Rank)
		awards = append(awards, Award{
			Rank:     s.Rank,
			RosterID: s.RosterID,
			UserID:   s.UserID,
			Points:   s.Points,
			Amount:   amount,
		})
		paid += amount
	}

	return Settlement{
		Schedule:    schedule,
		Awards:      awards,
		Unallocated: schedule.Distributable - paid,
	}
}
