// Package analytics provides pure helpers over caller-supplied position and
// snapshot data. Nothing here performs I/O; callers fetch positions first and
// feed them in.
package analytics

import (
	"fmt"

	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
)

const (
	lowAPRCeiling             = 10.0
	highAPRFloor              = 20.0
	maxRiskScore              = 10.0
	concentrationLimitPercent = 50.0
	highYieldLimitPercent     = 25.0
)

// AggregateValue sums the positions into a snapshot with per-protocol
// percentage shares. A zero total yields all-zero shares rather than NaN.
func AggregateValue(positions []entity.Position) entity.PortfolioSnapshot {
	snapshot := entity.PortfolioSnapshot{
		Entries: make([]entity.BreakdownEntry, 0, len(positions)),
	}

	for _, pos := range positions {
		snapshot.TotalValueUSD += pos.ValueUSD
		snapshot.Entries = append(snapshot.Entries, entity.BreakdownEntry{
			Protocol: pos.Protocol,
			ValueUSD: pos.ValueUSD,
			APR:      pos.APR,
		})
	}

	if snapshot.TotalValueUSD > 0 {
		for i := range snapshot.Entries {
			snapshot.Entries[i].SharePercent = snapshot.Entries[i].ValueUSD / snapshot.TotalValueUSD * 100
		}
	}
	return snapshot
}

// RiskScore grades the positions on a 0..10 scale: each position contributes
// an APR tier (below 10%: 1, 10-20%: 2, above 20%: 3) plus a protocol-class
// weight (lending: 1, exchange: 2, anything else: 3), and the score is the
// mean contribution. Empty input scores 0.
func RiskScore(positions []entity.Position) float64 {
	if len(positions) == 0 {
		return 0
	}

	total := 0.0
	for _, pos := range positions {
		total += aprTierPoints(pos.APR) + categoryPoints(pos.Category)
	}

	score := total / float64(len(positions))
	if score > maxRiskScore {
		return maxRiskScore
	}
	return score
}

func aprTierPoints(apr float64) float64 {
	switch {
	case apr < lowAPRCeiling:
		return 1
	case apr <= highAPRFloor:
		return 2
	default:
		return 3
	}
}

func categoryPoints(category entity.ProtocolCategory) float64 {
	switch category {
	case entity.CategoryLending:
		return 1
	case entity.CategoryExchange:
		return 2
	default:
		return 3
	}
}

// Rebalancing flags snapshots where a single entry holds more than half the
// total value, or where an entry advertises an APR above 25%.
func Rebalancing(snapshot entity.PortfolioSnapshot) entity.RebalancingSuggestions {
	var suggestions entity.RebalancingSuggestions

	// Shares sum to 100, so at most one entry can cross the half mark.
	for _, e := range snapshot.Entries {
		if e.SharePercent > concentrationLimitPercent {
			suggestions.OverConcentrated = true
			suggestions.ConcentratedIn = e.Protocol
			suggestions.Notes = append(suggestions.Notes,
				fmt.Sprintf("%s holds %.1f%% of portfolio value, consider spreading across protocols", e.Protocol, e.SharePercent))
			break
		}
	}

	topAPR := highYieldLimitPercent
	for _, e := range snapshot.Entries {
		if e.APR > topAPR {
			topAPR = e.APR
			suggestions.HighYield = true
			suggestions.HighYieldIn = e.Protocol
		}
	}
	if suggestions.HighYield {
		suggestions.Notes = append(suggestions.Notes,
			fmt.Sprintf("%s advertises %.1f%% APR, rates above 25%% usually carry elevated risk", suggestions.HighYieldIn, topAPR))
	}

	return suggestions
}

// AtLiquidationRisk reports whether the lending account is at or past the
// liquidation boundary. The pool reports an effectively infinite health
// factor for debt-free accounts, which is never at risk.
func AtLiquidationRisk(account entity.LendingAccountData) bool {
	return account.HealthFactor <= 1.0
}
