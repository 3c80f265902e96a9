package service

import (
	"context"
	"sort"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// TransactionAnalyzer detects money-laundering patterns in a transaction
// collection. Two heuristics are implemented:
//
//   - structuring: three or more transfers from the same sender, each within
//     10% under the 500M IDR reporting threshold, inside a 72 hour window;
//   - layering: an intermediary that forwards at least 90% of an inbound
//     amount within 48 hours, chained across three or more hops.
//
// Matched transactions are tagged and flagged in place; everything else keeps
// the normal tag.
type TransactionAnalyzer interface {
	Analyze(ctx context.Context, txns []models.Transaction) []models.Transaction
}

type txnAnalyzer struct {
	logger logger.Logger
}

// NewTransactionAnalyzer creates a TransactionAnalyzer.
func NewTransactionAnalyzer(log logger.Logger) TransactionAnalyzer {
	return &txnAnalyzer{
		logger: log.WithComponent("txn-analyzer"),
	}
}

func (a *txnAnalyzer) Analyze(ctx context.Context, txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	copy(out, txns)
	for i := range out {
		out[i].TypeTag = constants.TransactionTypeNormal
		out[i].Flagged = false
	}

	structured := a.detectStructuring(out)
	layered := a.detectLayering(out)

	for i := range out {
		switch {
		case structured[out[i].ID]:
			out[i].TypeTag = constants.TransactionTypeStructuring
			out[i].Flagged = true
			out[i].RiskScore = structuringRiskScore(out[i].AmountIDR)
		case layered[out[i].ID]:
			out[i].TypeTag = constants.TransactionTypeLayering
			out[i].Flagged = true
			out[i].RiskScore = layeringRiskScore
		}
	}

	a.logger.Info(ctx, "transaction analysis completed", logger.Fields{
		"transactions": len(out),
		"structuring":  len(structured),
		"layering":     len(layered),
	})
	return out
}

const layeringRiskScore = 88

// structuringRiskScore grows as the amount creeps closer to the reporting
// threshold, topping out just under 100.
func structuringRiskScore(amount float64) int {
	closeness := amount / constants.StructuringReportThresholdIDR
	if closeness > 1 {
		closeness = 1
	}
	score := 80 + int(closeness*19)
	if score >= constants.MaxRiskScore {
		score = constants.MaxRiskScore - 1
	}
	return score
}

// detectStructuring finds, per sender, clusters of at least three sub-threshold
// transfers inside the structuring window and returns the matched ids.
func (a *txnAnalyzer) detectStructuring(txns []models.Transaction) map[string]bool {
	lower := constants.StructuringReportThresholdIDR * (1 - constants.StructuringMarginFraction)

	bySender := make(map[string][]models.Transaction)
	for _, t := range txns {
		if t.AmountIDR >= lower && t.AmountIDR < constants.StructuringReportThresholdIDR {
			bySender[t.SenderID] = append(bySender[t.SenderID], t)
		}
	}

	matched := make(map[string]bool)
	for _, group := range bySender {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})
		// Sliding window over the sender's sub-threshold transfers.
		lo := 0
		for hi := range group {
			for group[hi].Timestamp.Sub(group[lo].Timestamp) > constants.StructuringWindow {
				lo++
			}
			if hi-lo+1 >= constants.StructuringMinCount {
				for k := lo; k <= hi; k++ {
					matched[group[k].ID] = true
				}
			}
		}
	}
	return matched
}

// detectLayering walks pass-through hops: an inbound transfer followed by an
// outbound transfer from the same entity within the layering window carrying
// at least the pass-through ratio of the inbound amount. Chains of enough
// consecutive hops mark every transaction along the chain.
func (a *txnAnalyzer) detectLayering(txns []models.Transaction) map[string]bool {
	inbound := make(map[string][]models.Transaction)
	for _, t := range txns {
		inbound[t.ReceiverID] = append(inbound[t.ReceiverID], t)
	}
	for _, in := range inbound {
		sort.Slice(in, func(i, j int) bool {
			return in[i].Timestamp.Before(in[j].Timestamp)
		})
	}

	// chainLen[id] is the length in hops of the longest pass-through chain
	// ending at transaction id; prev[id] links back along that chain.
	chainLen := make(map[string]int)
	prev := make(map[string]string)

	ordered := make([]models.Transaction, len(txns))
	copy(ordered, txns)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	for _, out := range ordered {
		best := 0
		for _, in := range inbound[out.SenderID] {
			if !in.Timestamp.Before(out.Timestamp) {
				break
			}
			if out.Timestamp.Sub(in.Timestamp) > constants.LayeringWindow {
				continue
			}
			if out.AmountIDR < in.AmountIDR*constants.LayeringPassThroughRatio {
				continue
			}
			if chainLen[in.ID] > best {
				best = chainLen[in.ID]
				prev[out.ID] = in.ID
			}
		}
		chainLen[out.ID] = best + 1
	}

	matched := make(map[string]bool)
	for id, n := range chainLen {
		if n < constants.LayeringMinChain {
			continue
		}
		for cur := id; cur != ""; {
			matched[cur] = true
			cur = prev[cur]
		}
	}
	return matched
}
