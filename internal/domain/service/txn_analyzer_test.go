package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

var txnEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func txn(id, sender, receiver string, amount float64, offset time.Duration) models.Transaction {
	return models.Transaction{
		ID:         id,
		Timestamp:  txnEpoch.Add(offset),
		SenderID:   sender,
		ReceiverID: receiver,
		AmountIDR:  amount,
	}
}

func tagsByID(txns []models.Transaction) map[string]constants.TransactionType {
	out := make(map[string]constants.TransactionType, len(txns))
	for _, t := range txns {
		out[t.ID] = t.TypeTag
	}
	return out
}

func TestTransactionAnalyzer_DetectsStructuring(t *testing.T) {
	analyzer := NewTransactionAnalyzer(logger.NewNoopLogger())

	// Three transfers just under the 500M reporting threshold inside 72h.
	txns := []models.Transaction{
		txn("t1", "PT-A", "PT-X", 460_000_000, 0),
		txn("t2", "PT-A", "PT-Y", 470_000_000, 24*time.Hour),
		txn("t3", "PT-A", "PT-Z", 480_000_000, 48*time.Hour),
		txn("t4", "PT-B", "PT-X", 100_000_000, 0),
	}

	out := analyzer.Analyze(context.Background(), txns)
	tags := tagsByID(out)

	assert.Equal(t, constants.TransactionTypeStructuring, tags["t1"])
	assert.Equal(t, constants.TransactionTypeStructuring, tags["t2"])
	assert.Equal(t, constants.TransactionTypeStructuring, tags["t3"])
	assert.Equal(t, constants.TransactionTypeNormal, tags["t4"])

	for _, tx := range out {
		if tx.TypeTag == constants.TransactionTypeStructuring {
			assert.True(t, tx.Flagged)
			assert.GreaterOrEqual(t, tx.RiskScore, constants.HighRiskThreshold)
		}
	}
}

func TestTransactionAnalyzer_StructuringRequiresTightWindow(t *testing.T) {
	analyzer := NewTransactionAnalyzer(logger.NewNoopLogger())

	// Same amounts, spread over ten days: no cluster of three fits in 72h.
	txns := []models.Transaction{
		txn("t1", "PT-A", "PT-X", 460_000_000, 0),
		txn("t2", "PT-A", "PT-Y", 470_000_000, 5*24*time.Hour),
		txn("t3", "PT-A", "PT-Z", 480_000_000, 10*24*time.Hour),
	}

	out := analyzer.Analyze(context.Background(), txns)
	for _, tx := range out {
		assert.Equal(t, constants.TransactionTypeNormal, tx.TypeTag)
		assert.False(t, tx.Flagged)
	}
}

func TestTransactionAnalyzer_AmountsAtOrAboveThresholdAreNotStructuring(t *testing.T) {
	analyzer := NewTransactionAnalyzer(logger.NewNoopLogger())

	// At the threshold the transfer is reportable, so it is not structuring.
	txns := []models.Transaction{
		txn("t1", "PT-A", "PT-X", 500_000_000, 0),
		txn("t2", "PT-A", "PT-Y", 500_000_000, time.Hour),
		txn("t3", "PT-A", "PT-Z", 500_000_000, 2*time.Hour),
	}

	out := analyzer.Analyze(context.Background(), txns)
	for _, tx := range out {
		assert.Equal(t, constants.TransactionTypeNormal, tx.TypeTag)
	}
}

func TestTransactionAnalyzer_DetectsLayeringChain(t *testing.T) {
	analyzer := NewTransactionAnalyzer(logger.NewNoopLogger())

	// A -> B -> C -> D, each hop forwarding >90% within 48h.
	txns := []models.Transaction{
		txn("hop1", "PT-A", "PT-B", 100_000_000, 0),
		txn("hop2", "PT-B", "PT-C", 95_000_000, 6*time.Hour),
		txn("hop3", "PT-C", "PT-D", 92_000_000, 12*time.Hour),
		txn("other", "PT-E", "PT-F", 10_000_000, 0),
	}

	out := analyzer.Analyze(context.Background(), txns)
	tags := tagsByID(out)

	assert.Equal(t, constants.TransactionTypeLayering, tags["hop1"])
	assert.Equal(t, constants.TransactionTypeLayering, tags["hop2"])
	assert.Equal(t, constants.TransactionTypeLayering, tags["hop3"])
	assert.Equal(t, constants.TransactionTypeNormal, tags["other"])
}

func TestTransactionAnalyzer_ShortChainIsNotLayering(t *testing.T) {
	analyzer := NewTransactionAnalyzer(logger.NewNoopLogger())

	// Only two hops.
	txns := []models.Transaction{
		txn("hop1", "PT-A", "PT-B", 100_000_000, 0),
		txn("hop2", "PT-B", "PT-C", 95_000_000, 6*time.Hour),
	}

	out := analyzer.Analyze(context.Background(), txns)
	for _, tx := range out {
		assert.Equal(t, constants.TransactionTypeNormal, tx.TypeTag)
	}
}

func TestTransactionAnalyzer_SlowForwardingBreaksChain(t *testing.T) {
	analyzer := NewTransactionAnalyzer(logger.NewNoopLogger())

	// The middle hop forwards after 3 days, outside the layering window.
	txns := []models.Transaction{
		txn("hop1", "PT-A", "PT-B", 100_000_000, 0),
		txn("hop2", "PT-B", "PT-C", 95_000_000, 72*time.Hour),
		txn("hop3", "PT-C", "PT-D", 92_000_000, 78*time.Hour),
	}

	out := analyzer.Analyze(context.Background(), txns)
	for _, tx := range out {
		assert.Equal(t, constants.TransactionTypeNormal, tx.TypeTag)
	}
}

func TestTransactionAnalyzer_DoesNotMutateInput(t *testing.T) {
	analyzer := NewTransactionAnalyzer(logger.NewNoopLogger())

	txns := []models.Transaction{
		txn("t1", "PT-A", "PT-X", 460_000_000, 0),
		txn("t2", "PT-A", "PT-Y", 470_000_000, time.Hour),
		txn("t3", "PT-A", "PT-Z", 480_000_000, 2*time.Hour),
	}

	out := analyzer.Analyze(context.Background(), txns)
	require.Len(t, out, 3)
	for _, tx := range txns {
		assert.False(t, tx.Flagged)
		assert.Empty(t, tx.TypeTag)
	}
}
