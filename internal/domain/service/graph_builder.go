package service

import (
	"context"
	"sort"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// GraphBuilder assembles the financial flow graph around a company under
// investigation: the company itself, every counterparty it transacted with,
// and one weighted edge per (sender, receiver) pair aggregated over the
// matching transactions.
type GraphBuilder interface {
	Build(ctx context.Context, companyID string, companies []models.Company, txns []models.Transaction) models.FlowGraph
}

type graphBuilder struct {
	logger logger.Logger
}

// NewGraphBuilder creates a GraphBuilder.
func NewGraphBuilder(log logger.Logger) GraphBuilder {
	return &graphBuilder{
		logger: log.WithComponent("graph-builder"),
	}
}

func (b *graphBuilder) Build(ctx context.Context, companyID string, companies []models.Company, txns []models.Transaction) models.FlowGraph {
	byID := make(map[string]models.Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}

	type edgeKey struct{ from, to string }
	type edgeAgg struct {
		amount  float64
		count   int
		flagged bool
	}
	edges := make(map[edgeKey]*edgeAgg)
	involved := map[string]bool{companyID: true}

	for _, t := range txns {
		if t.SenderID != companyID && t.ReceiverID != companyID {
			continue
		}
		involved[t.SenderID] = true
		involved[t.ReceiverID] = true

		k := edgeKey{from: t.SenderID, to: t.ReceiverID}
		agg := edges[k]
		if agg == nil {
			agg = &edgeAgg{}
			edges[k] = agg
		}
		agg.amount += t.AmountIDR
		agg.count++
		agg.flagged = agg.flagged || t.Flagged
	}

	graph := models.FlowGraph{
		Nodes: make([]models.FlowNode, 0, len(involved)),
		Edges: make([]models.FlowEdge, 0, len(edges)),
	}

	ids := make([]string, 0, len(involved))
	for id := range involved {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		node := models.FlowNode{ID: id, Label: id}
		if c, ok := byID[id]; ok {
			node.Label = c.Name
			node.Type = c.Type
			node.RiskScore = c.RiskScore
		}
		graph.Nodes = append(graph.Nodes, node)
	}

	keys := make([]edgeKey, 0, len(edges))
	for k := range edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})
	for _, k := range keys {
		agg := edges[k]
		relation := "transfer"
		if agg.flagged {
			relation = "suspicious transfer"
		}
		graph.Edges = append(graph.Edges, models.FlowEdge{
			From:      k.from,
			To:        k.to,
			Relation:  relation,
			Weight:    float64(agg.count),
			AmountIDR: agg.amount,
		})
	}

	b.logger.Debug(ctx, "flow graph built", logger.Fields{
		"company": companyID,
		"nodes":   len(graph.Nodes),
		"edges":   len(graph.Edges),
	})
	return graph
}
