package models

import (
	"time"

	"github.com/turtacn/jalak-hijau/pkg/constants"
)

// Company is an entity in the financial network.
type Company struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Region    string                `json:"region"`
	Type      constants.CompanyType `json:"type"`
	RiskScore int                   `json:"risk_score"`
}

// Transaction is a single transfer between two companies. Read-only once
// loaded or generated; the Flagged/TypeTag/RiskScore fields are assigned by
// the transaction analyzer before the collection is handed out.
type Transaction struct {
	ID         string                    `json:"id"`
	Timestamp  time.Time                 `json:"timestamp"`
	SenderID   string                    `json:"sender_id"`
	ReceiverID string                    `json:"receiver_id"`
	AmountIDR  float64                   `json:"amount_idr"`
	RiskScore  int                       `json:"risk_score"`
	Flagged    bool                      `json:"flagged"`
	TypeTag    constants.TransactionType `json:"type_tag"`
}

// FlowNode is one entity in an investigation's financial network graph.
type FlowNode struct {
	ID        string                `json:"id"`
	Label     string                `json:"label"`
	Type      constants.CompanyType `json:"type"`
	RiskScore int                   `json:"risk_score"`
}

// FlowEdge is a directed money-flow relation between two nodes.
type FlowEdge struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Relation  string  `json:"relation"`
	Weight    float64 `json:"weight"`
	AmountIDR float64 `json:"amount_idr"`
}

// FlowGraph is the financial network for an investigation case. Pure data;
// rendering is out of scope.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}
