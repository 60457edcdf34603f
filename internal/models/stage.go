package models

import "time"

// Stage is a funnel stage a customer occupies. The set is fixed; there is no
// adjacency restriction between stages, so a customer may move from any stage
// to any other.
type Stage string

const (
	StageOpportunity    Stage = "oportunidade"
	StageFirstContact   Stage = "contato_inicial"
	StageProposalSent   Stage = "proposta_enviada"
	StageNegotiation    Stage = "negociacao"
	StageClosedWon      Stage = "fechado_ganho"
	StageClosedLost     Stage = "fechado_perdido"
)

// Stages lists every funnel stage in pipeline order. StageOpportunity is the
// stage new customers start in.
var Stages = []Stage{
	StageOpportunity,
	StageFirstContact,
	StageProposalSent,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

func (s Stage) Valid() bool {
	for _, v := range Stages {
		if s == v {
			return true
		}
	}
	return false
}

// StageTransition is one immutable entry of a customer's transition history.
type StageTransition struct {
	From Stage     `firestore:"from" json:"from"`
	To   Stage     `firestore:"to" json:"to"`
	At   time.Time `firestore:"at" json:"at"`
	By   string    `firestore:"by" json:"by"`
}
