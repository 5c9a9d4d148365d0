package enums

type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

func (d ReviewDecision) Valid() bool {
	return d == ReviewDecisionApprove || d == ReviewDecisionReject
}
