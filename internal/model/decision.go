package model

// Underwriting actions.
const (
	ActionRequestInfo = "Request More Information"
	ActionAccept      = "Accept"
	ActionConditions  = "Accept with Conditions"
	ActionRefer       = "Refer to Senior Underwriter"
	ActionDecline     = "Decline"
)

// Decision is the underwriting recommendation for one normalized record.
type Decision struct {
	RecommendedAction   string   `json:"recommended_action"`
	DecisionReason      string   `json:"decision_reason"`
	PricingAdjustment   float64  `json:"pricing_adjustment"`
	UnderwriterNotes    []string `json:"underwriter_notes"`
	RequiredInformation []string `json:"required_information"`
}
