package metrics

// Metric attribute keys shared by all instruments.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrGateway   = "gateway"
	AttrOperation = "operation"
	AttrAction    = "action"
	AttrOutcome   = "outcome"
)

// Scoring action outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)
