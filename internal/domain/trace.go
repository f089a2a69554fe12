package domain

// TraceStep records one decision taken while pricing. Computation returns
// traces instead of logging; observers attached at the boundary decide what
// to do with them.
type TraceStep struct {
	Phase   string `json:"phase"`
	RuleID  string `json:"ruleId,omitempty"`
	Message string `json:"message"`
	Amount  Money  `json:"amount"`
}

type Trace struct {
	Steps []TraceStep `json:"steps"`
}

func (t *Trace) Add(phase, message string, amount Money) {
	t.Steps = append(t.Steps, TraceStep{Phase: phase, Message: message, Amount: amount})
}

func (t *Trace) AddRule(phase, ruleID, message string, amount Money) {
	t.Steps = append(t.Steps, TraceStep{Phase: phase, RuleID: ruleID, Message: message, Amount: amount})
}

func (t *Trace) Append(other Trace) {
	t.Steps = append(t.Steps, other.Steps...)
}
