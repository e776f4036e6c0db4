package quota

// UnlimitedRemaining marks a decision with no finite ceiling, distinct
// from a remaining allowance of 0.
const UnlimitedRemaining = -1

// Decision is the outcome of a quota evaluation.
type Decision struct {
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
	Remaining int    `json:"remaining"`
}

// Unlimited is the decision for a tenant with no quota policy.
func Unlimited() Decision {
	return Decision{Allowed: true, Remaining: UnlimitedRemaining}
}
