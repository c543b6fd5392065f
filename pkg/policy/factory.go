package policy

// New builds the stateless deterministic-ladder or random policy
// named by kind. EpsilonGreedy is constructed directly by callers that
// hold an evaluator handle, since it isn't one of the fixed Kind
// values.
func New(kind Kind) Policy {
	switch kind {
	case KindGreedy:
		return Greedy{}
	case KindRuleBased:
		return RuleBased{}
	default:
		return Random{}
	}
}
