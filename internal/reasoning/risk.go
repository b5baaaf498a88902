package reasoning

import "sceneguard/internal/model"

const (
	tagLiquid      = "liquid"
	tagElectronics = "electronics"
	tagFlammable   = "flammable"
)

// rule fires when one object carries tagA and the other carries tagB.
type rule struct {
	risk model.RiskType
	tagA string
	tagB string
}

func (r rule) matches(a, b model.ConfirmedObject) bool {
	return (a.HasCategory(r.tagA) && b.HasCategory(r.tagB)) ||
		(b.HasCategory(r.tagA) && a.HasCategory(r.tagB))
}

// rules in priority order. fire_risk and sharp_risk have templates but no rule.
var rules = []rule{
	{risk: model.SpillRisk, tagA: tagLiquid, tagB: tagElectronics},
	{risk: model.DamageRisk, tagA: tagLiquid, tagB: tagFlammable},
}

// RuleEngine evaluates the fixed category-pair rules for near pairs.
type RuleEngine struct{}

// NewRuleEngine creates a RuleEngine.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// Evaluate returns at most one finding: the first rule matching a near pair.
// The liquid-tagged object becomes the finding's Source.
func (e *RuleEngine) Evaluate(a, b model.ConfirmedObject, proximity model.Proximity) []model.RiskFinding {
	if proximity != model.Near {
		return nil
	}

	for _, r := range rules {
		if !r.matches(a, b) {
			continue
		}
		if b.HasCategory(tagLiquid) {
			a, b = b, a
		}
		return []model.RiskFinding{{Type: r.risk, Source: a, Target: b}}
	}
	return nil
}
