package model

// Plan is the closed set of subscription tiers.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

const (
	maxBlogsFree    = 4
	maxBlogsPremium = 20
)

// ParsePlan maps a stored tier string onto a known plan. Unknown values
// resolve to the free tier so a bad row can never widen a user's ceiling;
// the second return reports whether the input was recognized.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(s) {
	case PlanFree:
		return PlanFree, true
	case PlanPremium:
		return PlanPremium, true
	}
	return PlanFree, false
}

// MaxBlogs returns the blog-count ceiling for the plan.
func (p Plan) MaxBlogs() int {
	if p == PlanPremium {
		return maxBlogsPremium
	}
	return maxBlogsFree
}
