package core

import (
	"context"
	"fmt"

	"zoocore/pkg/domain"
)

// Default rule names.
const (
	RuleResponsibilityReference = "responsibility_reference"
	RuleEmployeeIdentity        = "employee_identity"
)

// NewDefaultRulesEngine returns an engine with the built-in rules. They only
// warn, so no mutation is ever rejected by them.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(ResponsibilityReferenceRule())
	engine.Register(EmployeeIdentityRule())
	return engine
}

// ruleFunc adapts a function into a domain.Rule.
type ruleFunc struct {
	name string
	fn   func(context.Context, domain.RuleView, []domain.Change) (domain.Result, error)
}

func (r ruleFunc) Name() string { return r.name }

func (r ruleFunc) Evaluate(ctx context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	return r.fn(ctx, view, changes)
}

// ResponsibilityReferenceRule warns when a new employee is responsible for
// an enclosure that does not exist.
func ResponsibilityReferenceRule() domain.Rule {
	return ruleFunc{name: RuleResponsibilityReference, fn: func(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
		var res domain.Result
		for _, emp := range createdEmployees(changes) {
			for _, id := range emp.ResponsibleFor {
				if _, ok := view.FindEnclosure(id); ok {
					continue
				}
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     RuleResponsibilityReference,
					Severity: domain.SeverityWarn,
					Message:  fmt.Sprintf("employee %s is responsible for unknown enclosure %s", emp.ID, id),
					Entity:   domain.EntityEmployee,
					EntityID: emp.ID,
				})
			}
		}
		return res, nil
	}}
}

// EmployeeIdentityRule warns when a new employee shares its id with another.
func EmployeeIdentityRule() domain.Rule {
	return ruleFunc{name: RuleEmployeeIdentity, fn: func(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
		created := createdEmployees(changes)
		if len(created) == 0 {
			return domain.Result{}, nil
		}
		counts := make(map[string]int)
		for _, e := range view.ListEmployees() {
			counts[e.ID]++
		}
		var res domain.Result
		for _, emp := range created {
			if counts[emp.ID] > 1 {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     RuleEmployeeIdentity,
					Severity: domain.SeverityWarn,
					Message:  fmt.Sprintf("employee id %s is used %d times", emp.ID, counts[emp.ID]),
					Entity:   domain.EntityEmployee,
					EntityID: emp.ID,
				})
			}
		}
		return res, nil
	}}
}

func createdEmployees(changes []domain.Change) []domain.Employee {
	var out []domain.Employee
	for _, c := range changes {
		if c.Entity != domain.EntityEmployee || c.Action != domain.ActionCreate {
			continue
		}
		if emp, ok := c.After.(domain.Employee); ok {
			out = append(out, emp)
		}
	}
	return out
}
