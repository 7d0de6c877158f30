package domain

import (
	"fmt"
	"slices"
)

// Snapshot is the full zoo dataset: enclosures, employees, admission prices
// and weekly opening hours. Prices and hours keep their document order.
type Snapshot struct {
	Animals   []Enclosure      `json:"animals"`
	Employees []Employee       `json:"employees"`
	Prices    Ordered[float64] `json:"prices"`
	Hours     Ordered[Hours]   `json:"hours"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Prices: s.Prices.Clone(),
		Hours:  s.Hours.Clone(),
	}
	if s.Animals != nil {
		out.Animals = make([]Enclosure, len(s.Animals))
		for i, e := range s.Animals {
			out.Animals[i] = CloneEnclosure(e)
		}
	}
	if s.Employees != nil {
		out.Employees = make([]Employee, len(s.Employees))
		for i, e := range s.Employees {
			out.Employees[i] = CloneEmployee(e)
		}
	}
	return out
}

// CloneEnclosure deep-copies an enclosure and its residents.
func CloneEnclosure(e Enclosure) Enclosure {
	cp := e
	cp.Residents = slices.Clone(e.Residents)
	return cp
}

// CloneEmployee deep-copies an employee's relationship slices.
func CloneEmployee(e Employee) Employee {
	cp := e
	cp.Managers = slices.Clone(e.Managers)
	cp.ResponsibleFor = slices.Clone(e.ResponsibleFor)
	return cp
}

// Validate checks the load-time invariants: unique non-empty ids, employee
// names, known locations and sexes, non-negative ages and prices, and a price for every
// admission category. Responsibility references are not checked.
func (s Snapshot) Validate() error {
	var problems []string
	enclosures := make(map[string]struct{}, len(s.Animals))
	for i, e := range s.Animals {
		if e.ID == "" {
			problems = append(problems, fmt.Sprintf("animals[%d]: missing id", i))
		} else if _, dup := enclosures[e.ID]; dup {
			problems = append(problems, fmt.Sprintf("animals[%d]: duplicate id %q", i, e.ID))
		}
		enclosures[e.ID] = struct{}{}
		if !e.Location.Valid() {
			problems = append(problems, fmt.Sprintf("enclosure %q: unknown location %q", e.ID, e.Location))
		}
		for j, r := range e.Residents {
			if !r.Sex.Valid() {
				problems = append(problems, fmt.Sprintf("enclosure %q resident[%d]: unknown sex %q", e.ID, j, r.Sex))
			}
			if r.Age < 0 {
				problems = append(problems, fmt.Sprintf("enclosure %q resident[%d]: negative age", e.ID, j))
			}
		}
	}
	employees := make(map[string]struct{}, len(s.Employees))
	for i, e := range s.Employees {
		if e.ID == "" {
			problems = append(problems, fmt.Sprintf("employees[%d]: missing id", i))
		} else if _, dup := employees[e.ID]; dup {
			problems = append(problems, fmt.Sprintf("employees[%d]: duplicate id %q", i, e.ID))
		}
		employees[e.ID] = struct{}{}
		if e.FirstName == "" {
			problems = append(problems, fmt.Sprintf("employees[%d]: missing first_name", i))
		}
		if e.LastName == "" {
			problems = append(problems, fmt.Sprintf("employees[%d]: missing last_name", i))
		}
	}
	for _, category := range Categories() {
		price, ok := s.Prices.Get(category)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("prices: missing %s", category))
		case price < 0:
			problems = append(problems, fmt.Sprintf("prices: negative %s", category))
		}
	}
	if len(problems) > 0 {
		return ValidationError{Problems: problems}
	}
	return nil
}
