// Package domain defines the zoo dataset entities, value types, and rule
// evaluation primitives used by zoocore.
package domain

import "slices"

// EntityType identifies the type of record held in the zoo dataset.
type EntityType string

// Supported entity type identifiers used in Change records, errors, and persistence buckets.
const (
	// EntityEnclosure identifies an animal enclosure record.
	EntityEnclosure EntityType = "enclosure"
	// EntityResident identifies an individual animal living in an enclosure.
	EntityResident EntityType = "resident"
	// EntityEmployee identifies a staff record.
	EntityEmployee EntityType = "employee"
	// EntityPrice identifies an admission price entry.
	EntityPrice EntityType = "price"
	// EntityHours identifies a weekday opening-hours entry.
	EntityHours EntityType = "hours"
)

// Location is one of the four compass-quadrant codes an enclosure can sit in.
type Location string

// Fixed enclosure locations.
const (
	LocationNE Location = "NE"
	LocationNW Location = "NW"
	LocationSE Location = "SE"
	LocationSW Location = "SW"
)

// Locations lists every valid location in canonical order.
func Locations() []Location {
	return []Location{LocationNE, LocationNW, LocationSE, LocationSW}
}

// Valid reports whether l is one of the four fixed codes.
func (l Location) Valid() bool {
	return slices.Contains(Locations(), l)
}

// Sex captures a resident's sex.
type Sex string

// Recognised resident sexes.
const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Valid reports whether s is male or female.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Admission price categories.
const (
	CategoryAdult  = "Adult"
	CategoryChild  = "Child"
	CategorySenior = "Senior"
)

// Categories lists the admission categories every dataset must price.
func Categories() []string {
	return []string{CategoryAdult, CategoryChild, CategorySenior}
}

// Resident is an individual animal. It has no identity outside its enclosure.
type Resident struct {
	Name string  `json:"name"`
	Sex  Sex     `json:"sex"`
	Age  float64 `json:"age"`
}

// Enclosure is a zoo exhibit housing one species.
type Enclosure struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Location  Location   `json:"location"`
	Residents []Resident `json:"residents"`
}

// Employee is a staff record with reporting and assignment relationships.
type Employee struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Managers       []string `json:"managers"`
	ResponsibleFor []string `json:"responsible_for"`
}

// FullName joins first and last name with a single space.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// HasManager reports whether id manages the employee.
func (e Employee) HasManager(id string) bool {
	return slices.Contains(e.Managers, id)
}

// EmployeeFields is a partial employee record. Nil fields are unset.
type EmployeeFields struct {
	ID             *string  `json:"id,omitempty"`
	FirstName      *string  `json:"first_name,omitempty"`
	LastName       *string  `json:"last_name,omitempty"`
	Managers       []string `json:"managers,omitempty"`
	ResponsibleFor []string `json:"responsible_for,omitempty"`
}

// Merge overlays every set field of other onto f and returns the combined
// employee. Neither argument is modified.
func (f EmployeeFields) Merge(other EmployeeFields) Employee {
	out := f.employee()
	if other.ID != nil {
		out.ID = *other.ID
	}
	if other.FirstName != nil {
		out.FirstName = *other.FirstName
	}
	if other.LastName != nil {
		out.LastName = *other.LastName
	}
	if other.Managers != nil {
		out.Managers = slices.Clone(other.Managers)
	}
	if other.ResponsibleFor != nil {
		out.ResponsibleFor = slices.Clone(other.ResponsibleFor)
	}
	return out
}

func (f EmployeeFields) employee() Employee {
	var e Employee
	if f.ID != nil {
		e.ID = *f.ID
	}
	if f.FirstName != nil {
		e.FirstName = *f.FirstName
	}
	if f.LastName != nil {
		e.LastName = *f.LastName
	}
	e.Managers = slices.Clone(f.Managers)
	e.ResponsibleFor = slices.Clone(f.ResponsibleFor)
	return e
}

// Hours holds a weekday's opening and closing hour on a 24-hour clock.
type Hours struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Change describes a mutation applied within a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action enumerates the mutation kinds recorded in a Change.
type Action string

// Change actions. The dataset has no delete operation.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
)

// Violation captures a single rule finding.
type Violation struct {
	Rule     string     `json:"rule"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	Entity   EntityType `json:"entity"`
	EntityID string     `json:"entity_id,omitempty"`
}

// Result aggregates rule violations.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
