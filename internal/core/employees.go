package core

import (
	"context"
	"slices"
	"strings"

	"zoocore/pkg/domain"
)

// EmployeeByName returns the first employee whose first or last name occurs
// within query. An empty query yields the zero Employee.
func (s *Service) EmployeeByName(ctx context.Context, query string) (domain.Employee, error) {
	var out domain.Employee
	err := s.view(ctx, "employee_by_name", func(v domain.TransactionView) error {
		if query == "" {
			return nil
		}
		for _, e := range v.ListEmployees() {
			if strings.Contains(query, e.FirstName) || strings.Contains(query, e.LastName) {
				out = e
				return nil
			}
		}
		return domain.ErrNotFound{Entity: domain.EntityEmployee, By: "name", Value: query}
	})
	return out, err
}

// CreateEmployee merges associatedWith over personalInfo. The dataset is
// not touched.
func CreateEmployee(personalInfo, associatedWith domain.EmployeeFields) domain.Employee {
	return personalInfo.Merge(associatedWith)
}

// CreateEmployee is the method form of the package-level CreateEmployee.
func (s *Service) CreateEmployee(personalInfo, associatedWith domain.EmployeeFields) domain.Employee {
	return CreateEmployee(personalInfo, associatedWith)
}

// IsManager reports whether any employee lists id as a manager.
func (s *Service) IsManager(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.view(ctx, "is_manager", func(v domain.TransactionView) error {
		ok = slices.ContainsFunc(v.ListEmployees(), func(e domain.Employee) bool {
			return e.HasManager(id)
		})
		return nil
	})
	return ok, err
}

// NewEmployee carries the fields of an employee to append.
type NewEmployee struct {
	// ID is stored as given. An empty ID is replaced with a random hex id,
	// because datasets with blank employee ids fail validation on reload.
	ID             string   `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Managers       []string `json:"managers,omitempty"`
	ResponsibleFor []string `json:"responsible_for,omitempty"`
}

// AddEmployee appends an employee. Nil relationship lists become empty, an
// empty id is generated, and ids are not checked for uniqueness.
func (s *Service) AddEmployee(ctx context.Context, in NewEmployee) (domain.Employee, domain.Result, error) {
	var created domain.Employee
	res, err := s.transact(ctx, "add_employee", func(tx domain.Transaction) error {
		var err error
		created, err = tx.AppendEmployee(domain.Employee{
			ID:             in.ID,
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			Managers:       in.Managers,
			ResponsibleFor: in.ResponsibleFor,
		})
		return err
	})
	return created, res, err
}

// EmployeeCoverage maps full names to the species each employee looks after.
// An empty key covers every employee; otherwise the key is resolved as an id,
// then an exact first name, then an exact last name.
func (s *Service) EmployeeCoverage(ctx context.Context, key string) (domain.Ordered[[]string], error) {
	var out domain.Ordered[[]string]
	err := s.view(ctx, "employee_coverage", func(v domain.TransactionView) error {
		employees := v.ListEmployees()
		if key != "" {
			emp, ok := resolveEmployee(employees, key)
			if !ok {
				return domain.ErrNotFound{Entity: domain.EntityEmployee, By: "id or name", Value: key}
			}
			employees = []domain.Employee{emp}
		}
		for _, e := range employees {
			species, err := coveredSpecies(v, e)
			if err != nil {
				return err
			}
			out.Set(e.FullName(), species)
		}
		return nil
	})
	return out, err
}

func resolveEmployee(employees []domain.Employee, key string) (domain.Employee, bool) {
	matchers := []func(domain.Employee) bool{
		func(e domain.Employee) bool { return e.ID == key },
		func(e domain.Employee) bool { return e.FirstName == key },
		func(e domain.Employee) bool { return e.LastName == key },
	}
	for _, match := range matchers {
		if i := slices.IndexFunc(employees, match); i >= 0 {
			return employees[i], true
		}
	}
	return domain.Employee{}, false
}

func coveredSpecies(v domain.TransactionView, e domain.Employee) ([]string, error) {
	out := make([]string, 0, len(e.ResponsibleFor))
	for _, id := range e.ResponsibleFor {
		enc, ok := v.FindEnclosure(id)
		if !ok {
			return nil, domain.ErrNotFound{Entity: domain.EntityEnclosure, By: "id", Value: id}
		}
		out = append(out, enc.Name)
	}
	return out, nil
}
