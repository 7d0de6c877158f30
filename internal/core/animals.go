package core

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"zoocore/pkg/domain"
)

// AnimalsByIDs returns the enclosures whose id is listed, in dataset order.
// Unknown ids are skipped.
func (s *Service) AnimalsByIDs(ctx context.Context, ids ...string) ([]domain.Enclosure, error) {
	out := []domain.Enclosure{}
	err := s.view(ctx, "animals_by_ids", func(v domain.TransactionView) error {
		if len(ids) == 0 {
			return nil
		}
		for _, e := range v.ListEnclosures() {
			if slices.Contains(ids, e.ID) {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

// AnimalsOlderThan reports whether every resident of the first enclosure
// named species is at least age. An empty enclosure satisfies any age.
func (s *Service) AnimalsOlderThan(ctx context.Context, species string, age float64) (bool, error) {
	var ok bool
	err := s.view(ctx, "animals_older_than", func(v domain.TransactionView) error {
		enc, found := findBySpecies(v.ListEnclosures(), species)
		if !found {
			return domain.ErrNotFound{Entity: domain.EntityEnclosure, By: "name", Value: species}
		}
		ok = true
		for _, r := range enc.Residents {
			if r.Age < age {
				ok = false
				break
			}
		}
		return nil
	})
	return ok, err
}

func findBySpecies(enclosures []domain.Enclosure, species string) (domain.Enclosure, bool) {
	for _, e := range enclosures {
		if e.Name == species {
			return e, true
		}
	}
	return domain.Enclosure{}, false
}

// AnimalCounts maps every enclosure name to its resident count. A repeated
// name keeps its first position and the last count.
func (s *Service) AnimalCounts(ctx context.Context) (domain.Ordered[int], error) {
	var out domain.Ordered[int]
	err := s.view(ctx, "animal_counts", func(v domain.TransactionView) error {
		for _, e := range v.ListEnclosures() {
			out.Set(e.Name, len(e.Residents))
		}
		return nil
	})
	return out, err
}

// AnimalCount returns the resident count of the first enclosure whose name
// contains species.
func (s *Service) AnimalCount(ctx context.Context, species string) (int, error) {
	var count int
	err := s.view(ctx, "animal_count", func(v domain.TransactionView) error {
		for _, e := range v.ListEnclosures() {
			if strings.Contains(e.Name, species) {
				count = len(e.Residents)
				return nil
			}
		}
		return domain.ErrNotFound{Entity: domain.EntityEnclosure, By: "name containing", Value: species}
	})
	return count, err
}

// AnimalMapOptions controls the shape of AnimalMap results.
type AnimalMapOptions struct {
	// IncludeNames lists resident names under each species.
	IncludeNames bool `json:"include_names"`
	// Sex restricts listed residents when it is male or female.
	Sex domain.Sex `json:"sex,omitempty"`
	// Sorted orders resident names alphabetically.
	Sorted bool `json:"sorted"`
}

// MapEntry is one species within an AnimalMap location. Residents is nil
// when names were not requested, in which case the entry encodes as the bare
// species name; otherwise it encodes as {species: [names]}.
type MapEntry struct {
	Species   string
	Residents []string
}

// MarshalJSON implements json.Marshaler.
func (e MapEntry) MarshalJSON() ([]byte, error) {
	if e.Residents == nil {
		return json.Marshal(e.Species)
	}
	return json.Marshal(map[string][]string{e.Species: e.Residents})
}

// AnimalMap groups species by location. It always holds NE, NW, SE and SW.
type AnimalMap = domain.Ordered[[]MapEntry]

// AnimalMap groups enclosures by location. A nil opts lists species names.
func (s *Service) AnimalMap(ctx context.Context, opts *AnimalMapOptions) (AnimalMap, error) {
	var o AnimalMapOptions
	if opts != nil {
		o = *opts
	}
	var out AnimalMap
	err := s.view(ctx, "animal_map", func(v domain.TransactionView) error {
		enclosures := v.ListEnclosures()
		for _, loc := range domain.Locations() {
			entries := []MapEntry{}
			for _, e := range enclosures {
				if e.Location != loc {
					continue
				}
				entry := MapEntry{Species: e.Name}
				if o.IncludeNames {
					entry.Residents = residentNames(e.Residents, o.Sex, o.Sorted)
				}
				entries = append(entries, entry)
			}
			out.Set(string(loc), entries)
		}
		return nil
	})
	return out, err
}

func residentNames(residents []domain.Resident, sex domain.Sex, sorted bool) []string {
	if sex.Valid() {
		residents = residentsOfSex(residents, sex)
	}
	names := make([]string, 0, len(residents))
	for _, r := range residents {
		names = append(names, r.Name)
	}
	if sorted {
		slices.Sort(names)
	}
	return names
}

func residentsOfSex(residents []domain.Resident, sex domain.Sex) []domain.Resident {
	out := make([]domain.Resident, 0, len(residents))
	for _, r := range residents {
		if r.Sex == sex {
			out = append(out, r)
		}
	}
	return out
}

// Oldest returns the oldest resident of an enclosure. Ties resolve to the
// first resident in storage order.
func (s *Service) Oldest(ctx context.Context, enclosureID string) (domain.Resident, error) {
	var out domain.Resident
	err := s.view(ctx, "oldest", func(v domain.TransactionView) error {
		var err error
		out, err = oldestIn(v, enclosureID)
		return err
	})
	return out, err
}

func oldestIn(v domain.TransactionView, enclosureID string) (domain.Resident, error) {
	enc, ok := v.FindEnclosure(enclosureID)
	if !ok {
		return domain.Resident{}, domain.ErrNotFound{Entity: domain.EntityEnclosure, By: "id", Value: enclosureID}
	}
	if len(enc.Residents) == 0 {
		return domain.Resident{}, domain.ErrNotFound{Entity: domain.EntityResident, By: "enclosure", Value: enclosureID}
	}
	oldest := enc.Residents[0]
	for _, r := range enc.Residents[1:] {
		if r.Age > oldest.Age {
			oldest = r
		}
	}
	return oldest, nil
}

// ResidentTuple is a resident encoded as a [name, sex, age] JSON array.
type ResidentTuple struct {
	Name string
	Sex  domain.Sex
	Age  float64
}

// MarshalJSON implements json.Marshaler.
func (t ResidentTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Name, t.Sex, t.Age})
}

// OldestFromFirstSpecies returns the oldest resident of the first enclosure
// the employee is responsible for.
func (s *Service) OldestFromFirstSpecies(ctx context.Context, employeeID string) (ResidentTuple, error) {
	var out ResidentTuple
	err := s.view(ctx, "oldest_from_first_species", func(v domain.TransactionView) error {
		emp, ok := v.FindEmployee(employeeID)
		if !ok {
			return domain.ErrNotFound{Entity: domain.EntityEmployee, By: "id", Value: employeeID}
		}
		if len(emp.ResponsibleFor) == 0 {
			return domain.ErrNotFound{Entity: domain.EntityEnclosure, By: "responsibility of employee", Value: employeeID}
		}
		r, err := oldestIn(v, emp.ResponsibleFor[0])
		if err != nil {
			return err
		}
		out = ResidentTuple{Name: r.Name, Sex: r.Sex, Age: r.Age}
		return nil
	})
	return out, err
}
