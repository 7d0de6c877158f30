package core

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"zoocore/pkg/domain"
)

func TestAnimalsByIDs(t *testing.T) {
	svc := newSeedService(t)
	ctx := context.Background()

	got, err := svc.AnimalsByIDs(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result for no ids, got %v %v", got, err)
	}

	got, err = svc.AnimalsByIDs(ctx, giraffesID, "missing", lionsID)
	if err != nil {
		t.Fatalf("animals by ids: %v", err)
	}
	if len(got) != 2 || got[0].Name != "lions" || got[1].Name != "giraffes" {
		t.Fatalf("expected dataset order [lions giraffes], got %+v", got)
	}
}

func TestAnimalsOlderThan(t *testing.T) {
	svc := newSeedService(t)
	ctx := context.Background()
	cases := []struct {
		species string
		age     float64
		want    bool
	}{
		{"otters", 7, false},
		{"penguins", 2, true},
		{"bears", 4, true},
		{"tigers", 18, false},
	}
	for _, tc := range cases {
		got, err := svc.AnimalsOlderThan(ctx, tc.species, tc.age)
		if err != nil {
			t.Fatalf("%s: %v", tc.species, err)
		}
		if got != tc.want {
			t.Fatalf("%s older than %v: expected %v", tc.species, tc.age, tc.want)
		}
	}
	if _, err := svc.AnimalsOlderThan(ctx, "unicorns", 1); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAnimalsOlderThanEmptyEnclosure(t *testing.T) {
	snap := domain.Snapshot{Animals: []domain.Enclosure{{ID: "e1", Name: "owls", Location: domain.LocationNE}}}
	svc := NewInMemoryService(snap)
	ok, err := svc.AnimalsOlderThan(context.Background(), "owls", 100)
	if err != nil || !ok {
		t.Fatalf("expected vacuous truth, got %v %v", ok, err)
	}
}

func TestAnimalCounts(t *testing.T) {
	svc := newSeedService(t)
	counts, err := svc.AnimalCounts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := []string{"lions", "tigers", "bears", "penguins", "otters", "frogs", "snakes", "elephants", "giraffes"}
	if !slices.Equal(counts.Keys(), want) {
		t.Fatalf("unexpected key order %v", counts.Keys())
	}
	total := 0
	for _, n := range counts.All() {
		total += n
	}
	if total != 31 {
		t.Fatalf("expected 31 residents, got %d", total)
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw[:11]) != `{"lions":4,` {
		t.Fatalf("unexpected encoding %s", raw)
	}
}

func TestAnimalCount(t *testing.T) {
	svc := newSeedService(t)
	ctx := context.Background()
	if n, err := svc.AnimalCount(ctx, "giraffes"); err != nil || n != 6 {
		t.Fatalf("giraffes: %d %v", n, err)
	}
	if n, err := svc.AnimalCount(ctx, "ele"); err != nil || n != 4 {
		t.Fatalf("substring match: %d %v", n, err)
	}
	if _, err := svc.AnimalCount(ctx, "dragons"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAnimalMapDefault(t *testing.T) {
	svc := newSeedService(t)
	m, err := svc.AnimalMap(context.Background(), nil)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	raw, _ := json.Marshal(m)
	want := `{"NE":["lions","giraffes"],"NW":["tigers","bears","elephants"],"SE":["penguins","otters"],"SW":["frogs","snakes"]}`
	if string(raw) != want {
		t.Fatalf("unexpected map\n got %s\nwant %s", raw, want)
	}
}

func TestAnimalMapWithNames(t *testing.T) {
	svc := newSeedService(t)
	ctx := context.Background()
	cases := []struct {
		name string
		opts AnimalMapOptions
		want []string
	}{
		{"names", AnimalMapOptions{IncludeNames: true}, []string{"Zena", "Maxwell", "Faustino", "Dee"}},
		{"sorted", AnimalMapOptions{IncludeNames: true, Sorted: true}, []string{"Dee", "Faustino", "Maxwell", "Zena"}},
		{"female", AnimalMapOptions{IncludeNames: true, Sex: domain.SexFemale}, []string{"Zena", "Dee"}},
		{"male sorted", AnimalMapOptions{IncludeNames: true, Sex: domain.SexMale, Sorted: true}, []string{"Faustino", "Maxwell"}},
		{"unknown sex ignored", AnimalMapOptions{IncludeNames: true, Sex: "other"}, []string{"Zena", "Maxwell", "Faustino", "Dee"}},
		{"sex without names", AnimalMapOptions{Sex: domain.SexMale}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := svc.AnimalMap(ctx, &tc.opts)
			if err != nil {
				t.Fatalf("map: %v", err)
			}
			ne, _ := m.Get("NE")
			if ne[0].Species != "lions" || !slices.Equal(ne[0].Residents, tc.want) {
				t.Fatalf("unexpected lions entry %+v", ne[0])
			}
		})
	}
}

func TestAnimalMapShape(t *testing.T) {
	svc := newSeedService(t)
	m, err := svc.AnimalMap(context.Background(), &AnimalMapOptions{IncludeNames: true, Sex: domain.SexFemale, Sorted: true})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if !slices.Equal(m.Keys(), []string{"NE", "NW", "SE", "SW"}) {
		t.Fatalf("unexpected locations %v", m.Keys())
	}
	total := 0
	for _, entries := range m.All() {
		total += len(entries)
	}
	if total != 9 {
		t.Fatalf("expected 9 species across locations, got %d", total)
	}
	raw, _ := json.Marshal(m)
	var decoded map[string][]map[string][]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("expected {species: names} objects, got %s: %v", raw, err)
	}
	if !slices.Equal(decoded["SW"][1]["snakes"], []string{"Paulett"}) {
		t.Fatalf("unexpected snakes entry %v", decoded["SW"])
	}
}

func TestAnimalMapEmptyLocations(t *testing.T) {
	svc := NewInMemoryService(domain.Snapshot{})
	m, err := svc.AnimalMap(context.Background(), nil)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	raw, _ := json.Marshal(m)
	if string(raw) != `{"NE":[],"NW":[],"SE":[],"SW":[]}` {
		t.Fatalf("expected empty arrays, got %s", raw)
	}
}

func TestOldest(t *testing.T) {
	svc := newSeedService(t)
	ctx := context.Background()
	r, err := svc.Oldest(ctx, lionsID)
	if err != nil || r.Name != "Maxwell" || r.Age != 15 {
		t.Fatalf("lions oldest: %+v %v", r, err)
	}
	r, err = svc.Oldest(ctx, bearsID)
	if err != nil || r.Name != "Hiram" {
		t.Fatalf("expected first of tied bears, got %+v %v", r, err)
	}
	if _, err := svc.Oldest(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOldestEmptyEnclosure(t *testing.T) {
	svc := NewInMemoryService(domain.Snapshot{Animals: []domain.Enclosure{{ID: "e1", Name: "owls", Location: domain.LocationNE}}})
	_, err := svc.Oldest(context.Background(), "e1")
	var nf domain.ErrNotFound
	if !errors.As(err, &nf) || nf.Entity != domain.EntityResident {
		t.Fatalf("expected resident not found, got %v", err)
	}
}

func TestOldestFromFirstSpecies(t *testing.T) {
	svc := newSeedService(t)
	ctx := context.Background()
	got, err := svc.OldestFromFirstSpecies(ctx, nigelID)
	if err != nil {
		t.Fatalf("nigel: %v", err)
	}
	raw, _ := json.Marshal(got)
	if string(raw) != `["Maxwell","male",15]` {
		t.Fatalf("unexpected tuple %s", raw)
	}
	got, err = svc.OldestFromFirstSpecies(ctx, stephanieID)
	if err != nil || got != (ResidentTuple{Name: "Vicky", Sex: domain.SexFemale, Age: 12}) {
		t.Fatalf("stephanie: %+v %v", got, err)
	}
	if _, err := svc.OldestFromFirstSpecies(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOldestFromFirstSpeciesFailures(t *testing.T) {
	snap := domain.Snapshot{Employees: []domain.Employee{
		{ID: "idle", FirstName: "Idle"},
		{ID: "dangling", FirstName: "Dan", ResponsibleFor: []string{"gone"}},
	}}
	svc := NewInMemoryService(snap)
	for _, id := range []string{"idle", "dangling"} {
		if _, err := svc.OldestFromFirstSpecies(context.Background(), id); !domain.IsNotFound(err) {
			t.Fatalf("%s: expected not found, got %v", id, err)
		}
	}
}
