package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/pflag"

	"zoocore/internal/config"
	"zoocore/internal/core"
	"zoocore/pkg/domain"
)

type env struct {
	svc *core.Service
	cfg config.Config
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) (any, error)
}

var commands = map[string]command{
	"animals-by-ids":            {"enclosures with the given ids", animalsByIDs},
	"older-than":                {"SPECIES AGE: whether every resident is at least AGE", olderThan},
	"employee-by-name":          {"[QUERY]: first employee whose name occurs in QUERY", employeeByName},
	"create-employee":           {"merge personal and association fields without inserting", createEmployee},
	"is-manager":                {"ID: whether ID manages anyone", isManager},
	"add-employee":              {"append an employee to the loaded dataset", addEmployee},
	"count":                     {"[SPECIES]: resident counts", count},
	"entry":                     {"admission total for a group", entry},
	"map":                       {"species by location", animalMap},
	"schedule":                  {"[DAY]: opening hours", schedule},
	"oldest":                    {"ENCLOSURE_ID: oldest resident", oldest},
	"oldest-from-first-species": {"EMPLOYEE_ID: oldest resident of the first covered enclosure", oldestFromFirstSpecies},
	"increase-prices":           {"PERCENT: raise every price", increasePrices},
	"coverage":                  {"[ID_OR_NAME]: species covered per employee", coverage},
	"export":                    {"write the dataset to another backend", export},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name, cmd := range commands {
		names = append(names, name+"\t"+cmd.summary)
	}
	slices.Sort(names)
	return names
}

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError{err: err}
	}
	return nil
}

func exactArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return usagef("expected %s", usage)
	}
	return nil
}

func optionalArg(args []string, usage string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	default:
		return "", usagef("expected %s", usage)
	}
}

func parseNumber(raw, what string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, usagef("invalid %s %q", what, raw)
	}
	return v, nil
}

func animalsByIDs(ctx context.Context, e *env, args []string) (any, error) {
	return e.svc.AnimalsByIDs(ctx, args...)
}

func olderThan(ctx context.Context, e *env, args []string) (any, error) {
	if err := exactArgs(args, 2, "SPECIES AGE"); err != nil {
		return nil, err
	}
	age, err := parseNumber(args[1], "age")
	if err != nil {
		return nil, err
	}
	return e.svc.AnimalsOlderThan(ctx, args[0], age)
}

func employeeByName(ctx context.Context, e *env, args []string) (any, error) {
	query, err := optionalArg(args, "[QUERY]")
	if err != nil {
		return nil, err
	}
	return e.svc.EmployeeByName(ctx, query)
}

func employeeFlags(fs *pflag.FlagSet, prefix string) func() domain.EmployeeFields {
	id := fs.String(prefix+"id", "", "employee id")
	first := fs.String(prefix+"first-name", "", "first name")
	last := fs.String(prefix+"last-name", "", "last name")
	managers := fs.StringSlice(prefix+"managers", nil, "manager ids")
	responsible := fs.StringSlice(prefix+"responsible-for", nil, "enclosure ids")
	return func() domain.EmployeeFields {
		var f domain.EmployeeFields
		if fs.Changed(prefix + "id") {
			f.ID = id
		}
		if fs.Changed(prefix + "first-name") {
			f.FirstName = first
		}
		if fs.Changed(prefix + "last-name") {
			f.LastName = last
		}
		if fs.Changed(prefix + "managers") {
			f.Managers = *managers
		}
		if fs.Changed(prefix + "responsible-for") {
			f.ResponsibleFor = *responsible
		}
		return f
	}
}

func createEmployee(_ context.Context, e *env, args []string) (any, error) {
	fs := newFlags("create-employee")
	personal := employeeFlags(fs, "")
	associated := employeeFlags(fs, "assoc-")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return e.svc.CreateEmployee(personal(), associated()), nil
}

func isManager(ctx context.Context, e *env, args []string) (any, error) {
	if err := exactArgs(args, 1, "ID"); err != nil {
		return nil, err
	}
	return e.svc.IsManager(ctx, args[0])
}

type mutationOutput[T any] struct {
	Result     T                  `json:"result"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

func addEmployee(ctx context.Context, e *env, args []string) (any, error) {
	fs := newFlags("add-employee")
	fields := employeeFlags(fs, "")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	f := fields()
	in := core.NewEmployee{Managers: f.Managers, ResponsibleFor: f.ResponsibleFor}
	if f.ID != nil {
		in.ID = *f.ID
	}
	if f.FirstName != nil {
		in.FirstName = *f.FirstName
	}
	if f.LastName != nil {
		in.LastName = *f.LastName
	}
	created, res, err := e.svc.AddEmployee(ctx, in)
	if err != nil {
		return nil, err
	}
	return mutationOutput[domain.Employee]{Result: created, Violations: res.Violations}, nil
}

func count(ctx context.Context, e *env, args []string) (any, error) {
	species, err := optionalArg(args, "[SPECIES]")
	if err != nil {
		return nil, err
	}
	if species == "" {
		return e.svc.AnimalCounts(ctx)
	}
	return e.svc.AnimalCount(ctx, species)
}

func entry(ctx context.Context, e *env, args []string) (any, error) {
	fs := newFlags("entry")
	var in core.Entrants
	fs.IntVar(&in.Adult, "adult", 0, "adult visitors")
	fs.IntVar(&in.Child, "child", 0, "child visitors")
	fs.IntVar(&in.Senior, "senior", 0, "senior visitors")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return e.svc.EntryCalculator(ctx, &in)
}

func animalMap(ctx context.Context, e *env, args []string) (any, error) {
	fs := newFlags("map")
	var opts core.AnimalMapOptions
	var sex string
	fs.BoolVar(&opts.IncludeNames, "include-names", false, "list resident names")
	fs.StringVar(&sex, "sex", "", "only residents of this sex")
	fs.BoolVar(&opts.Sorted, "sorted", false, "sort resident names")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	opts.Sex = domain.Sex(sex)
	return e.svc.AnimalMap(ctx, &opts)
}

func schedule(ctx context.Context, e *env, args []string) (any, error) {
	day, err := optionalArg(args, "[DAY]")
	if err != nil {
		return nil, err
	}
	return e.svc.Schedule(ctx, day)
}

func oldest(ctx context.Context, e *env, args []string) (any, error) {
	if err := exactArgs(args, 1, "ENCLOSURE_ID"); err != nil {
		return nil, err
	}
	return e.svc.Oldest(ctx, args[0])
}

func oldestFromFirstSpecies(ctx context.Context, e *env, args []string) (any, error) {
	if err := exactArgs(args, 1, "EMPLOYEE_ID"); err != nil {
		return nil, err
	}
	return e.svc.OldestFromFirstSpecies(ctx, args[0])
}

func increasePrices(ctx context.Context, e *env, args []string) (any, error) {
	if err := exactArgs(args, 1, "PERCENT"); err != nil {
		return nil, err
	}
	pct, err := parseNumber(args[0], "percentage")
	if err != nil {
		return nil, err
	}
	prices, res, err := e.svc.IncreasePrices(ctx, pct)
	if err != nil {
		return nil, err
	}
	return mutationOutput[domain.Ordered[float64]]{Result: prices, Violations: res.Violations}, nil
}

func coverage(ctx context.Context, e *env, args []string) (any, error) {
	key, err := optionalArg(args, "[ID_OR_NAME]")
	if err != nil {
		return nil, err
	}
	return e.svc.EmployeeCoverage(ctx, key)
}

type exportOutput struct {
	Driver     string `json:"driver"`
	Enclosures int    `json:"enclosures"`
	Employees  int    `json:"employees"`
}

// export copies the loaded dataset into the backend named by --driver,
// reusing the environment settings for everything but --path.
func export(ctx context.Context, e *env, args []string) (any, error) {
	fs := newFlags("export")
	driver := fs.String("driver", "", "target dataset driver: file, sqlite, postgres, blob")
	path := fs.String("path", "", "target file path, sqlite path, postgres DSN, or blob key")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	target := e.cfg
	target.DatasetDriver = *driver
	switch *driver {
	case config.DriverFile:
		target.DatasetPath = *path
	case config.DriverSQLite:
		if *path != "" {
			target.SQLitePath = *path
		}
	case config.DriverPostgres:
		if *path != "" {
			target.PostgresDSN = *path
		}
	case config.DriverBlob:
		if *path != "" {
			target.Blob.Key = *path
		}
	default:
		return nil, usagef("--driver must be one of file, sqlite, postgres, blob")
	}
	if err := target.Validate(); err != nil {
		return nil, usageError{err: err}
	}
	ds, err := core.OpenDataset(ctx, target)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()
	if err := e.svc.ExportTo(ctx, ds); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	snap := e.svc.Snapshot()
	return exportOutput{Driver: ds.Driver, Enclosures: len(snap.Animals), Employees: len(snap.Employees)}, nil
}
