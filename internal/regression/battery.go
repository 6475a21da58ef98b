// Package regression provides the scenario battery: YAML-defined estates with
// the distribution each madhab is expected to produce. A default battery of
// classical cases is embedded; callers may load their own from disk.
package regression

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"faraid/internal/logging"
	"faraid/internal/madhab"
	"faraid/internal/rational"
	"faraid/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AllMadhabs in a scenario's madhab field runs it under every school.
const AllMadhabs = "all"

// Error kinds a scenario may expect.
const (
	ErrorInvalidMadhab        = "invalid_madhab"
	ErrorNonPositiveNetEstate = "non_positive_net_estate"
)

//go:embed scenarios.yaml
var defaultBattery []byte

// Calculator is the engine surface the battery needs.
type Calculator interface {
	Calculate(req types.Request) (*types.Result, error)
}

// Battery is a collection of scenarios.
type Battery struct {
	Version   int        `yaml:"version"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one estate and its expected outcome.
type Scenario struct {
	ID          string       `yaml:"id"`
	Category    string       `yaml:"category"`
	Description string       `yaml:"description,omitempty"`
	Madhab      string       `yaml:"madhab"`
	Estate      EstateSpec   `yaml:"estate"`
	Heirs       types.Counts `yaml:"heirs"`
	Expect      Expectation  `yaml:"expect"`
}

// EstateSpec holds amounts as decimal strings so YAML never rounds them.
type EstateSpec struct {
	Total   string `yaml:"total"`
	Funeral string `yaml:"funeral,omitempty"`
	Debts   string `yaml:"debts,omitempty"`
	Will    string `yaml:"will,omitempty"`
}

// Expectation lists what to check. Zero-valued fields are not checked; when
// Shares is set it must name every share of the result.
type Expectation struct {
	Shares         map[string]string `yaml:"shares,omitempty"`
	Amounts        map[string]string `yaml:"amounts,omitempty"`
	Asl            int64             `yaml:"asl,omitempty"`
	FinalBase      int64             `yaml:"final_base,omitempty"`
	Awl            *bool             `yaml:"awl,omitempty"`
	Radd           *bool             `yaml:"radd,omitempty"`
	BloodRelatives *bool             `yaml:"blood_relatives,omitempty"`
	SpecialCases   []string          `yaml:"special_cases,omitempty"`
	Blocked        []string          `yaml:"blocked,omitempty"`
	Error          string            `yaml:"error,omitempty"`
}

// Result captures the outcome of one scenario under one madhab.
type Result struct {
	ScenarioID string   `json:"scenario_id" yaml:"scenario_id"`
	Category   string   `json:"category" yaml:"category"`
	Madhab     string   `json:"madhab" yaml:"madhab"`
	Success    bool     `json:"success" yaml:"success"`
	Failures   []string `json:"failures,omitempty" yaml:"failures,omitempty"`
	DurationMs int64    `json:"duration_ms" yaml:"duration_ms"`
}

// Report is one battery run.
type Report struct {
	RunID   string   `json:"run_id" yaml:"run_id"`
	Results []Result `json:"results" yaml:"results"`
	Passed  int      `json:"passed" yaml:"passed"`
	Failed  int      `json:"failed" yaml:"failed"`
}

// OK reports whether every scenario passed.
func (r *Report) OK() bool { return r.Failed == 0 }

// LoadBattery reads a YAML battery file from disk.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBattery(data)
}

// DefaultBattery returns the embedded battery of classical cases.
func DefaultBattery() (*Battery, error) {
	return ParseBattery(defaultBattery)
}

// ParseBattery decodes and validates a battery.
func ParseBattery(data []byte) (*Battery, error) {
	var b Battery
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse battery YAML: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks ids, estates and expectation syntax. Madhabs are left
// alone so a scenario can expect invalid_madhab.
func (b *Battery) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(b.Scenarios))
	for i, s := range b.Scenarios {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("scenario %d: missing id", i))
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("scenario %s: duplicate id", s.ID))
		}
		seen[s.ID] = true
		if _, err := s.Estate.Estate(); err != nil {
			errs = append(errs, fmt.Errorf("scenario %s: %w", s.ID, err))
		}
		for kind, f := range s.Expect.Shares {
			if _, err := types.ParseKind(kind); err != nil {
				errs = append(errs, fmt.Errorf("scenario %s: %w", s.ID, err))
			}
			if _, err := rational.Parse(f); err != nil {
				errs = append(errs, fmt.Errorf("scenario %s: share %s: %w", s.ID, kind, err))
			}
		}
		for kind, a := range s.Expect.Amounts {
			if _, err := types.ParseKind(kind); err != nil {
				errs = append(errs, fmt.Errorf("scenario %s: %w", s.ID, err))
			}
			if _, err := decimal.NewFromString(a); err != nil {
				errs = append(errs, fmt.Errorf("scenario %s: amount %s: %w", s.ID, kind, err))
			}
		}
		for _, kind := range s.Expect.Blocked {
			if _, err := types.ParseKind(kind); err != nil {
				errs = append(errs, fmt.Errorf("scenario %s: %w", s.ID, err))
			}
		}
		switch s.Expect.Error {
		case "", ErrorInvalidMadhab, ErrorNonPositiveNetEstate:
		default:
			errs = append(errs, fmt.Errorf("scenario %s: unknown error kind %q", s.ID, s.Expect.Error))
		}
	}
	return errors.Join(errs...)
}

// Estate parses the amounts, treating blank ones as zero.
func (e EstateSpec) Estate() (types.Estate, error) {
	parse := func(name, v string) (decimal.Decimal, error) {
		if strings.TrimSpace(v) == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("estate %s: %w", name, err)
		}
		return d, nil
	}
	var out types.Estate
	var err error
	if out.Total, err = parse("total", e.Total); err != nil {
		return out, err
	}
	if out.Funeral, err = parse("funeral", e.Funeral); err != nil {
		return out, err
	}
	if out.Debts, err = parse("debts", e.Debts); err != nil {
		return out, err
	}
	if out.Will, err = parse("will", e.Will); err != nil {
		return out, err
	}
	return out, nil
}

// Madhabs expands the scenario's madhab field.
func (s Scenario) Madhabs() []string {
	if strings.EqualFold(strings.TrimSpace(s.Madhab), AllMadhabs) {
		out := make([]string, 0, len(madhab.All))
		for _, id := range madhab.All {
			out = append(out, string(id))
		}
		return out
	}
	return []string{s.Madhab}
}

// Filter keeps the scenarios in one of categories, or all of them when none
// are given.
func (b *Battery) Filter(categories ...string) *Battery {
	if len(categories) == 0 {
		return b
	}
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[strings.ToLower(strings.TrimSpace(c))] = true
	}
	out := &Battery{Version: b.Version}
	for _, s := range b.Scenarios {
		if want[strings.ToLower(s.Category)] {
			out.Scenarios = append(out.Scenarios, s)
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func (b *Battery) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range b.Scenarios {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// RunBattery runs every scenario under each of its madhabs in order. Unlike a
// failed check, a cancelled ctx stops the run and is returned.
func RunBattery(ctx context.Context, b *Battery, calc Calculator) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	if b == nil || len(b.Scenarios) == 0 {
		return report, nil
	}
	log := logging.Get(logging.CategoryBattery).With(zap.String("run_id", report.RunID))

	for _, s := range b.Scenarios {
		estate, err := s.Estate.Estate()
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.ID, err)
		}
		for _, md := range s.Madhabs() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			start := time.Now()
			res, calcErr := calc.Calculate(types.Request{Madhab: md, Estate: estate, Heirs: s.Heirs})
			failures := Check(s.Expect, res, calcErr)

			r := Result{
				ScenarioID: s.ID,
				Category:   s.Category,
				Madhab:     md,
				Success:    len(failures) == 0,
				Failures:   failures,
				DurationMs: time.Since(start).Milliseconds(),
			}
			if r.Success {
				report.Passed++
			} else {
				report.Failed++
				log.Debug("scenario failed",
					zap.String("scenario", s.ID),
					zap.String("madhab", md),
					zap.Strings("failures", failures))
			}
			report.Results = append(report.Results, r)
		}
	}

	log.Debug("battery complete", zap.Int("passed", report.Passed), zap.Int("failed", report.Failed))
	return report, nil
}

// Check compares one calculation against an expectation and returns one line
// per mismatch.
func Check(want Expectation, res *types.Result, calcErr error) []string {
	if want.Error != "" {
		return checkError(want.Error, calcErr)
	}
	if calcErr != nil {
		return []string{fmt.Sprintf("unexpected error: %v", calcErr)}
	}

	var out []string
	failf := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	if len(want.Shares) > 0 {
		for _, kind := range sortedKeys(want.Shares) {
			k, _ := types.ParseKind(kind)
			wantF, _ := rational.Parse(want.Shares[kind])
			got, ok := res.Share(k)
			switch {
			case !ok:
				failf("%s: no share, want %s", kind, wantF)
			case !got.Fraction.Equal(wantF):
				failf("%s: share %s, want %s", kind, got.Fraction, wantF)
			}
		}
		for _, s := range res.Shares {
			if _, ok := want.Shares[s.Kind.String()]; !ok {
				failf("%s: unexpected share %s", s.Kind, s.Fraction)
			}
		}
	}
	for _, kind := range sortedKeys(want.Amounts) {
		k, _ := types.ParseKind(kind)
		wantA, _ := decimal.NewFromString(want.Amounts[kind])
		got, ok := res.Share(k)
		switch {
		case !ok:
			failf("%s: no share, want amount %s", kind, wantA)
		case !got.Amount.Equal(wantA):
			failf("%s: amount %s, want %s", kind, got.Amount, wantA)
		}
	}
	if want.Asl != 0 && res.Asl != want.Asl {
		failf("asl %d, want %d", res.Asl, want.Asl)
	}
	if want.FinalBase != 0 && res.FinalBase != want.FinalBase {
		failf("final base %d, want %d", res.FinalBase, want.FinalBase)
	}
	checkFlag := func(name string, want *bool, got bool) {
		if want != nil && *want != got {
			failf("%s %t, want %t", name, got, *want)
		}
	}
	checkFlag("awl", want.Awl, res.AwlApplied)
	checkFlag("radd", want.Radd, res.RaddApplied)
	checkFlag("blood relatives", want.BloodRelatives, res.BloodRelativesApplied)
	for _, sc := range want.SpecialCases {
		if !res.HasSpecialCase(types.SpecialCaseKind(sc)) {
			failf("special case %s did not fire", sc)
		}
	}
	for _, kind := range want.Blocked {
		k, _ := types.ParseKind(kind)
		if !res.IsBlocked(k) {
			failf("%s was not blocked", kind)
		}
	}
	return out
}

func checkError(want string, err error) []string {
	if err == nil {
		return []string{fmt.Sprintf("expected error %s, got a result", want)}
	}
	var target error
	switch want {
	case ErrorInvalidMadhab:
		target = types.ErrInvalidMadhab
	case ErrorNonPositiveNetEstate:
		target = types.ErrNonPositiveNetEstate
	}
	if !errors.Is(err, target) {
		return []string{fmt.Sprintf("error %v, want %s", err, want)}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
