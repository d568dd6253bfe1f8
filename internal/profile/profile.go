// Package profile persists a user's points balances and stable travel
// preferences between sessions as a human-editable YAML document.
package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

// DefaultPath returns the conventional on-disk location of the profile.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "travel-agent", "profile.yaml")
	}
	return filepath.Join(home, ".config", "travel-agent", "profile.yaml")
}

// Preferences holds the stable subset of travel preferences worth
// remembering across trips. Trip-specific fields (destination, dates)
// are excluded on purpose.
type Preferences struct {
	OriginAirport        string `yaml:"origin_airport"`
	NumTravelers         int    `yaml:"num_travelers"`
	FlightTimePreference string `yaml:"flight_time_preference"`
	AccommodationTier    string `yaml:"accommodation_tier"`
	PointsStrategy       string `yaml:"points_strategy"`
	NonstopPreferred     bool   `yaml:"nonstop_preferred"`
}

// Points holds one balance per card issuer.
type Points struct {
	Chase      int `yaml:"chase"`
	Amex       int `yaml:"amex"`
	Citi       int `yaml:"citi"`
	CapitalOne int `yaml:"capital_one"`
	Bilt       int `yaml:"bilt"`
}

// Profile is the persisted user profile document.
type Profile struct {
	Preferences Preferences `yaml:"preferences"`
	Points      Points      `yaml:"points"`
}

// HasPoints reports whether any issuer balance is positive.
func (p *Profile) HasPoints() bool {
	pts := p.Points
	return pts.Chase > 0 || pts.Amex > 0 || pts.Citi > 0 || pts.CapitalOne > 0 || pts.Bilt > 0
}

// HasPreferences reports whether the stable preferences were ever filled in.
func (p *Profile) HasPreferences() bool {
	return p.Preferences.OriginAirport != ""
}

// Balances expands the per-issuer counts into the canonical balance list,
// including zero balances so callers see all five issuers.
func (p *Profile) Balances() []travel.PointsBalance {
	amounts := map[travel.Issuer]int{
		travel.IssuerChase:      p.Points.Chase,
		travel.IssuerAmex:       p.Points.Amex,
		travel.IssuerCiti:       p.Points.Citi,
		travel.IssuerCapitalOne: p.Points.CapitalOne,
		travel.IssuerBilt:       p.Points.Bilt,
	}
	balances := make([]travel.PointsBalance, 0, len(travel.Issuers))
	for _, issuer := range travel.Issuers {
		balances = append(balances, travel.PointsBalance{
			Issuer:  issuer,
			Program: issuer.Program(),
			Balance: amounts[issuer],
		})
	}
	return balances
}

// TravelPreferences converts the stored preferences into a runtime
// preference set, starting from defaults so invalid or missing enum
// values degrade to sane choices instead of failing the load.
func (p *Profile) TravelPreferences(logger *slog.Logger) travel.TravelPreferences {
	prefs := travel.DefaultPreferences()
	prefs.OriginAirport = p.Preferences.OriginAirport
	prefs.NonstopPreferred = p.Preferences.NonstopPreferred
	if p.Preferences.NumTravelers > 0 {
		prefs.NumTravelers = p.Preferences.NumTravelers
	}
	if v := p.Preferences.FlightTimePreference; v != "" {
		parsed, err := travel.ParseFlightTimePreference(v)
		if err != nil {
			logger.Warn("profile has invalid flight time preference", "value", v)
		} else {
			prefs.FlightTimePreference = parsed
		}
	}
	if v := p.Preferences.AccommodationTier; v != "" {
		parsed, err := travel.ParseAccommodationTier(v)
		if err != nil {
			logger.Warn("profile has invalid accommodation tier", "value", v)
		} else {
			prefs.AccommodationTier = parsed
		}
	}
	if v := p.Preferences.PointsStrategy; v != "" {
		parsed, err := travel.ParsePointsStrategy(v)
		if err != nil {
			logger.Warn("profile has invalid points strategy", "value", v)
		} else {
			prefs.PointsStrategy = parsed
		}
	}
	return prefs
}

// FromSession builds a profile from the balances and preferences of a
// finished planning run, so the next run can start pre-filled.
func FromSession(balances []travel.PointsBalance, prefs travel.TravelPreferences) *Profile {
	p := &Profile{
		Preferences: Preferences{
			OriginAirport:        prefs.OriginAirport,
			NumTravelers:         prefs.NumTravelers,
			FlightTimePreference: string(prefs.FlightTimePreference),
			AccommodationTier:    string(prefs.AccommodationTier),
			PointsStrategy:       string(prefs.PointsStrategy),
			NonstopPreferred:     prefs.NonstopPreferred,
		},
	}
	for _, b := range balances {
		switch b.Issuer {
		case travel.IssuerChase:
			p.Points.Chase = b.Balance
		case travel.IssuerAmex:
			p.Points.Amex = b.Balance
		case travel.IssuerCiti:
			p.Points.Citi = b.Balance
		case travel.IssuerCapitalOne:
			p.Points.CapitalOne = b.Balance
		case travel.IssuerBilt:
			p.Points.Bilt = b.Balance
		}
	}
	return p
}

// Load reads the profile at path. A missing file is not an error: the
// user simply has no profile yet, so Load returns (nil, nil). A file
// that exists but cannot be parsed is treated the same way after a
// logged warning, so a hand-edited typo never blocks startup.
func Load(path string, logger *slog.Logger) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read profile %s", path)
	}
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		logger.Warn("profile is malformed, ignoring it", "path", path, "error", err)
		return nil, nil
	}
	return &p, nil
}

const docTemplate = `# Travel points planner — user profile.
# Edit freely; the planner re-reads this file on every run.

preferences:
  origin_airport: %q
  num_travelers: %d
  flight_time_preference: %q # morning | afternoon | evening | any
  accommodation_tier: %q # budget | midrange | upscale | luxury
  points_strategy: %q # POINTS_ONLY | MIXED_OK
  nonstop_preferred: %t

points:
  chase: %d
  amex: %d
  citi: %d
  capital_one: %d
  bilt: %d
`

// Save writes the profile as a commented YAML document, creating parent
// directories as needed.
func Save(p *Profile, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create profile directory for %s", path)
	}
	doc := renderDocument(p)
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		return errors.Wrapf(err, "write profile %s", path)
	}
	return nil
}

func renderDocument(p *Profile) string {
	return fmt.Sprintf(docTemplate,
		p.Preferences.OriginAirport,
		p.Preferences.NumTravelers,
		p.Preferences.FlightTimePreference,
		p.Preferences.AccommodationTier,
		p.Preferences.PointsStrategy,
		p.Preferences.NonstopPreferred,
		p.Points.Chase,
		p.Points.Amex,
		p.Points.Citi,
		p.Points.CapitalOne,
		p.Points.Bilt,
	)
}
