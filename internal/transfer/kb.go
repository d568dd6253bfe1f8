// Package transfer answers "which of my currencies can pay for this award"
// questions from a static knowledge base of transfer partners and point
// valuations.
package transfer

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

//go:embed data/*.json
var defaultData embed.FS

type partnerFile struct {
	Partners []travel.TransferPartner `json:"partners"`
}

type valuationRecord struct {
	Program    travel.Program `json:"program"`
	CPP        string         `json:"cpp"`
	SourceDate string         `json:"source_date"`
}

type valuationFile struct {
	Valuations []valuationRecord `json:"valuations"`
}

// KB is the in-memory transfer knowledge base. It is immutable after Load
// and safe for concurrent reads.
type KB struct {
	bySource   map[travel.Program][]travel.TransferPartner
	valuations map[travel.Program]travel.PointValuation
}

// Load builds the knowledge base from the embedded record sets. When dataDir
// is non-empty and contains transfer_partners.json or point_valuations.json,
// those files replace the corresponding embedded set.
func Load(dataDir string) (*KB, error) {
	partnerBytes, err := readRecordSet(dataDir, "transfer_partners.json")
	if err != nil {
		return nil, err
	}
	valuationBytes, err := readRecordSet(dataDir, "point_valuations.json")
	if err != nil {
		return nil, err
	}

	var pf partnerFile
	if err := json.Unmarshal(partnerBytes, &pf); err != nil {
		return nil, errors.Wrap(err, "parse transfer partners")
	}
	var vf valuationFile
	if err := json.Unmarshal(valuationBytes, &vf); err != nil {
		return nil, errors.Wrap(err, "parse point valuations")
	}

	kb := &KB{
		bySource:   make(map[travel.Program][]travel.TransferPartner),
		valuations: make(map[travel.Program]travel.PointValuation),
	}
	for _, p := range pf.Partners {
		if p.RatioFrom <= 0 || p.RatioTo <= 0 {
			return nil, errors.Errorf("partner %s -> %s has non-positive ratio %d:%d",
				p.SourceProgram, p.DestinationProgram, p.RatioFrom, p.RatioTo)
		}
		kb.bySource[p.SourceProgram] = append(kb.bySource[p.SourceProgram], p)
	}
	for _, v := range vf.Valuations {
		cpp, err := decimal.NewFromString(v.CPP)
		if err != nil {
			return nil, errors.Wrapf(err, "valuation for %s", v.Program)
		}
		kb.valuations[v.Program] = travel.PointValuation{
			Program:    v.Program,
			CPP:        cpp,
			SourceDate: v.SourceDate,
		}
	}
	return kb, nil
}

func readRecordSet(dataDir, name string) ([]byte, error) {
	if dataDir != "" {
		path := filepath.Join(dataDir, name)
		b, err := os.ReadFile(path)
		if err == nil {
			return b, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}
	b, err := defaultData.ReadFile("data/" + name)
	if err != nil {
		return nil, errors.Wrapf(err, "embedded %s", name)
	}
	return b, nil
}

// PartnersFor returns the transfer partners reachable from a source
// currency, in record-set order. The returned slice must not be mutated.
func (kb *KB) PartnersFor(source travel.Program) []travel.TransferPartner {
	return kb.bySource[source]
}

// Partner looks up the single transfer edge from source to destination.
func (kb *KB) Partner(source, destination travel.Program) (travel.TransferPartner, bool) {
	for _, p := range kb.bySource[source] {
		if p.DestinationProgram == destination {
			return p, true
		}
	}
	return travel.TransferPartner{}, false
}

// Valuation returns the published cents-per-point estimate for a program.
func (kb *KB) Valuation(program travel.Program) (travel.PointValuation, bool) {
	v, ok := kb.valuations[program]
	return v, ok
}

// CoverageOption describes one way to pay for an award priced in a loyalty
// program: transfer from the holder's issuer currency, or spend the loyalty
// balance directly when the holder already banks that program.
type CoverageOption struct {
	Issuer            travel.Issuer          `json:"issuer"`
	SourceProgram     travel.Program         `json:"source_program"`
	SourcePointsNeed  int                    `json:"source_points_needed"`
	Balance           int                    `json:"balance"`
	CanCover          bool                   `json:"can_cover"`
	Shortfall         int                    `json:"shortfall"`
	Partner           travel.TransferPartner `json:"partner"`
	TransferTimeHours int                    `json:"transfer_time_hours"`
}

// CoverageOptions evaluates every balance in the wallet against an award
// priced in destProgram. Options that can cover the award sort first, and
// within each group the cheapest source cost wins.
func (kb *KB) CoverageOptions(balances []travel.PointsBalance, destProgram travel.Program, pointsNeeded int) []CoverageOption {
	var opts []CoverageOption
	for _, bal := range balances {
		if bal.Program == destProgram {
			opts = append(opts, CoverageOption{
				Issuer:           bal.Issuer,
				SourceProgram:    bal.Program,
				SourcePointsNeed: pointsNeeded,
				Balance:          bal.Balance,
				CanCover:         bal.Balance >= pointsNeeded,
				Shortfall:        max(0, pointsNeeded-bal.Balance),
				Partner: travel.TransferPartner{
					SourceProgram:      bal.Program,
					DestinationProgram: destProgram,
					RatioFrom:          1,
					RatioTo:            1,
				},
			})
			continue
		}
		p, ok := kb.Partner(bal.Program, destProgram)
		if !ok {
			continue
		}
		need := p.SourcePointsNeeded(pointsNeeded)
		opts = append(opts, CoverageOption{
			Issuer:            bal.Issuer,
			SourceProgram:     bal.Program,
			SourcePointsNeed:  need,
			Balance:           bal.Balance,
			CanCover:          bal.Balance >= need,
			Shortfall:         max(0, need-bal.Balance),
			Partner:           p,
			TransferTimeHours: p.TransferTimeHours,
		})
	}
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].CanCover != opts[j].CanCover {
			return opts[i].CanCover
		}
		return opts[i].SourcePointsNeed < opts[j].SourcePointsNeed
	})
	return opts
}

// CPPOrDefault resolves a program's valuation, falling back to 1.0 cents
// per point when the program has no published estimate.
func (kb *KB) CPPOrDefault(program travel.Program) decimal.Decimal {
	if v, ok := kb.valuations[program]; ok {
		return v.CPP
	}
	return decimal.NewFromInt(1)
}
