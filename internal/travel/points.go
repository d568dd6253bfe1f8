// Package travel holds the domain model for award-trip planning: loyalty
// currencies, transfer partners, point valuations, traveler preferences, and
// composed trip plans. It has no I/O and no dependencies on the agent or the
// search provider.
package travel

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Issuer identifies an entity that issues transferable loyalty currency.
type Issuer string

const (
	IssuerChase      Issuer = "chase"
	IssuerAmex       Issuer = "amex"
	IssuerCiti       Issuer = "citi"
	IssuerCapitalOne Issuer = "capital_one"
	IssuerBilt       Issuer = "bilt"
)

// Issuers lists every issuer in canonical order.
var Issuers = []Issuer{IssuerChase, IssuerAmex, IssuerCiti, IssuerCapitalOne, IssuerBilt}

// Program identifies a loyalty ledger: either a transferable issuer currency
// or a non-transferable airline/hotel program.
type Program string

const (
	// Issuer currencies.
	ProgramChaseUR         Program = "chase_ur"
	ProgramAmexMR          Program = "amex_mr"
	ProgramCitiTY          Program = "citi_ty"
	ProgramCapitalOneMiles Program = "capital_one_miles"
	ProgramBiltRewards     Program = "bilt_rewards"

	// Airline programs.
	ProgramUnitedMileagePlus  Program = "united_mileageplus"
	ProgramAmericanAAdvantage Program = "american_airlines_aadvantage"
	ProgramDeltaSkyMiles      Program = "delta_skymiles"
	ProgramSouthwestRR        Program = "southwest_rapid_rewards"
	ProgramAlaskaMileagePlan  Program = "alaska_mileage_plan"
	ProgramJetBlueTrueBlue    Program = "jetblue_trueblue"
	ProgramBritishAvios       Program = "british_airways_avios"
	ProgramFlyingBlue         Program = "air_france_flying_blue"
	ProgramAeroplan           Program = "air_canada_aeroplan"
	ProgramKrisFlyer          Program = "singapore_krisflyer"
	ProgramSkywards           Program = "emirates_skywards"
	ProgramMilesAndSmiles     Program = "turkish_miles_smiles"
	ProgramVirginFlyingClub   Program = "virgin_atlantic_flying_club"
	ProgramAsiaMiles          Program = "cathay_asia_miles"
	ProgramLifeMiles          Program = "avianca_lifemiles"
	ProgramRoyalOrchidPlus    Program = "thai_airways_royal_orchid"

	// Hotel programs.
	ProgramWorldOfHyatt     Program = "world_of_hyatt"
	ProgramMarriottBonvoy   Program = "marriott_bonvoy"
	ProgramHiltonHonors     Program = "hilton_honors"
	ProgramIHGRewards       Program = "ihg_rewards"
	ProgramWyndhamRewards   Program = "wyndham_rewards"
	ProgramChoicePrivileges Program = "choice_privileges"
)

// issuerProgram is the fixed, process-wide mapping from issuer to its one
// proprietary currency program.
var issuerProgram = map[Issuer]Program{
	IssuerChase:      ProgramChaseUR,
	IssuerAmex:       ProgramAmexMR,
	IssuerCiti:       ProgramCitiTY,
	IssuerCapitalOne: ProgramCapitalOneMiles,
	IssuerBilt:       ProgramBiltRewards,
}

// Program returns the currency program owned by the issuer.
func (i Issuer) Program() Program {
	return issuerProgram[i]
}

// Valid reports whether i is one of the five known issuers.
func (i Issuer) Valid() bool {
	_, ok := issuerProgram[i]
	return ok
}

// ParseIssuer converts a string to an Issuer, rejecting unknown values.
func ParseIssuer(s string) (Issuer, error) {
	i := Issuer(s)
	if !i.Valid() {
		return "", errors.Errorf("unknown issuer: %q", s)
	}
	return i, nil
}

// IssuerForProgram returns the issuer that owns a transferable currency
// program, or false for airline/hotel programs.
func IssuerForProgram(p Program) (Issuer, bool) {
	for issuer, prog := range issuerProgram {
		if prog == p {
			return issuer, true
		}
	}
	return "", false
}

var knownPrograms = map[Program]struct{}{
	ProgramChaseUR: {}, ProgramAmexMR: {}, ProgramCitiTY: {},
	ProgramCapitalOneMiles: {}, ProgramBiltRewards: {},
	ProgramUnitedMileagePlus: {}, ProgramAmericanAAdvantage: {},
	ProgramDeltaSkyMiles: {}, ProgramSouthwestRR: {}, ProgramAlaskaMileagePlan: {},
	ProgramJetBlueTrueBlue: {}, ProgramBritishAvios: {}, ProgramFlyingBlue: {},
	ProgramAeroplan: {}, ProgramKrisFlyer: {}, ProgramSkywards: {},
	ProgramMilesAndSmiles: {}, ProgramVirginFlyingClub: {}, ProgramAsiaMiles: {},
	ProgramLifeMiles: {}, ProgramRoyalOrchidPlus: {},
	ProgramWorldOfHyatt: {}, ProgramMarriottBonvoy: {}, ProgramHiltonHonors: {},
	ProgramIHGRewards: {}, ProgramWyndhamRewards: {}, ProgramChoicePrivileges: {},
}

// ParseProgram converts a string to a Program, rejecting unknown values.
func ParseProgram(s string) (Program, error) {
	p := Program(s)
	if _, ok := knownPrograms[p]; !ok {
		return "", errors.Errorf("unknown program: %q", s)
	}
	return p, nil
}

// PointsBalance is one issuer's current transferable balance.
type PointsBalance struct {
	Issuer  Issuer  `json:"issuer"`
	Program Program `json:"program"`
	Balance int     `json:"balance"`
}

// NewPointsBalance builds a balance for an issuer, rejecting negative values.
func NewPointsBalance(issuer Issuer, balance int) (PointsBalance, error) {
	if !issuer.Valid() {
		return PointsBalance{}, errors.Errorf("unknown issuer: %q", issuer)
	}
	if balance < 0 {
		return PointsBalance{}, errors.Errorf("balance must be >= 0, got %d", balance)
	}
	return PointsBalance{Issuer: issuer, Program: issuer.Program(), Balance: balance}, nil
}

// TransferPartner is a declared conversion path from a source currency to a
// destination program at a fixed integer ratio.
type TransferPartner struct {
	SourceProgram      Program `json:"source_program"`
	DestinationProgram Program `json:"destination_program"`
	RatioFrom          int     `json:"ratio_from"`
	RatioTo            int     `json:"ratio_to"`
	TransferTimeHours  int     `json:"transfer_time_hours"`
}

// SourcePointsNeeded computes the source points required to obtain
// destinationPoints in the destination program. Rounding is always ceiling:
// under-transferring would leave the award unbookable.
func (p TransferPartner) SourcePointsNeeded(destinationPoints int) int {
	return (destinationPoints*p.RatioFrom + p.RatioTo - 1) / p.RatioTo
}

// Ratio renders the transfer ratio as "from:to".
func (p TransferPartner) Ratio() string {
	return fmt.Sprintf("%d:%d", p.RatioFrom, p.RatioTo)
}

// PointValuation is the estimated cash value of one point in a program, in
// US cents, with the date the estimate was sourced.
type PointValuation struct {
	Program    Program         `json:"program"`
	CPP        decimal.Decimal `json:"cpp"`
	SourceDate string          `json:"source_date"`
}
