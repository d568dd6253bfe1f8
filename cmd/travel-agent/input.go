package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ynakazat11/travel-agent/internal/display"
	"github.com/ynakazat11/travel-agent/internal/travel"
)

// lineReader wraps stdin with prompt/default semantics. ok is false once
// the stream is closed (Ctrl-D), which every caller treats as "stop asking".
type lineReader struct {
	scanner *bufio.Scanner
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r)}
}

func (l *lineReader) ask(prompt, defaultValue string) (string, bool) {
	fmt.Print(prompt)
	if !l.scanner.Scan() {
		return "", false
	}
	line := strings.TrimSpace(l.scanner.Text())
	if line == "" {
		return defaultValue, true
	}
	return line, true
}

// askCount reads a non-negative integer, tolerating commas and spaces.
func (l *lineReader) askCount(prompt string) (int, bool) {
	for {
		raw, ok := l.ask(prompt, "0")
		if !ok {
			return 0, false
		}
		cleaned := strings.NewReplacer(",", "", " ", "").Replace(raw)
		value, err := strconv.Atoi(cleaned)
		if err != nil {
			fmt.Println("  Please enter a number (e.g. 75000).")
			continue
		}
		if value < 0 {
			fmt.Println("  Must be 0 or greater.")
			continue
		}
		return value, true
	}
}

var issuerLabels = map[travel.Issuer]string{
	travel.IssuerChase:      "Chase Ultimate Rewards (UR)",
	travel.IssuerAmex:       "Amex Membership Rewards (MR)",
	travel.IssuerCiti:       "Citi ThankYou Points (TY)",
	travel.IssuerCapitalOne: "Capital One Miles",
	travel.IssuerBilt:       "Bilt Rewards",
}

// promptBalances collects balances for all five issuers, re-prompting until
// the user confirms the portfolio table.
func (a *app) promptBalances() ([]travel.PointsBalance, error) {
	fmt.Println("\nLet's start by entering your current points balances.")
	fmt.Println("Enter 0 if you don't hold that currency.")
	fmt.Println()

	for {
		balances := make([]travel.PointsBalance, 0, len(travel.Issuers))
		for _, issuer := range travel.Issuers {
			value, ok := a.input.askCount(fmt.Sprintf("  %s: ", issuerLabels[issuer]))
			if !ok {
				return nil, io.EOF
			}
			balances = append(balances, travel.PointsBalance{
				Issuer:  issuer,
				Program: issuer.Program(),
				Balance: value,
			})
		}

		a.render(display.Portfolio(balances))
		answer, ok := a.input.ask("Confirm balances? [Y/n] ", "y")
		if !ok {
			return nil, io.EOF
		}
		if !strings.HasPrefix(strings.ToLower(answer), "n") {
			return balances, nil
		}
		fmt.Println("\nOK, let's try again.")
	}
}

// promptPlanSelection asks for a 1-based plan number or F to fine-tune.
// Returns a 0-based index.
func (a *app) promptPlanSelection(numPlans int) (index int, fineTune bool, ok bool) {
	fmt.Println("Select a plan number to finalize, or F to fine-tune:")
	raw, ok := a.input.ask(fmt.Sprintf("Plan [1-%d] or [F]ine-tune: ", numPlans), "1")
	if !ok {
		return 0, false, false
	}
	if strings.EqualFold(raw, "f") {
		idxRaw, ok := a.input.ask(fmt.Sprintf("Which plan to fine-tune? [1-%d]: ", numPlans), "1")
		if !ok {
			return 0, false, false
		}
		return clampPlanIndex(idxRaw, numPlans), true, true
	}
	return clampPlanIndex(raw, numPlans), false, true
}

func clampPlanIndex(raw string, numPlans int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 || value > numPlans {
		return 0
	}
	return value - 1
}

// promptAlternative asks for a 0-based working-set index, or S to skip.
func (a *app) promptAlternative(numItems int, kind string) (int, bool) {
	raw, ok := a.input.ask(fmt.Sprintf("Pick a %s number to swap in (or [S]kip): ", kind), "s")
	if !ok || strings.EqualFold(raw, "s") {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 || value >= numItems {
		return 0, false
	}
	return value, true
}
