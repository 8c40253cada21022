// Package parser converts raw CSV exports into trade candidates.
//
// Two shapes are accepted: a generic journal export with one data row per
// trade, and a brokerage options ledger with one row per leg transaction
// (see options.go). Row-level data-quality problems never abort a file;
// unusable rows are dropped and parsing continues.
package parser

import (
	"strconv"
	"strings"
	"time"

	"tradelog/internal/errors"
	"tradelog/internal/models"
)

const dateLayout = "2006-01-02"

// Parse parses raw CSV text into trade candidates, preserving file order
// for the generic format. A file with a header but no data rows yields an
// empty result and no error; structurally unusable input (no non-blank
// lines, or a header with no named columns) returns ErrEmptyInput.
func Parse(text string) ([]models.TradeCandidate, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, errors.ErrEmptyInput
	}
	if len(lines) < 2 {
		return nil, nil
	}

	headers := splitFields(strings.ToLower(lines[0]))
	named := false
	for _, h := range headers {
		if h != "" {
			named = true
			break
		}
	}
	if !named {
		return nil, errors.ErrEmptyInput
	}

	if isOptionsLedger(headers) {
		return parseOptionsLedger(headers, lines[1:]), nil
	}
	return parseGeneric(headers, lines[1:]), nil
}

// isOptionsLedger reports whether the header set identifies a brokerage
// options activity export.
func isOptionsLedger(headers []string) bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[h] = true
	}
	return set["activity date"] && set["trans code"]
}

// splitFields tokenizes one CSV line. A double quote toggles in-quote
// state, so commas inside quoted fields are literal; the quote characters
// themselves are not emitted. Fields are whitespace-trimmed.
func splitFields(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))
	return fields
}

// rowMap zips a data line against the header names. Extra values are
// ignored; missing values read as empty.
func rowMap(headers []string, line string) map[string]string {
	values := splitFields(line)
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = values[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

// field returns the first non-empty value among the accepted header
// spellings of a logical field.
func field(row map[string]string, aliases ...string) string {
	for _, a := range aliases {
		if v := row[a]; v != "" {
			return v
		}
	}
	return ""
}

func parseGeneric(headers []string, lines []string) []models.TradeCandidate {
	var candidates []models.TradeCandidate
	for _, line := range lines {
		row := rowMap(headers, line)

		dateOpen, okOpen := parseDate(field(row, "date_open", "dateopen", "date open"))
		dateClose, okClose := parseDate(field(row, "date_close", "dateclose", "date close"))
		if !okOpen || !okClose {
			// Rows without both dates carry no usable trade.
			continue
		}

		candidates = append(candidates, models.TradeCandidate{
			Symbol:      strings.ToUpper(field(row, "symbol", "ticker")),
			Side:        models.ParseSide(strings.ToUpper(field(row, "side"))),
			Qty:         parseFloat(field(row, "qty", "quantity")),
			EntryPrice:  parseFloat(field(row, "entry_price", "entryprice", "entry")),
			ExitPrice:   parseFloat(field(row, "exit_price", "exitprice", "exit")),
			Fees:        parseFloat(field(row, "fees", "commission")),
			DateOpen:    dateOpen,
			TimeOpen:    optional(field(row, "time_open", "timeopen", "time open")),
			DateClose:   dateClose,
			TimeClose:   optional(field(row, "time_close", "timeclose", "time close")),
			StrategyTag: optional(field(row, "strategy_tag", "strategy", "tag")),
			Notes:       optional(field(row, "notes")),
		})
	}
	return candidates
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseFloat parses a numeric field, defaulting to 0 when absent or
// unparsable.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// optional maps an empty string to nil, keeping "absent" distinguishable
// from "empty string provided" downstream.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
