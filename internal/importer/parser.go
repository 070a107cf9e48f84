package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

var ErrInvalidCSV = errors.New("invalid entries file")

// columns lists the accepted header names of each field, lower case.
var columns = map[string][]string{
	"date":         {"date", "day"},
	"office":       {"office", "office name", "client"},
	"tea":          {"tea", "tea cups", "chai"},
	"coffee":       {"coffee", "coffee cups"},
	"tea_price":    {"tea_price", "tea price", "tea rate"},
	"coffee_price": {"coffee_price", "coffee price", "coffee rate"},
}

var required = []string{"date", "office", "tea", "coffee", "tea_price", "coffee_price"}

var dateLayouts = []string{time.DateOnly, "02-01-2006", "02/01/2006"}

// Parser reads delivery entries from a spreadsheet export.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns one EntryParams per data row. Offices are referenced by name
// and resolved when the entries are imported.
func (p *Parser) Parse(r io.Reader) ([]ledger.EntryParams, error) {
	utf8r, _, err := DecodeUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	comma, err := sniffComma(br)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv: %v", ErrInvalidCSV, err)
	}

	return parseRows(rows, comma)
}

// ParseFile picks the reader by file extension: .xlsx workbooks or delimited text.
func (p *Parser) ParseFile(name string, r io.Reader) ([]ledger.EntryParams, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return p.ParseXLSX(r)
	}

	return p.Parse(r)
}

func parseRows(rows [][]string, comma rune) ([]ledger.EntryParams, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidCSV)
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var params []ledger.EntryParams

	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}

		e, err := parseRow(cols, row, comma)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrInvalidCSV, i+2, err)
		}

		params = append(params, e)
	}

	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidCSV)
	}

	return params, nil
}

// sniffComma picks ';' when the header line has more semicolons than commas.
func sniffComma(br *bufio.Reader) (rune, error) {
	line, err := br.Peek(br.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("reading header: %w", err)
	}

	if i := strings.IndexByte(string(line), '\n'); i >= 0 {
		line = line[:i]
	}

	if strings.Count(string(line), ";") > strings.Count(string(line), ",") {
		return ';', nil
	}

	return ',', nil
}

type colIndex map[string]int

func mapHeader(header []string) (colIndex, error) {
	cols := make(colIndex)

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))

		for field, aliases := range columns {
			for _, a := range aliases {
				if name == a {
					cols[field] = i
				}
			}
		}
	}

	var missing []string

	for _, field := range required {
		if _, ok := cols[field]; !ok {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrInvalidCSV, strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseRow(cols colIndex, row []string, comma rune) (ledger.EntryParams, error) {
	var (
		e   ledger.EntryParams
		err error
	)

	if e.Date, err = parseDate(cell(row, cols["date"])); err != nil {
		return e, err
	}

	if e.OfficeName = cell(row, cols["office"]); e.OfficeName == "" {
		return e, errors.New("missing office")
	}

	if e.Tea, err = parseCups(cell(row, cols["tea"])); err != nil {
		return e, fmt.Errorf("tea: %w", err)
	}

	if e.Coffee, err = parseCups(cell(row, cols["coffee"])); err != nil {
		return e, fmt.Errorf("coffee: %w", err)
	}

	if e.TeaPrice, err = parsePrice(cell(row, cols["tea_price"]), comma); err != nil {
		return e, fmt.Errorf("tea price: %w", err)
	}

	if e.CoffeePrice, err = parsePrice(cell(row, cols["coffee_price"]), comma); err != nil {
		return e, fmt.Errorf("coffee price: %w", err)
	}

	return e, nil
}

// parseDate normalises the accepted layouts to YYYY-MM-DD.
func parseDate(s string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}

	return "", fmt.Errorf("unrecognised date %q", s)
}

// parseCups requires a value; an empty cell is not read as zero.
func parseCups(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: missing quantity", ledger.ErrMalformedEntry)
	}

	return strconv.Atoi(s)
}

// parsePrice accepts "12.50" and, in semicolon files, "12,50" or "1.234,50".
func parsePrice(s string, comma rune) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: missing price", ledger.ErrMalformedEntry)
	}

	if comma == ';' && strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	return decimal.NewFromString(s)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
