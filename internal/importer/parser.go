package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/spendwise/internal/encoding"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// Parser reads bank CSV exports and produces transaction params. The layout
// is auto-detected by matching column headers against known profiles.
type Parser struct {
	family string
}

// NewParser restricts detection to one profile family. FamilyAuto tries all.
func NewParser(family string) *Parser {
	return &Parser{family: family}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("decoding statement", "charset", charset, "family", p.family)

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffSeparator(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := p.detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("%w: expected date, label and amount columns", ErrUnknownFormat)
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// sniffSeparator picks ';' when it outnumbers ',' on the first lines.
func sniffSeparator(data []byte) rune {
	lines := bytes.SplitN(data, []byte("\n"), 20)

	var semis, commas int
	for _, line := range lines {
		semis += bytes.Count(line, []byte(";"))
		commas += bytes.Count(line, []byte(","))
	}

	if semis > commas {
		return ';'
	}

	return ','
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) find(aliases []string) (int, bool) {
	for _, a := range aliases {
		if i, ok := c[a]; ok {
			return i, true
		}
	}

	return -1, false
}

func (c colIndex) lookup(aliases []string) int {
	i, _ := c.find(aliases)
	return i
}

func (p *Parser) detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if p.family != FamilyAuto && profiles[i].Family != p.family {
				continue
			}

			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, aliases := range p.requiredCols() {
		if _, ok := cols.find(aliases); !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// firstRow is the 0-based index of the first data row, used for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, firstRow int) ([]transaction.CreateParams, error) {
	dateIdx := cols.lookup(p.DateCols)
	labelIdx := cols.lookup(p.LabelCols)
	categoryIdx := cols.lookup(p.CategoryCols)
	typeIdx := cols.lookup(p.TypeCols)

	var txs []transaction.CreateParams

	for i, row := range rows {
		rowNum := firstRow + i + 1

		date, ok := parseDate(row, dateIdx, p.DateLayouts)
		if !ok {
			continue
		}

		label := cellValue(row, labelIdx)
		if label == "" {
			return nil, fmt.Errorf("row %d: missing label", rowNum)
		}

		amount, txType, ok := parseRowAmount(p, cols, row)
		if !ok {
			continue
		}

		if t := finance.Type(strings.ToLower(cellValue(row, typeIdx))); t.Valid() {
			txType = t
		}

		txs = append(txs, transaction.CreateParams{
			Type:       txType,
			Label:      label,
			Category:   cellValue(row, categoryIdx),
			Amount:     amount,
			OccurredAt: &date,
		})
	}

	return txs, nil
}

// parseDate returns false for empty or unparseable cells such as footers.
func parseDate(row []string, idx int, layouts []string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseRowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, finance.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(cellValue(row, cols.lookup(p.AmountCols)), p.DecimalComma)
	case amountSplit:
		return parseSplitAmount(
			cellValue(row, cols.lookup(p.DebitCols)),
			cellValue(row, cols.lookup(p.CreditCols)),
			p.DecimalComma,
		)
	}

	return decimal.Zero, "", false
}

// parseSingleAmount handles one signed column. Negative values are expenses.
func parseSingleAmount(s string, decimalComma bool) (decimal.Decimal, finance.Type, bool) {
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseAmount(s, decimalComma)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if d.IsNegative() {
		return d.Neg(), finance.TypeExpense, true
	}

	return d, finance.TypeIncome, true
}

// parseSplitAmount handles separate debit and credit columns.
func parseSplitAmount(debit, credit string, decimalComma bool) (decimal.Decimal, finance.Type, bool) {
	if debit != "" {
		d, err := parseAmount(debit, decimalComma)
		if err == nil && !d.IsZero() {
			return d.Abs(), finance.TypeExpense, true
		}
	}

	if credit != "" {
		d, err := parseAmount(credit, decimalComma)
		if err == nil && !d.IsZero() {
			return d.Abs(), finance.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
