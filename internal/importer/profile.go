package importer

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column, e.g. "amount" with "-10.00".
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a CSV statement. Column names are
// matched case-insensitively and each field accepts several aliases.
type Profile struct {
	Name       string
	Family     string
	DateCols   []string
	LabelCols  []string
	AmountMode amountMode
	AmountCols []string // amountSingle
	DebitCols  []string // amountSplit
	CreditCols []string // amountSplit

	// Optional columns copied through when present.
	CategoryCols []string
	TypeCols     []string

	DateLayouts  []string
	DecimalComma bool
}

const (
	FamilyAuto    = ""
	FamilyGeneric = "generic"
	FamilyCGD     = "cgd"
)

var isoLayouts = []string{"2006-01-02", "2006-01-02T15:04:05Z07:00", "2006/01/02", "02/01/2006", "02.01.2006"}

// profiles is tried in order during auto-detection. More specific layouts
// come first to avoid false matches.
var profiles = []Profile{
	{
		Name:        "cgd-cartao",
		Family:      FamilyCGD,
		DateCols:    []string{"data"},
		LabelCols:   []string{"descrição"},
		AmountMode:  amountSplit,
		DebitCols:   []string{"débito"},
		CreditCols:  []string{"crédito"},
		DateLayouts: []string{"02-01-2006"},

		DecimalComma: true,
	},
	{
		Name:        "cgd-extrato",
		Family:      FamilyCGD,
		DateCols:    []string{"data mov."},
		LabelCols:   []string{"descrição"},
		AmountCols:  []string{"movimento"},
		DateLayouts: []string{"02-01-2006"},

		DecimalComma: true,
	},
	{
		Name:        "cgd-conta",
		Family:      FamilyCGD,
		DateCols:    []string{"data mov."},
		LabelCols:   []string{"descrição"},
		AmountCols:  []string{"montante"},
		DateLayouts: []string{"02-01-2006"},

		DecimalComma: true,
	},
	{
		Name:         "split",
		Family:       FamilyGeneric,
		DateCols:     []string{"date", "occurred_at", "posted"},
		LabelCols:    []string{"label", "description", "memo", "payee", "details"},
		AmountMode:   amountSplit,
		DebitCols:    []string{"debit", "withdrawal", "money out"},
		CreditCols:   []string{"credit", "deposit", "money in"},
		CategoryCols: []string{"category"},
		DateLayouts:  isoLayouts,
	},
	{
		Name:         "generic",
		Family:       FamilyGeneric,
		DateCols:     []string{"date", "occurred_at", "posted"},
		LabelCols:    []string{"label", "description", "memo", "payee", "details"},
		AmountCols:   []string{"amount", "value"},
		CategoryCols: []string{"category"},
		TypeCols:     []string{"type"},
		DateLayouts:  isoLayouts,
	},
}

// requiredCols returns the alias groups that must all be present for this
// profile to match.
func (p Profile) requiredCols() [][]string {
	cols := [][]string{p.DateCols, p.LabelCols}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCols)
	case amountSplit:
		cols = append(cols, p.DebitCols, p.CreditCols)
	}

	return cols
}
