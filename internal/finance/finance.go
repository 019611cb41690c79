package finance

// Type distinguishes money coming in from money going out.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category is one of a fixed closed set of spending buckets.
type Category string

const (
	CategoryFood        Category = "Food"
	CategoryTransport   Category = "Transport"
	CategoryHousing     Category = "Housing"
	CategoryIncome      Category = "Income"
	CategoryShopping    Category = "Shopping"
	CategoryElectronics Category = "Electronics"
	CategoryGeneral     Category = "General"
)

// Uncategorized labels records stored without any category.
const Uncategorized = "Uncategorized"

// Categories lists the closed set in classification precedence order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryIncome,
	CategoryShopping,
	CategoryElectronics,
	CategoryGeneral,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}
