package core

import "github.com/shopspring/decimal"

// Totals holds the income/expense sums and their balance for one
// record set. Summation is decimal to avoid float drift across many
// small amounts.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Aggregate computes totals over exactly the records passed in,
// typically the current page. An empty input yields all-zero totals.
func Aggregate(records []Record) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for _, r := range records {
		switch r.Type {
		case Income:
			income = income.Add(r.Amount)
		case Expense:
			expense = expense.Add(r.Amount)
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}
