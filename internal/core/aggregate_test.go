package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func rec(rt RecordType, amount string) Record {
	return Record{Type: rt, Amount: decimal.RequireFromString(amount)}
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)
	if !totals.Income.IsZero() || !totals.Expense.IsZero() || !totals.Balance.IsZero() {
		t.Errorf("Aggregate(nil) = %+v, want all zero", totals)
	}
}

func TestAggregateMixed(t *testing.T) {
	totals := Aggregate([]Record{
		rec(Income, "100"),
		rec(Expense, "40"),
	})
	if totals.Income.String() != "100" {
		t.Errorf("income = %s, want 100", totals.Income)
	}
	if totals.Expense.String() != "40" {
		t.Errorf("expense = %s, want 40", totals.Expense)
	}
	if totals.Balance.String() != "60" {
		t.Errorf("balance = %s, want 60", totals.Balance)
	}
}

func TestAggregateNoDrift(t *testing.T) {
	// 0.10 a thousand times must be exactly 100, not 99.99999...
	records := make([]Record, 1000)
	for i := range records {
		records[i] = rec(Expense, "0.10")
	}
	totals := Aggregate(records)
	if !totals.Expense.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expense = %s, want exactly 100", totals.Expense)
	}
	if !totals.Balance.Equal(decimal.RequireFromString("-100")) {
		t.Errorf("balance = %s, want exactly -100", totals.Balance)
	}
}

func TestAggregateNegativeBalance(t *testing.T) {
	totals := Aggregate([]Record{
		rec(Income, "12.50"),
		rec(Expense, "20.00"),
		rec(Expense, "5.25"),
	})
	if totals.Balance.String() != "-12.75" {
		t.Errorf("balance = %s, want -12.75", totals.Balance)
	}
}
