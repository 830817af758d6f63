package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  RecordType = "income"
	Expense RecordType = "expense"
)

const (
	CategoryFood Category = "food"
	CategoryCar  Category = "car"
	CategoryRent Category = "rent"
)

type (
	// RecordType distinguishes money coming in from money going out.
	RecordType string

	// Category is the closed set of spending categories a record may carry.
	Category string

	// Record is a single financial entry as stored by the API service.
	Record struct {
		ID          int64           `json:"id"`
		Name        string          `json:"name"`
		Description *string         `json:"description"`
		Category    *Category       `json:"category"`
		Type        RecordType      `json:"record_type"`
		Amount      decimal.Decimal `json:"sum"`
		CreatedAt   time.Time       `json:"created_at"`
		UpdatedAt   time.Time       `json:"updated_at"`
	}
)

var (
	ErrInvalidRecordType = errors.New("invalid record type")
	ErrInvalidCategory   = errors.New("invalid category")
)

// ParseRecordType validates a wire value into a RecordType.
func ParseRecordType(s string) (RecordType, error) {
	switch RecordType(s) {
	case Income, Expense:
		return RecordType(s), nil
	default:
		return "", ErrInvalidRecordType
	}
}

// ParseCategory validates a wire value into a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFood, CategoryCar, CategoryRent:
		return Category(s), nil
	default:
		return "", ErrInvalidCategory
	}
}

// RecordTypes lists the valid record types in display order.
func RecordTypes() []RecordType {
	return []RecordType{Income, Expense}
}

// Categories lists the valid categories in display order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryCar, CategoryRent}
}
