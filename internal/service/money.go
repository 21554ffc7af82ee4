package service

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places money columns keep.
const moneyScale = 2

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(moneyScale))
	return n
}

// NumericToDecimal exposes the store-to-service money conversion to the
// HTTP layer.
func NumericToDecimal(n pgtype.Numeric) decimal.Decimal { return numericToDecimal(n) }
