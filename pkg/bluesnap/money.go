package bluesnap

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/kevin07696/bluesnap-gateway/pkg/errors"
)

// defaultMinorUnits applies to currencies missing from currencyMinorUnits.
const defaultMinorUnits = 2

// currencyMinorUnits lists currencies BlueSnap settles that do not use two
// decimal places.
var currencyMinorUnits = map[string]int32{
	"BHD": 3, "BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "IQD": 3, "ISK": 0,
	"JOD": 3, "JPY": 0, "KMF": 0, "KRW": 0, "KWD": 3, "LYD": 3, "OMR": 3,
	"PYG": 0, "RWF": 0, "TND": 3, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
}

// MinorUnits returns the number of decimal places used by currency.
func MinorUnits(currency string) int32 {
	if units, ok := currencyMinorUnits[strings.ToUpper(currency)]; ok {
		return units
	}
	return defaultMinorUnits
}

// FormatAmount validates amount against the precision of currency and
// returns it with exactly that many decimal places. An empty amount is
// returned unchanged.
func FormatAmount(amount, currency string) (string, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "", nil
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", pkgerrors.NewValidationError(ParamAmount,
			fmt.Sprintf("Invalid amount %q: must be a decimal number", amount))
	}
	if d.IsNegative() {
		return "", pkgerrors.NewValidationError(ParamAmount, "A negative amount is not allowed.")
	}

	units := MinorUnits(currency)
	if !d.Equal(d.Truncate(units)) {
		return "", pkgerrors.NewValidationError(ParamAmount, "Amount precision is too high for currency.")
	}
	return d.StringFixed(units), nil
}
