package models

import (
	"regexp"
	"strings"
)

// Card brand identifiers, lower-case as BlueSnap card types are normalised.
const (
	BrandVisa               = "visa"
	BrandMastercard         = "mastercard"
	BrandDiscover           = "discover"
	BrandAmex               = "amex"
	BrandDinersClub         = "diners_club"
	BrandJCB                = "jcb"
	BrandSwitch             = "switch"
	BrandSolo               = "solo"
	BrandDankort            = "dankort"
	BrandMaestro            = "maestro"
	BrandForbrugsforeningen = "forbrugsforeningen"
	BrandLaser              = "laser"
)

type brandPattern struct {
	brand   string
	pattern *regexp.Regexp
}

// Checked in order; the first match wins.
var brandPatterns = []brandPattern{
	{BrandVisa, regexp.MustCompile(`^4\d{12}(\d{3})?$`)},
	{BrandMastercard, regexp.MustCompile(`^(5[1-5]\d{4}|677189)\d{10}$|^2(?:2(?:2[1-9]|[3-9]\d)|[3-6]\d\d|7(?:[01]\d|20))\d{12}$`)},
	{BrandDiscover, regexp.MustCompile(`^(6011|65\d{2}|64[4-9]\d)\d{12}|(62\d{14})$`)},
	{BrandAmex, regexp.MustCompile(`^3[47]\d{13}$`)},
	{BrandDinersClub, regexp.MustCompile(`^3(0[0-5]|[68]\d)\d{11}$`)},
	{BrandJCB, regexp.MustCompile(`^35(28|29|[3-8]\d)\d{12}$`)},
	{BrandSwitch, regexp.MustCompile(`^6759\d{12}(\d{2,3})?$`)},
	{BrandSolo, regexp.MustCompile(`^6767\d{12}(\d{2,3})?$`)},
	{BrandDankort, regexp.MustCompile(`^5019\d{12}$`)},
	{BrandMaestro, regexp.MustCompile(`^(5[06-8]|6\d)\d{10,17}$`)},
	{BrandForbrugsforeningen, regexp.MustCompile(`^600722\d{10}$`)},
	{BrandLaser, regexp.MustCompile(`^(6304|6706|6709|6771)\d{8}(\d{4}|\d{6,7})?$`)},
}

var nonDigits = regexp.MustCompile(`\D`)

// CreditCard carries the card and contact details attached to a transaction.
// BlueSnap only ever returns the last four digits in Number.
type CreditCard struct {
	Number      string
	ExpiryMonth int
	ExpiryYear  int
	FirstName   string
	LastName    string
	Email       string
	State       string
	Country     string
	Postcode    string

	brand string
}

// Brand returns the explicit brand if one was set, otherwise the brand
// derived from Number, otherwise "".
func (c *CreditCard) Brand() string {
	if c.brand != "" {
		return c.brand
	}
	number := nonDigits.ReplaceAllString(c.Number, "")
	for _, bp := range brandPatterns {
		if bp.brand == BrandLaser && strings.HasPrefix(number, "677189") {
			continue
		}
		if bp.pattern.MatchString(number) {
			return bp.brand
		}
	}
	return ""
}

// SetBrand overrides brand derivation.
func (c *CreditCard) SetBrand(brand string) {
	c.brand = brand
}

// NumberLastFour returns the last four digits of Number.
func (c *CreditCard) NumberLastFour() string {
	number := nonDigits.ReplaceAllString(c.Number, "")
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

// Name joins first and last name.
func (c *CreditCard) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
