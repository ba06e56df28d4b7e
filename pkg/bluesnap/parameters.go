package bluesnap

import (
	"time"

	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap/models"
	pkgerrors "github.com/kevin07696/bluesnap-gateway/pkg/errors"
	"github.com/kevin07696/bluesnap-gateway/pkg/timeutil"
)

// Parameter names used in validation errors.
const (
	ParamCustomerReference           = "customerReference"
	ParamTransactionReference        = "transactionReference"
	ParamSubscriptionReference       = "subscriptionReference"
	ParamSubscriptionChargeReference = "subscriptionChargeReference"
	ParamStoreReference              = "storeReference"
	ParamPlanReference               = "planReference"
	ParamReturnURL                   = "returnUrl"
	ParamAmount                      = "amount"
	ParamStartTime                   = "startTime"
	ParamEndTime                     = "endTime"
	ParamNextChargeDate              = "nextChargeDate"
	ParamTestMode                    = "testMode"
)

// Parameters is the full set of inputs any BlueSnap operation may use.
// Each operation reads only the fields it needs. Dates must be in the
// gateway zone (see timeutil.GatewayLocation).
type Parameters struct {
	Username string
	Password string
	TestMode bool

	CustomerReference           string
	TransactionReference        string
	SubscriptionReference       string
	SubscriptionChargeReference string
	PlanReference               string
	StoreReference              string

	Amount              string
	Currency            string
	Reason              string
	CancelSubscriptions bool
	TransactionType     string
	ReturnURL           string
	StoreParameters     *models.URLParameterBag

	StartTime      *time.Time
	EndTime        *time.Time
	NextChargeDate *time.Time
}

// has reports whether the named parameter holds a value.
func (p *Parameters) has(name string) bool {
	switch name {
	case ParamCustomerReference:
		return p.CustomerReference != ""
	case ParamTransactionReference:
		return p.TransactionReference != ""
	case ParamSubscriptionReference:
		return p.SubscriptionReference != ""
	case ParamSubscriptionChargeReference:
		return p.SubscriptionChargeReference != ""
	case ParamStoreReference:
		return p.StoreReference != ""
	case ParamPlanReference:
		return p.PlanReference != ""
	case ParamReturnURL:
		return p.ReturnURL != ""
	case ParamAmount:
		return p.Amount != ""
	case ParamStartTime:
		return p.StartTime != nil
	case ParamEndTime:
		return p.EndTime != nil
	case ParamNextChargeDate:
		return p.NextChargeDate != nil
	}
	return false
}

// requireAll returns the error for the first missing name, in order.
func (p *Parameters) requireAll(names ...string) error {
	for _, name := range names {
		if !p.has(name) {
			return pkgerrors.NewRequiredError(name)
		}
	}
	return nil
}

// checkZones rejects any date outside the gateway zone.
func (p *Parameters) checkZones() error {
	dates := []struct {
		name string
		t    *time.Time
	}{
		{ParamStartTime, p.StartTime},
		{ParamEndTime, p.EndTime},
		{ParamNextChargeDate, p.NextChargeDate},
	}
	for _, d := range dates {
		if err := checkZone(d.name, d.t); err != nil {
			return err
		}
	}
	return nil
}

func checkZone(name string, t *time.Time) error {
	if t != nil && !timeutil.InGatewayZone(*t) {
		return pkgerrors.NewTimeZoneError(name)
	}
	return nil
}

// merge overlays the caller's parameters on gateway defaults. Credentials
// fall back to the defaults when empty; test mode is on if either enables it.
func (p Parameters) merge(defaults Parameters) Parameters {
	if p.Username == "" {
		p.Username = defaults.Username
	}
	if p.Password == "" {
		p.Password = defaults.Password
	}
	p.TestMode = p.TestMode || defaults.TestMode
	return p
}
