package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap"
	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap/models"
	pkgerrors "github.com/kevin07696/bluesnap-gateway/pkg/errors"
	"github.com/kevin07696/bluesnap-gateway/pkg/ports"
	"github.com/kevin07696/bluesnap-gateway/pkg/resilience"
	"github.com/kevin07696/bluesnap-gateway/pkg/timeutil"
)

// errUnsuccessful is returned after printing a response BlueSnap rejected.
var errUnsuccessful = errors.New("request was not successful")

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"fetch-customer":               {"Fetch a shopper by customer reference", runFetchCustomer},
	"fetch-transaction":            {"Fetch an order with its refunds and chargebacks", runFetchTransaction},
	"fetch-subscription":           {"Fetch a subscription", runFetchSubscription},
	"fetch-subscription-charge":    {"Fetch one charge of a subscription", runFetchSubscriptionCharge},
	"fetch-subscriptions":          {"List a shopper's subscriptions, or active subscriptions in a date range", runFetchSubscriptions},
	"fetch-canceled-subscriptions": {"List subscriptions canceled in a date range", runFetchCanceledSubscriptions},
	"fetch-transactions":           {"List transactions in a date range", runFetchTransactions},
	"update-subscription":          {"Change a subscription's plan, amount or next charge date", runUpdateSubscription},
	"cancel-subscription":          {"Cancel a subscription", runCancelSubscription},
	"reactivate-subscription":      {"Reactivate a canceled subscription", runReactivateSubscription},
	"test-charge-subscription":     {"Run a subscription charge now (sandbox only)", runTestChargeSubscription},
	"refund":                       {"Refund a transaction in full or in part", runRefund},
	"purchase":                     {"Create a hosted checkout redirect URL", runPurchase},
	"decrypt-return-url":           {"Decrypt the parameters of a hosted checkout return URL", runDecryptReturnURL},
	"parse-ipn":                    {"Parse an IPN callback URL or query string", runParseIPN},
}

// lookupRetryPolicy retries GET lookups that failed in transport. Validation
// failures and unsuccessful responses are final.
func lookupRetryPolicy(logger ports.Logger) resilience.RetryPolicy {
	return resilience.RetryPolicy{
		Backoff: resilience.DefaultExponentialBackoff(),
		Retryable: func(err error) bool {
			return !pkgerrors.IsValidationError(err) &&
				!errors.Is(err, errUnsuccessful) &&
				!errors.Is(err, context.Canceled)
		},
		OnRetry: func(attempt int, err error) {
			logger.Warn("Retrying BlueSnap lookup",
				ports.Int("attempt", attempt+1),
				ports.Err(err),
			)
		},
	}
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// parseDate reads MM/DD/YYYY as midnight in the gateway zone.
func parseDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := timeutil.ParseDate(timeutil.ReportDateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s %q, want MM/DD/YYYY: %w", name, value, err)
	}
	return &t, nil
}

// sendExtended sends req, retrying lookups per the app policy, and prints
// the response.
func (a *app) sendExtended(ctx context.Context, req *bluesnap.ExtendedRequest, retry bool) error {
	var resp *bluesnap.ExtendedResponse
	send := func(ctx context.Context) error {
		var err error
		resp, err = req.Send(ctx)
		return err
	}

	var err error
	if retry {
		err = resilience.Retry(ctx, a.retry, send)
	} else {
		err = send(ctx)
	}
	if err != nil {
		return err
	}
	return a.print(newExtendedView(resp), resp.IsSuccessful())
}

func (a *app) sendReport(ctx context.Context, req *bluesnap.ReportingRequest, render func(*bluesnap.ReportingResponse) any) error {
	var resp *bluesnap.ReportingResponse
	policy := a.retry
	policy.Backoff = resilience.ReportBackoff()

	err := resilience.Retry(ctx, policy, func(ctx context.Context) error {
		var err error
		resp, err = req.Send(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return a.print(render(resp), resp.IsSuccessful())
}

func referenceCommand(name, flagName string, build func(g *bluesnap.HostedCheckoutGateway, ref string) (*bluesnap.ExtendedRequest, error), retry bool, args []string) func(ctx context.Context, a *app) error {
	fs := newFlagSet(name)
	ref := fs.String("ref", "", flagName)
	return func(ctx context.Context, a *app) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		req, err := build(a.gateway, *ref)
		if err != nil {
			return err
		}
		return a.sendExtended(ctx, req, retry)
	}
}

func runFetchCustomer(ctx context.Context, a *app, args []string) error {
	return referenceCommand("fetch-customer", "Customer (shopper) reference",
		func(g *bluesnap.HostedCheckoutGateway, ref string) (*bluesnap.ExtendedRequest, error) {
			return g.FetchCustomer(bluesnap.Parameters{CustomerReference: ref})
		}, true, args)(ctx, a)
}

func runFetchTransaction(ctx context.Context, a *app, args []string) error {
	return referenceCommand("fetch-transaction", "Transaction (invoice) reference",
		func(g *bluesnap.HostedCheckoutGateway, ref string) (*bluesnap.ExtendedRequest, error) {
			return g.FetchTransaction(bluesnap.Parameters{TransactionReference: ref})
		}, true, args)(ctx, a)
}

func runFetchSubscription(ctx context.Context, a *app, args []string) error {
	return referenceCommand("fetch-subscription", "Subscription reference",
		func(g *bluesnap.HostedCheckoutGateway, ref string) (*bluesnap.ExtendedRequest, error) {
			return g.FetchSubscription(bluesnap.Parameters{SubscriptionReference: ref})
		}, true, args)(ctx, a)
}

func runCancelSubscription(ctx context.Context, a *app, args []string) error {
	return referenceCommand("cancel-subscription", "Subscription reference",
		func(g *bluesnap.HostedCheckoutGateway, ref string) (*bluesnap.ExtendedRequest, error) {
			return g.CancelSubscription(bluesnap.Parameters{SubscriptionReference: ref})
		}, false, args)(ctx, a)
}

func runReactivateSubscription(ctx context.Context, a *app, args []string) error {
	return referenceCommand("reactivate-subscription", "Subscription reference",
		func(g *bluesnap.HostedCheckoutGateway, ref string) (*bluesnap.ExtendedRequest, error) {
			return g.ReactivateSubscription(bluesnap.Parameters{SubscriptionReference: ref})
		}, false, args)(ctx, a)
}

func runTestChargeSubscription(ctx context.Context, a *app, args []string) error {
	return referenceCommand("test-charge-subscription", "Subscription reference",
		func(g *bluesnap.HostedCheckoutGateway, ref string) (*bluesnap.ExtendedRequest, error) {
			return g.TestChargeSubscription(bluesnap.Parameters{SubscriptionReference: ref})
		}, false, args)(ctx, a)
}

func runFetchSubscriptionCharge(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("fetch-subscription-charge")
	subscription := fs.String("subscription", "", "Subscription reference")
	charge := fs.String("charge", "", "Subscription charge reference")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := a.gateway.FetchSubscriptionCharge(bluesnap.Parameters{
		SubscriptionReference:       *subscription,
		SubscriptionChargeReference: *charge,
	})
	if err != nil {
		return err
	}
	return a.sendExtended(ctx, req, true)
}

func runUpdateSubscription(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update-subscription")
	ref := fs.String("ref", "", "Subscription reference")
	plan := fs.String("plan", "", "New plan (SKU) reference")
	amount := fs.String("amount", "", "Override charge amount")
	currency := fs.String("currency", "", "Override charge currency")
	nextCharge := fs.String("next-charge", "", "Next charge date, MM/DD/YYYY")
	if err := fs.Parse(args); err != nil {
		return err
	}

	next, err := parseDate("next-charge", *nextCharge)
	if err != nil {
		return err
	}
	req, err := a.gateway.UpdateSubscription(bluesnap.Parameters{
		SubscriptionReference: *ref,
		PlanReference:         *plan,
		Amount:                *amount,
		Currency:              *currency,
		NextChargeDate:        next,
	})
	if err != nil {
		return err
	}
	return a.sendExtended(ctx, req, false)
}

func runRefund(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("refund")
	ref := fs.String("ref", "", "Transaction (invoice) reference")
	amount := fs.String("amount", "", "Partial refund amount; omit for a full refund")
	currency := fs.String("currency", "", "Currency of -amount")
	reason := fs.String("reason", "", "Refund reason")
	cancel := fs.Bool("cancel-subscriptions", false, "Also cancel subscriptions created by the order")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := a.gateway.Refund(bluesnap.Parameters{
		TransactionReference: *ref,
		Amount:               *amount,
		Currency:             *currency,
		Reason:               *reason,
		CancelSubscriptions:  *cancel,
	})
	if err != nil {
		return err
	}
	return a.sendExtended(ctx, req, false)
}

func runFetchSubscriptions(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("fetch-subscriptions")
	customer := fs.String("customer", "", "Customer reference; lists that shopper's subscriptions")
	start := fs.String("start", "", "Report start date, MM/DD/YYYY")
	end := fs.String("end", "", "Report end date, MM/DD/YYYY")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := bluesnap.Parameters{CustomerReference: *customer}
	if *customer == "" {
		var err error
		if p.StartTime, err = parseDate("start", *start); err != nil {
			return err
		}
		if p.EndTime, err = parseDate("end", *end); err != nil {
			return err
		}
	}

	req, err := a.gateway.FetchSubscriptions(p)
	if err != nil {
		return err
	}

	var result bluesnap.SubscriptionsResult
	err = resilience.Retry(ctx, a.retry, func(ctx context.Context) error {
		var err error
		result, err = req.Send(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return a.print(subscriptionsView{
		header:        newHeader(result.Code(), result.IsSuccessful(), result.Message()),
		ByCustomer:    req.ByCustomer(),
		Subscriptions: result.Subscriptions(),
	}, result.IsSuccessful())
}

func reportParameters(fs *flag.FlagSet, args []string, withType bool) (bluesnap.Parameters, error) {
	start := fs.String("start", "", "Report start date, MM/DD/YYYY")
	end := fs.String("end", "", "Report end date, MM/DD/YYYY")
	var txType *string
	if withType {
		txType = fs.String("type", "", "Transaction type filter: Sale, Refund or Chargeback")
	}
	if err := fs.Parse(args); err != nil {
		return bluesnap.Parameters{}, err
	}

	var p bluesnap.Parameters
	var err error
	if p.StartTime, err = parseDate("start", *start); err != nil {
		return p, err
	}
	if p.EndTime, err = parseDate("end", *end); err != nil {
		return p, err
	}
	if txType != nil {
		p.TransactionType = *txType
	}
	return p, nil
}

func runFetchTransactions(ctx context.Context, a *app, args []string) error {
	p, err := reportParameters(newFlagSet("fetch-transactions"), args, true)
	if err != nil {
		return err
	}
	req, err := a.gateway.FetchTransactions(p)
	if err != nil {
		return err
	}
	return a.sendReport(ctx, req, func(resp *bluesnap.ReportingResponse) any {
		return transactionsView{
			header:       newHeader(resp.Code(), resp.IsSuccessful(), resp.Message()),
			Transactions: resp.Transactions(),
			Refunds:      resp.Refunds(),
			Chargebacks:  resp.Chargebacks(),
		}
	})
}

func runFetchCanceledSubscriptions(ctx context.Context, a *app, args []string) error {
	p, err := reportParameters(newFlagSet("fetch-canceled-subscriptions"), args, false)
	if err != nil {
		return err
	}
	req, err := a.gateway.FetchCanceledSubscriptions(p)
	if err != nil {
		return err
	}
	return a.sendReport(ctx, req, func(resp *bluesnap.ReportingResponse) any {
		return subscriptionsView{
			header:        newHeader(resp.Code(), resp.IsSuccessful(), resp.Message()),
			Subscriptions: resp.Subscriptions(),
		}
	})
}

// paramFlag collects repeated -param key=value flags in order.
type paramFlag []models.URLParameter

func (f *paramFlag) String() string {
	parts := make([]string, len(*f))
	for i, p := range *f {
		parts[i] = p.Key + "=" + p.Value
	}
	return strings.Join(parts, ",")
}

func (f *paramFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", v)
	}
	*f = append(*f, models.URLParameter{Key: key, Value: value})
	return nil
}

func runPurchase(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("purchase")
	store := fs.String("store", a.storeID, "Store reference (defaults to BLUESNAP_STORE_ID)")
	plan := fs.String("plan", "", "Plan (SKU) reference")
	currency := fs.String("currency", "", "Checkout currency")
	returnURL := fs.String("return-url", "", "URL BlueSnap returns the shopper to")
	var params paramFlag
	fs.Var(&params, "param", "Extra checkout parameter key=value; repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	bag, err := models.NewURLParameterBag([]models.URLParameter(params))
	if err != nil {
		return err
	}
	req, err := a.gateway.Purchase(bluesnap.Parameters{
		StoreReference:  *store,
		PlanReference:   *plan,
		Currency:        *currency,
		ReturnURL:       *returnURL,
		StoreParameters: bag,
	})
	if err != nil {
		return err
	}

	resp, err := req.Send(ctx)
	if err != nil {
		return err
	}
	return a.print(purchaseView{
		header:         newHeader(resp.Code(), resp.IsSuccessful(), resp.Message()),
		RedirectURL:    resp.RedirectURL(),
		RedirectMethod: resp.RedirectMethod(),
		EncryptedToken: resp.EncryptedToken(),
	}, resp.IsSuccessful())
}

func runDecryptReturnURL(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("decrypt-return-url")
	rawURL := fs.String("url", "", "Return URL carrying the encrypted token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := a.gateway.DecryptReturnURL(bluesnap.Parameters{ReturnURL: *rawURL})
	if err != nil {
		return err
	}
	resp, err := req.Send(ctx)
	if err != nil {
		return err
	}
	return a.print(decryptView{
		header:     newHeader(resp.Code(), resp.IsSuccessful(), resp.Message()),
		Parameters: resp.DecryptedParameters(),
	}, resp.IsSuccessful())
}

func runParseIPN(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("parse-ipn")
	rawURL := fs.String("url", "", "IPN callback URL or query string")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rawURL == "" {
		return pkgerrors.NewRequiredError("url")
	}
	return a.print(newIPNView(a.gateway.ParseIPNCallback(*rawURL)), true)
}
