package bluesnap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap/models"
	"github.com/kevin07696/bluesnap-gateway/pkg/encoding"
	"github.com/kevin07696/bluesnap-gateway/pkg/ports"
)

// Request is one configured API call. The operation it performs is fixed
// when the gateway creates it; parameters may still be changed through the
// setters until Send. A Request must not be used from several goroutines.
type Request struct {
	client *Client
	op     *operation
	params Parameters
}

func newRequest(client *Client, op *operation, params Parameters) (*Request, error) {
	if err := params.checkZones(); err != nil {
		return nil, err
	}
	if client == nil {
		client = NewClient()
	}
	return &Request{client: client, op: op, params: params}, nil
}

// Operation returns the operation name, e.g. "fetch_transaction".
func (r *Request) Operation() string {
	return r.op.name
}

// HTTPMethod returns the HTTP method of the operation.
func (r *Request) HTTPMethod() string {
	return r.op.method
}

// Endpoint returns the absolute URL the request is sent to.
func (r *Request) Endpoint() string {
	root := LiveEndpoint
	if r.params.TestMode {
		root = TestEndpoint
	}
	return root + ServicePath + r.op.path(&r.params)
}

// Validate checks required parameters, in declaration order, and any
// operation specific constraint.
func (r *Request) Validate() error {
	if err := r.params.requireAll(r.op.required...); err != nil {
		return err
	}
	if r.op.validate != nil {
		return r.op.validate(&r.params)
	}
	return nil
}

// Data validates the parameters and builds the XML body. Operations without
// a body return nil.
func (r *Request) Data() (*etree.Element, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.op.body == nil {
		return nil, nil
	}
	return r.op.body(&r.params)
}

// Parameters returns a copy of the current parameters.
func (r *Request) Parameters() Parameters {
	return r.params
}

func (r *Request) TestMode() bool {
	return r.params.TestMode
}

func (r *Request) SetTestMode(v bool) {
	r.params.TestMode = v
}

func (r *Request) SetUsername(v string) {
	r.params.Username = v
}

func (r *Request) SetPassword(v string) {
	r.params.Password = v
}

func (r *Request) TransactionReference() string {
	return r.params.TransactionReference
}

func (r *Request) SetTransactionReference(v string) {
	r.params.TransactionReference = v
}

func (r *Request) SetCustomerReference(v string) {
	r.params.CustomerReference = v
}

func (r *Request) SetSubscriptionReference(v string) {
	r.params.SubscriptionReference = v
}

func (r *Request) SetSubscriptionChargeReference(v string) {
	r.params.SubscriptionChargeReference = v
}

func (r *Request) SetPlanReference(v string) {
	r.params.PlanReference = v
}

func (r *Request) StoreReference() string {
	return r.params.StoreReference
}

func (r *Request) SetStoreReference(v string) {
	r.params.StoreReference = v
}

func (r *Request) SetAmount(v string) {
	r.params.Amount = v
}

func (r *Request) SetCurrency(v string) {
	r.params.Currency = v
}

func (r *Request) SetReason(v string) {
	r.params.Reason = v
}

func (r *Request) SetCancelSubscriptions(v bool) {
	r.params.CancelSubscriptions = v
}

func (r *Request) SetTransactionType(v string) {
	r.params.TransactionType = v
}

func (r *Request) SetReturnURL(v string) {
	r.params.ReturnURL = v
}

func (r *Request) SetStoreParameters(bag *models.URLParameterBag) {
	r.params.StoreParameters = bag
}

// Amount returns the amount formatted to the currency's precision.
func (r *Request) Amount() (string, error) {
	return FormatAmount(r.params.Amount, r.params.Currency)
}

// StartTime returns the report range start.
func (r *Request) StartTime() *time.Time { return r.params.StartTime }

// EndTime returns the report range end.
func (r *Request) EndTime() *time.Time { return r.params.EndTime }

// NextChargeDate returns the requested next charge date.
func (r *Request) NextChargeDate() *time.Time { return r.params.NextChargeDate }

// SetStartTime sets the report range start. t must be in the gateway zone.
func (r *Request) SetStartTime(t time.Time) error {
	if err := checkZone(ParamStartTime, &t); err != nil {
		return err
	}
	r.params.StartTime = &t
	return nil
}

// SetEndTime sets the report range end. t must be in the gateway zone.
func (r *Request) SetEndTime(t time.Time) error {
	if err := checkZone(ParamEndTime, &t); err != nil {
		return err
	}
	r.params.EndTime = &t
	return nil
}

// SetNextChargeDate sets the next charge date of a subscription update.
// t must be in the gateway zone.
func (r *Request) SetNextChargeDate(t time.Time) error {
	if err := checkZone(ParamNextChargeDate, &t); err != nil {
		return err
	}
	r.params.NextChargeDate = &t
	return nil
}

// send performs the single HTTP exchange shared by every operation.
// Non-2xx statuses are returned as responses; only transport failures are
// errors.
func (r *Request) send(ctx context.Context) (*Response, error) {
	body, err := r.Data()
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := encodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", r.op.name, err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := r.Endpoint()
	httpReq, err := http.NewRequestWithContext(ctx, r.op.method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", r.op.name, err)
	}
	httpReq.SetBasicAuth(r.params.Username, r.params.Password)
	httpReq.Header.Set(VersionHeader, APIVersion)
	if body != nil {
		httpReq.Header.Set("Content-Type", ContentType)
	}

	event := Event{
		CorrelationID: uuid.NewString(),
		Operation:     r.op.name,
		Method:        r.op.method,
		Endpoint:      endpoint,
	}
	logger := r.client.logger

	event.Type = EventRequestSending
	r.client.emit(event)
	logger.Debug("Sending BlueSnap request",
		ports.String("operation", r.op.name),
		ports.String("method", r.op.method),
		ports.String("endpoint", endpoint),
		ports.String("correlation_id", event.CorrelationID),
	)

	start := time.Now()
	httpResp, err := r.client.httpClient.Do(httpReq)
	if err != nil {
		return nil, r.fail(event, start, fmt.Errorf("bluesnap %s request failed: %w", r.op.name, err))
	}
	defer httpResp.Body.Close()

	raw, err := encoding.ReadAll(httpResp.Body)
	if err != nil {
		return nil, r.fail(event, start, fmt.Errorf("failed to read bluesnap %s response: %w", r.op.name, err))
	}

	resp := &Response{
		code:      strconv.Itoa(httpResp.StatusCode),
		requestID: httpResp.Header.Get(RequestIDHdr),
		payload:   parsePayload(httpResp.Header.Get("Content-Type"), raw),
		request:   r,
	}

	event.Type = EventResponseReceived
	event.StatusCode = httpResp.StatusCode
	event.RequestID = resp.requestID
	event.Duration = time.Since(start)
	r.client.emit(event)

	fields := []ports.Field{
		ports.String("operation", r.op.name),
		ports.Int("status_code", httpResp.StatusCode),
		ports.String("request_id", resp.requestID),
		ports.Duration("duration", event.Duration),
		ports.String("correlation_id", event.CorrelationID),
	}
	if resp.IsSuccessful() {
		logger.Info("BlueSnap request completed", fields...)
	} else {
		logger.Warn("BlueSnap request unsuccessful", append(fields, ports.String("message", resp.Message()))...)
	}
	return resp, nil
}

func (r *Request) fail(event Event, start time.Time, err error) error {
	event.Type = EventRequestFailed
	event.Duration = time.Since(start)
	event.Err = err
	r.client.emit(event)
	r.client.logger.Error("BlueSnap request failed",
		ports.String("operation", r.op.name),
		ports.String("correlation_id", event.CorrelationID),
		ports.Err(err),
	)
	return err
}

// encodeBody serialises root with the namespace BlueSnap expects on every
// request document.
func encodeBody(root *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0"`)
	el := root.Copy()
	el.CreateAttr("xmlns", XMLNamespace)
	doc.SetRoot(el)
	return encoding.Encode(doc.WriteTo)
}

// ExtendedRequest is a request answered by the Extended API.
type ExtendedRequest struct {
	*Request
}

// Send executes the request.
func (r *ExtendedRequest) Send(ctx context.Context) (*ExtendedResponse, error) {
	base, err := r.send(ctx)
	if err != nil {
		return nil, err
	}
	return newExtendedResponse(base), nil
}

// ReportingRequest is a request answered by the Reporting API.
type ReportingRequest struct {
	*Request
}

// Send executes the request.
func (r *ReportingRequest) Send(ctx context.Context) (*ReportingResponse, error) {
	base, err := r.send(ctx)
	if err != nil {
		return nil, err
	}
	return newReportingResponse(base), nil
}

// HostedCheckoutPurchaseRequest encrypts checkout parameters for a redirect
// to the hosted checkout page.
type HostedCheckoutPurchaseRequest struct {
	*Request
}

// Send executes the request.
func (r *HostedCheckoutPurchaseRequest) Send(ctx context.Context) (*HostedCheckoutPurchaseResponse, error) {
	base, err := r.send(ctx)
	if err != nil {
		return nil, err
	}
	return &HostedCheckoutPurchaseResponse{Response: base}, nil
}

// DecryptReturnURLRequest decrypts the parameters BlueSnap appends to the
// return URL after a hosted checkout.
type DecryptReturnURLRequest struct {
	*Request
}

// Send executes the request.
func (r *DecryptReturnURLRequest) Send(ctx context.Context) (*DecryptReturnURLResponse, error) {
	base, err := r.send(ctx)
	if err != nil {
		return nil, err
	}
	return &DecryptReturnURLResponse{Response: base}, nil
}

// trimmed is shared by payload parsing and message extraction.
func trimmed(b []byte) string {
	return strings.TrimSpace(string(b))
}
