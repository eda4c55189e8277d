package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kod2ulz/gostart/logr"
	"github.com/kod2ulz/worldpay-iadmin/sql/db"
	dbi "github.com/kod2ulz/worldpay-iadmin/sql/db/iadmin"
	"github.com/kod2ulz/worldpay-iadmin/stores"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	FormContentType = "application/x-www-form-urlencoded"
	DefaultTimeout  = 30 * time.Second
)

var ErrNotConfigured = errors.New("not configured")

type IadminClientOption func(*Iadmin)

func WithIadminConfig(conf *IadminConfig) IadminClientOption {
	return func(c *Iadmin) {
		if conf == nil {
			return
		}
		c.conf = conf
		c.installationId, c.password = conf.InstallationID, conf.Password
		c.productionUrl, c.testUrl = conf.ProductionUrl, conf.TestUrl
		c.testMode.Store(conf.TestMode)
		if conf.Timeout > 0 {
			c.http.Timeout = conf.Timeout
		}
	}
}

func WithIadminCredentials(installationId, password string) IadminClientOption {
	return func(c *Iadmin) {
		c.installationId, c.password = installationId, password
	}
}

func WithTestMode(testMode bool) IadminClientOption {
	return func(c *Iadmin) {
		c.testMode.Store(testMode)
	}
}

func WithProductionUrl(url string) IadminClientOption {
	return func(c *Iadmin) {
		c.productionUrl = url
	}
}

func WithTestUrl(url string) IadminClientOption {
	return func(c *Iadmin) {
		c.testUrl = url
	}
}

// WithHttpClient uses a copy of client. Redirects are never followed so that a
// 3xx reply is classified on its own body.
func WithHttpClient(client *http.Client) IadminClientOption {
	return func(c *Iadmin) {
		hc := *client
		hc.CheckRedirect = noRedirect
		c.http = &hc
	}
}

func WithTimeout(timeout time.Duration) IadminClientOption {
	return func(c *Iadmin) {
		c.http.Timeout = timeout
	}
}

func WithIadminDB(dbx *db.SqlDB) IadminClientOption {
	return func(c *Iadmin) {
		c.db = dbx
	}
}

func WithIadminArchive(store *stores.MinioClient) IadminClientOption {
	return func(c *Iadmin) {
		c.archive = store
	}
}

// NewIadmin stores the credentials verbatim. Test mode is off unless testMode is given.
func NewIadmin(installationId, password string, testMode ...bool) *Iadmin {
	out := newIadmin(DefaultLogger())
	out.installationId, out.password = installationId, password
	out.testMode.Store(len(testMode) > 0 && testMode[0])
	return out
}

func IadminClient(ctx context.Context, log *logr.Logger, opts ...IadminClientOption) (out *Iadmin, err error) {
	out = newIadmin(log)
	for i := range opts {
		opts[i](out)
	}
	if err = out.init(ctx); err != nil {
		return nil, err
	}
	return
}

// DefaultLogger logs through the logrus standard logger.
func DefaultLogger() *logr.Logger {
	return &logr.Logger{Entry: logrus.NewEntry(logrus.StandardLogger())}
}

func newIadmin(log *logr.Logger) (out *Iadmin) {
	out = &Iadmin{
		conf: &IadminConfig{
			ProductionUrl: DefaultProductionUrl,
			TestUrl:       DefaultTestUrl,
			Timeout:       DefaultTimeout,
			ArchiveBucket: "iadmin",
			ArchiveFolder: "exchanges",
		},
		http:          &http.Client{Timeout: DefaultTimeout, CheckRedirect: noRedirect},
		productionUrl: DefaultProductionUrl,
		testUrl:       DefaultTestUrl,
	}
	out.log = &iadminLogger{Logger: log, ia: out}
	return
}

// Iadmin administers FuturePay agreements. Response holds the outcome of the
// most recent call on this instance, so callers sharing one Iadmin should read
// the Result returned by Execute instead.
type Iadmin struct {
	mu             sync.RWMutex
	db             *db.SqlDB
	log            *iadminLogger
	conf           *IadminConfig
	archive        *stores.MinioClient
	http           *http.Client
	installationId string
	password       string
	testMode       atomic.Bool
	productionUrl  string
	testUrl        string
	response       string
}

func (c *Iadmin) Config() IadminConfig {
	return *c.conf
}

func (c *Iadmin) init(ctx context.Context) (err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(c.checkEndpoints)
	if c.db != nil {
		g.Go(func() error { return errors.Wrap(c.db.Ping(ctx), "failed to reach iadmin database") })
	}
	if c.archive != nil {
		g.Go(func() error { return c.archive.EnsureBucket(ctx, c.conf.ArchiveBucket) })
	}
	return g.Wait()
}

func (c *Iadmin) checkEndpoints() (err error) {
	for _, endpoint := range []string{c.ProductionUrl(), c.TestUrl()} {
		var u *url.URL
		if u, err = url.Parse(endpoint); err != nil {
			return errors.Wrapf(err, "invalid iadmin url %q", endpoint)
		} else if u.Scheme == "" || u.Host == "" {
			return errors.Errorf("iadmin url %q must be absolute", endpoint)
		}
	}
	return
}

func (c *Iadmin) InstallationID() string {
	return c.installationId
}

func (c *Iadmin) Password() string {
	return c.password
}

func (c *Iadmin) TestMode() bool {
	return c.testMode.Load()
}

// SetTestMode takes effect from the next call.
func (c *Iadmin) SetTestMode(testMode bool) {
	c.testMode.Store(testMode)
}

// Response returns the trimmed body of the last reply, or ConnectionError.
func (c *Iadmin) Response() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.response
}

func (c *Iadmin) setResponse(response string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.response = response
}

func (c *Iadmin) urlFor(testMode bool) string {
	if testMode {
		return c.TestUrl()
	}
	return c.ProductionUrl()
}

// CancelAgreement cancels an existing FuturePay agreement.
func (c *Iadmin) CancelAgreement(futurePayId string) bool {
	return c.CancelAgreementContext(context.Background(), futurePayId).Ok
}

func (c *Iadmin) CancelAgreementContext(ctx context.Context, futurePayId string) Result {
	return c.Execute(ctx, NewCancelAgreement(futurePayId))
}

// ModifyStartDate sets the agreement's start date. The date is sent as is,
// without any timezone conversion.
func (c *Iadmin) ModifyStartDate(futurePayId string, startDate time.Time) bool {
	return c.ModifyStartDateContext(context.Background(), futurePayId, startDate).Ok
}

func (c *Iadmin) ModifyStartDateContext(ctx context.Context, futurePayId string, startDate time.Time) Result {
	return c.Execute(ctx, NewModifyStartDate(futurePayId, startDate))
}

// ChangeAmount changes the amount of subsequent debits. iadmin only accepts it
// for option 1 or 2 agreements at least 8 days before the payment is due.
func (c *Iadmin) ChangeAmount(futurePayId string, amount decimal.Decimal) bool {
	return c.ChangeAmountContext(context.Background(), futurePayId, amount).Ok
}

func (c *Iadmin) ChangeAmountContext(ctx context.Context, futurePayId string, amount decimal.Decimal) Result {
	return c.Execute(ctx, NewChangeAmount(futurePayId, amount))
}

// Debit takes an off-cycle payment from the agreement.
func (c *Iadmin) Debit(futurePayId string, amount decimal.Decimal) bool {
	return c.DebitContext(context.Background(), futurePayId, amount).Ok
}

func (c *Iadmin) DebitContext(ctx context.Context, futurePayId string, amount decimal.Decimal) Result {
	return c.Execute(ctx, NewDebit(futurePayId, amount))
}

// Execute posts cmd once and classifies the reply. It never retries: debits
// are not idempotent.
func (c *Iadmin) Execute(ctx context.Context, cmd Command) (res Result) {
	var err error
	var form url.Values
	testMode := c.TestMode()
	res = Result{
		RequestID:   RequestID(ctx),
		Operation:   cmd.Operation(),
		FuturePayID: cmd.AgreementID(),
		Url:         c.urlFor(testMode),
		TestMode:    testMode,
	}
	done := trackInFlight(res.Operation)
	defer func() {
		c.setResponse(res.Response)
		done(res)
	}()

	if form, err = buildForm(c.installationId, c.password, testMode, cmd); err != nil {
		res.Response, res.Err = ConnectionError, err
		c.log.WithError(err).WithField("requestId", res.RequestID).Error("failed to build iadmin form")
		return
	}
	redacted, startedAt := redactForm(form), time.Now()
	c.log.Request(ctx, &res, redacted)
	defer func() { c.log.Response(ctx, res, redacted, startedAt) }()

	var body string
	if res.StatusCode, body, err = c.post(ctx, res.Url, form); err != nil {
		res.Response, res.Err = ConnectionError, err
		return
	}
	res.Response = body
	res.Ok = IsSuccess(body)
	return
}

func (c *Iadmin) post(ctx context.Context, endpoint string, form url.Values) (code int, body string, err error) {
	var req *http.Request
	var resp *http.Response
	var data []byte
	if req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode())); err != nil {
		return 0, "", errors.Wrapf(err, "failed to create request to %s", endpoint)
	}
	req.Header.Set("Content-Type", FormContentType)
	if resp, err = c.http.Do(req); err != nil {
		return 0, "", errors.Wrap(err, "iadmin request failed")
	}
	defer resp.Body.Close()
	if code = resp.StatusCode; !acceptedStatus(code) {
		return code, "", errors.Errorf("iadmin responded with status %d", code)
	} else if data, err = io.ReadAll(resp.Body); err != nil {
		return code, "", errors.Wrap(err, "failed to read iadmin response")
	}
	return code, strings.TrimSpace(string(data)), nil
}

// LoadExchange reads an archived exchange back from storage.
func (c *Iadmin) LoadExchange(ctx context.Context, requestId uuid.UUID, startedAt time.Time) (out Exchange, err error) {
	if c.archive == nil {
		return out, errors.Wrap(ErrNotConfigured, "iadmin archive")
	}
	key := ExchangeKey(c.conf.ArchiveFolder, requestId, startedAt)
	err = c.archive.GetJSON(ctx, c.conf.ArchiveBucket, key, &out)
	return
}

// AgreementCalls lists the recorded calls for one agreement, newest first.
func (c *Iadmin) AgreementCalls(ctx context.Context, futurePayId string, limit int32) (out []dbi.IadminApiCall, err error) {
	if c.db == nil {
		return nil, errors.Wrap(ErrNotConfigured, "iadmin database")
	} else if out, err = c.db.ListAgreementCalls(ctx, dbi.ListAgreementCallsParams{
		FuturePayID: futurePayId, Limit: limit,
	}); err != nil {
		err = errors.Wrapf(err, "failed to list calls for agreement %s", futurePayId)
	}
	return
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}
