package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/platform/logging"
	"github.com/matchdayhq/matchday/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("webhook transient failure")

const (
	eventMatchScheduled = "match.scheduled"
	eventMatchCanceled  = "match.canceled"
)

type Config struct {
	URL     string
	Timeout time.Duration
	Retries int
	Workers int
}

// Notifier posts match lifecycle events to a configured webhook URL.
// Deliveries run on a worker pool so the booking path never waits on
// the receiver; failed deliveries are logged and dropped.
type Notifier struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	retries int
	pool    *ants.Pool
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

type eventPayload struct {
	Event      string    `json:"event"`
	MatchID    string    `json:"matchId"`
	BookingID  string    `json:"bookingId"`
	VenueID    string    `json:"venueId"`
	HomeTeamID string    `json:"homeTeamId"`
	AwayTeamID string    `json:"awayTeamId"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
	SentAt     time.Time `json:"sentAt"`
}

func NewNotifier(cfg Config, logger *logging.Logger) (*Notifier, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, crerr.New("webhook url is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, crerr.Wrap(err, "create webhook worker pool")
	}

	return &Notifier{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		url:     url,
		timeout: timeout,
		retries: max(cfg.Retries, 0),
		pool:    pool,
		breaker: resilience.NewCircuitBreaker(5, 15*time.Second, 2),
		logger:  logger,
	}, nil
}

func (n *Notifier) MatchScheduled(ctx context.Context, m match.Match) {
	n.dispatch(ctx, eventMatchScheduled, m)
}

func (n *Notifier) MatchCanceled(ctx context.Context, m match.Match) {
	n.dispatch(ctx, eventMatchCanceled, m)
}

// Close drains the worker pool. Pending deliveries are abandoned.
func (n *Notifier) Close() {
	n.pool.Release()
}

func (n *Notifier) dispatch(ctx context.Context, event string, m match.Match) {
	payload := eventPayload{
		Event:      event,
		MatchID:    m.ID,
		BookingID:  m.BookingID,
		VenueID:    m.VenueID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		StartsAt:   m.StartsAt,
		EndsAt:     m.EndsAt,
		SentAt:     time.Now().UTC(),
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		n.logger.ErrorContext(ctx, "marshal webhook payload", "event", event, "match_id", m.ID, "error", err)
		return
	}

	submitErr := n.pool.Submit(func() {
		if err := n.deliver(event, body); err != nil {
			n.logger.Warn("webhook delivery failed", "event", event, "match_id", m.ID, "error", err)
		}
	})
	if submitErr != nil {
		n.logger.WarnContext(ctx, "webhook delivery dropped", "event", event, "match_id", m.ID, "error", submitErr)
	}
}

func (n *Notifier) deliver(event string, body []byte) error {
	var lastErr error
	for attempt := 0; attempt <= n.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
		}

		lastErr = n.breaker.Do(func() error {
			return n.post(event, body)
		})
		if lastErr == nil {
			return nil
		}
		if !crerr.Is(lastErr, errWebhookTransient) {
			return lastErr
		}
	}

	return lastErr
}

func (n *Notifier) post(event string, body []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(body)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Matchday-Event", event)
	req.SetBody(buf.B)

	if err := n.client.DoTimeout(req, resp, n.timeout); err != nil {
		return fmt.Errorf("%w: send request: %v", errWebhookTransient, err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 500 || status == fasthttp.StatusTooManyRequests:
		return fmt.Errorf("%w: receiver answered %d", errWebhookTransient, status)
	default:
		return crerr.Newf("webhook receiver answered %d", status)
	}
}
