package imap

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	imap "github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mailtui/mailtui/internal/mail"
	"github.com/mailtui/mailtui/internal/mime"
	"github.com/mailtui/mailtui/internal/textutil"
)

const (
	// fetchLimit caps how many messages are loaded for the quarter.
	// The newest messages win when the mailbox holds more.
	fetchLimit = 500

	// fetchBatchSize is the number of messages per UID FETCH command.
	fetchBatchSize = 50

	// parseWorkers bounds concurrent MIME parsing of fetched bodies.
	parseWorkers = 4
)

// Option configures a Client.
type Option func(*Client)

// WithLogger routes the client's debug and warning logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client implements mail.Client for IMAP servers.
type Client struct {
	config   *Config
	password string
	logger   *slog.Logger
	limiter  *rate.Limiter

	mu              sync.Mutex
	conn            *imapclient.Client
	selectedMailbox string // currently selected mailbox
}

// NewClient builds a Client for cfg. The connection is established lazily
// on first use.
func NewClient(cfg *Config, password string, opts ...Option) *Client {
	c := &Client{
		config:   cfg,
		password: password,
		logger:   slog.Default(),
		limiter:  rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// dial opens the transport that matches the config's TLS mode.
func dial(cfg *Config, addr string) (*imapclient.Client, error) {
	opts := &imapclient.Options{}
	switch {
	case cfg.TLS:
		return imapclient.DialTLS(addr, opts)
	case cfg.STARTTLS:
		return imapclient.DialStartTLS(addr, opts)
	default:
		return imapclient.DialInsecure(addr, opts)
	}
}

// connect dials and authenticates. Caller must hold mu.
func (c *Client) connect() error {
	if c.conn != nil {
		return nil
	}

	addr := c.config.Addr()
	c.logger.Debug("dialing IMAP server", "addr", addr, "tls", c.config.TLS, "starttls", c.config.STARTTLS)

	conn, err := dial(c.config, addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if err := conn.Login(c.config.Username, c.password).Wait(); err != nil {
		_ = conn.Close()
		return fmt.Errorf("login %s: %w", c.config.Username, err)
	}

	c.conn = conn
	c.selectedMailbox = ""
	c.logger.Debug("logged in", "user", c.config.Username)
	return nil
}

// withConn locks the client and runs fn against a live connection, dialing
// first when needed.
func (c *Client) withConn(fn func(*imapclient.Client) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connect(); err != nil {
		return err
	}
	return fn(c.conn)
}

// selectMailbox selects a mailbox read-only if not already selected.
// The viewer never mutates messages or flags. Caller must hold mu.
func (c *Client) selectMailbox(mailbox string) error {
	if c.selectedMailbox == mailbox {
		return nil
	}
	if _, err := c.conn.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return fmt.Errorf("SELECT %q: %w", mailbox, err)
	}
	c.selectedMailbox = mailbox
	return nil
}

// compositeID is the dashboard-wide message key, "mailbox|uid".
func compositeID(mailbox string, uid imap.UID) string {
	return fmt.Sprintf("%s|%d", mailbox, uid)
}

// rawMessage is one fetched message before MIME parsing.
type rawMessage struct {
	uid          imap.UID
	internalDate time.Time
	envelope     *imap.Envelope
	body         []byte
}

// FetchCurrentQuarter downloads the messages received during the current
// calendar quarter from the configured mailbox and returns them newest first.
func (c *Client) FetchCurrentQuarter(ctx context.Context) ([]mail.Message, error) {
	since, until := mail.QuarterRange(time.Now())
	mailbox := c.config.MailboxName()

	var raws []rawMessage
	err := c.withConn(func(conn *imapclient.Client) error {
		if err := c.selectMailbox(mailbox); err != nil {
			return err
		}

		// SINCE/BEFORE compare the internal date only and BEFORE is
		// exclusive, so search up to the first day after the quarter.
		criteria := &imap.SearchCriteria{
			Since:  since,
			Before: until.Add(time.Second),
		}
		searchData, err := conn.UIDSearch(criteria, &imap.SearchOptions{ReturnAll: true}).Wait()
		if err != nil {
			return fmt.Errorf("UID SEARCH: %w", err)
		}

		uidSet, ok := searchData.All.(imap.UIDSet)
		if !ok {
			return nil
		}
		uids, _ := uidSet.Nums()
		c.logger.Debug("quarter search", "mailbox", mailbox, "since", since, "before", until, "count", len(uids))
		if len(uids) > fetchLimit {
			uids = uids[len(uids)-fetchLimit:]
		}

		fetchOpts := &imap.FetchOptions{
			UID:          true,
			InternalDate: true,
			Envelope:     true,
			BodySection:  []*imap.FetchItemBodySection{{Peek: true}}, // empty section = entire message
		}
		for start := 0; start < len(uids); start += fetchBatchSize {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			batch := uids[start:min(start+fetchBatchSize, len(uids))]
			var set imap.UIDSet
			for _, uid := range batch {
				set.AddNum(uid)
			}
			msgs, err := conn.Fetch(set, fetchOpts).Collect()
			if err != nil {
				return fmt.Errorf("UID FETCH: %w", err)
			}
			for _, buf := range msgs {
				rm := rawMessage{
					uid:          buf.UID,
					internalDate: buf.InternalDate,
					envelope:     buf.Envelope,
				}
				if len(buf.BodySection) > 0 {
					rm.body = buf.BodySection[0].Bytes
				}
				raws = append(raws, rm)
			}
			c.logger.Debug("fetched batch", "mailbox", mailbox, "count", len(msgs))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]mail.Message, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for i, rm := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			messages[i] = c.buildMessage(mailbox, rm)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Date.After(messages[j].Date)
	})
	return messages, nil
}

// buildMessage converts one fetched message into the dashboard's model. The
// envelope fills in whatever the MIME decoder cannot recover.
func (c *Client) buildMessage(mailbox string, rm rawMessage) mail.Message {
	msg := mail.Message{
		ID:   compositeID(mailbox, rm.uid),
		Date: rm.internalDate,
	}
	if env := rm.envelope; env != nil {
		msg.Subject = env.Subject
		if len(env.From) > 0 {
			msg.Sender = formatEnvelopeAddress(env.From[0])
		}
		if !env.Date.IsZero() {
			msg.Date = env.Date
		}
	}

	if len(rm.body) > 0 {
		parsed, err := mime.Parse(rm.body)
		if err != nil {
			c.logger.Warn("unparseable message body", "uid", rm.uid, "error", err)
		} else {
			if len(parsed.Defects) > 0 {
				c.logger.Debug("message parsed with defects", "uid", rm.uid, "defects", strings.Join(parsed.Defects, "; "))
			}
			if parsed.Subject != "" {
				msg.Subject = parsed.Subject
			}
			if from := parsed.FirstFrom(); from != (mime.Address{}) {
				msg.Sender = from.Display()
			}
			if !parsed.Date.IsZero() {
				msg.Date = parsed.Date
			}
			msg.Body = normalizeBody(parsed.BestBody())
		}
	}

	msg.Subject = textutil.EnsureUTF8(msg.Subject)
	msg.Sender = textutil.EnsureUTF8(msg.Sender)
	msg.Body = textutil.EnsureUTF8(msg.Body)
	return msg
}

// formatEnvelopeAddress renders an envelope address as "Name <user@host>".
func formatEnvelopeAddress(addr imap.Address) string {
	if addr.Name != "" {
		return addr.Name + " <" + addr.Addr() + ">"
	}
	return addr.Addr()
}

// normalizeBody converts CRLF line endings and strips trailing whitespace.
func normalizeBody(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, " \t\n")
}

// CheckConnection verifies that the server accepts the credentials and
// reports how many messages the configured mailbox holds.
func (c *Client) CheckConnection(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var total uint32
	err := c.withConn(func(conn *imapclient.Client) error {
		mailbox := c.config.MailboxName()
		statusData, err := conn.Status(mailbox, &imap.StatusOptions{NumMessages: true}).Wait()
		if err != nil {
			return fmt.Errorf("STATUS %q: %w", mailbox, err)
		}
		if statusData.NumMessages != nil {
			total = *statusData.NumMessages
		}
		return nil
	})
	return total, err
}

// Close logs out and drops the connection. Calling it again is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil
	c.selectedMailbox = ""
	return conn.Logout().Wait()
}
