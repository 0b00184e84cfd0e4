// Package telegram delivers alert events to a Telegram chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/optrack/business/alerting/app"
	"github.com/fd1az/optrack/business/alerting/domain"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/logger"
	"github.com/fd1az/optrack/internal/ratelimit"
)

const (
	meterName      = "telegram"
	requestTimeout = 10 * time.Second
)

var _ app.Notifier = (*Notifier)(nil)

// Notifier sends events as HTML messages to one chat. The bot connects on
// first use and reconnects on the next send when getMe fails.
type Notifier struct {
	token    string
	endpoint string
	chatID   int64

	mu  sync.Mutex
	bot *tgbotapi.BotAPI

	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface
	sent    metric.Int64Counter
	failed  metric.Int64Counter
}

// NewBot connects to the Bot API. endpoint is a tgbotapi endpoint format
// ("https://api.telegram.org/bot%s/%s"); empty uses the public API.
func NewBot(token, endpoint string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, apperror.New(apperror.CodeTelegramNotConfigured, apperror.WithContext("bot token"))
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: requestTimeout})
	if err != nil {
		return nil, apperror.New(apperror.CodeTelegramSendFailed,
			apperror.WithCause(err),
			apperror.WithContext("getMe"))
	}
	return bot, nil
}

// NewNotifier creates a notifier from cfg. Missing credentials are a
// CodeTelegramNotConfigured error. An unreachable Bot API is not an error:
// it is logged and retried on the next Send.
func NewNotifier(cfg config.TelegramConfig, log logger.LoggerInterface) (*Notifier, error) {
	if !cfg.Enabled() {
		return nil, apperror.New(apperror.CodeTelegramNotConfigured)
	}

	n := &Notifier{
		token:    cfg.BotToken,
		endpoint: cfg.APIEndpoint,
		chatID:   cfg.ChatID,
		limiter:  newLimiter(cfg.MessagesPerMinute),
		logger:   log,
	}
	if err := n.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	ctx := context.Background()
	if bot, err := n.connect(); err != nil {
		log.Warn(ctx, "telegram unreachable, will retry on next send", "chat_id", cfg.ChatID, "error", err)
	} else {
		log.Info(ctx, "telegram notifier ready", "bot", bot.Self.UserName, "chat_id", cfg.ChatID)
	}
	return n, nil
}

// newLimiter allows a full minute's quota at once. Messages over the quota
// are dropped, never queued.
func newLimiter(perMinute int) *ratelimit.Limiter {
	if perMinute <= 0 {
		return ratelimit.New(0)
	}
	return ratelimit.NewWithBurst(float64(perMinute)/60, perMinute)
}

func (n *Notifier) connect() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bot != nil {
		return n.bot, nil
	}
	bot, err := NewBot(n.token, n.endpoint)
	if err != nil {
		return nil, err
	}
	n.bot = bot
	return bot, nil
}

func (n *Notifier) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	n.sent, err = meter.Int64Counter(
		"telegram_messages_sent_total",
		metric.WithDescription("Total messages delivered to Telegram"),
	)
	if err != nil {
		return err
	}

	n.failed, err = meter.Int64Counter(
		"telegram_messages_failed_total",
		metric.WithDescription("Total messages Telegram rejected or that failed in transit"),
	)
	return err
}

// Send implements app.Notifier.
func (n *Notifier) Send(ctx context.Context, ev domain.Event) bool {
	attrs := metric.WithAttributes(attribute.String("kind", string(ev.Kind)))

	if err := n.send(ctx, ev.Text); err != nil {
		n.failed.Add(ctx, 1, attrs)
		n.logger.Error(ctx, "telegram send failed",
			"kind", ev.Kind,
			"event_id", ev.ID,
			"code", apperror.GetCode(err),
			"error", err)
		return false
	}

	n.sent.Add(ctx, 1, attrs)
	return true
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !n.limiter.Allow() {
		return apperror.New(apperror.CodeTelegramRateLimited, apperror.WithContext("local quota"))
	}

	bot, err := n.connect()
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := bot.Send(msg); err != nil {
		var tgErr *tgbotapi.Error
		if errors.As(err, &tgErr) && tgErr.Code == http.StatusTooManyRequests {
			return apperror.New(apperror.CodeTelegramRateLimited,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("retry after %ds", tgErr.RetryAfter)))
		}
		return apperror.New(apperror.CodeTelegramSendFailed, apperror.WithCause(err))
	}
	return nil
}
