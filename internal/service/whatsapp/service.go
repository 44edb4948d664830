package whatsapp

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/config"
	"github.com/mamadbah2/platecost/internal/domain/models"
	client "github.com/mamadbah2/platecost/pkg/clients/whatsapp"
)

// maxBodyRunes is the Cloud API limit for a text message body.
const maxBodyRunes = 4096

// ErrEmptyNotification is returned for a notification without recipient or text.
var ErrEmptyNotification = errors.New("notification needs a recipient and a message")

// Notifier delivers text notifications.
type Notifier interface {
	Notify(ctx context.Context, msg models.Notification) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Notify sends msg as a plain text message. An empty recipient falls back to
// the configured manager.
func (s *MetaWhatsAppService) Notify(ctx context.Context, msg models.Notification) error {
	if msg.To == "" {
		msg.To = s.cfg.ManagerID
	}
	if msg.To == "" || msg.Message == "" {
		return ErrEmptyNotification
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         msg.To,
		Body:       truncate(msg.Message, maxBodyRunes),
		PreviewURL: msg.PreviewURL,
	})
	if err != nil {
		return err
	}

	s.logger.Info("notification sent", zap.String("to", msg.To), zap.String("message_id", resp.MessageID()))
	return nil
}

func truncate(body string, limit int) string {
	if utf8.RuneCountInString(body) <= limit {
		return body
	}
	runes := []rune(body)
	return string(runes[:limit-1]) + "…"
}
