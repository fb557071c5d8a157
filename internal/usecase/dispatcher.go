package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/polkiloo/digistore/internal/adapter/mail"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// Dispatcher runs the completion side effects of an order. Every step is
// best-effort: failures are logged and never undo the status change.
type Dispatcher struct {
	products      repository.ProductRepository
	users         repository.UserRepository
	licenses      repository.LicenseRepository
	notifications repository.NotificationRepository
	mailer        mail.Sender
	gamification  *GamificationUseCase
	publicURL     string
	logger        *slog.Logger
	newKey        func() string
}

// DispatchReport tells which steps succeeded.
type DispatchReport struct {
	License      *model.LicenseKey
	Notification *model.Notification
	Mailed       bool
	XP           *model.GamificationProfile
}

// NewDispatcher constructs Dispatcher.
func NewDispatcher(
	products repository.ProductRepository,
	users repository.UserRepository,
	licenses repository.LicenseRepository,
	notifications repository.NotificationRepository,
	mailer mail.Sender,
	gamification *GamificationUseCase,
	settings Settings,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		products:      products,
		users:         users,
		licenses:      licenses,
		notifications: notifications,
		mailer:        mailer,
		gamification:  gamification,
		publicURL:     settings.PublicBaseURL,
		logger:        logger,
		newKey:        newLicenseKey,
	}
}

func newLicenseKey() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Dispatch must be called once, right after the order became COMPLETED.
func (d *Dispatcher) Dispatch(ctx context.Context, order *model.Order) DispatchReport {
	// the transition already committed; a client disconnect must not cut the fan-out short
	ctx = context.WithoutCancel(ctx)

	var report DispatchReport
	log := d.logger.With(slog.Int64("order_id", order.ID), slog.Int64("user_id", order.UserID))

	product, err := d.products.GetByID(ctx, order.ProductID)
	if err != nil {
		log.Warn("product lookup failed, using order total", slog.String("step", "license"), slog.String("error", err.Error()))
	}

	if needsLicense(product, order) {
		key, created, err := d.licenses.Issue(ctx, order.ID, d.newKey())
		switch {
		case err != nil:
			log.Warn("side effect failed", slog.String("step", "license"), slog.String("error", err.Error()))
		case !created:
			log.Warn("license already issued", slog.String("step", "license"))
			report.License = key
		default:
			report.License = key
		}
	}

	title := fmt.Sprintf("order #%d", order.ID)
	if product != nil {
		title = product.Title
	}
	link := fmt.Sprintf("/orders/%d", order.ID)
	n, err := d.notifications.Create(ctx, order.UserID, fmt.Sprintf("Your purchase of %s is complete", title), &link)
	if err != nil {
		log.Warn("side effect failed", slog.String("step", "notification"), slog.String("error", err.Error()))
	}
	report.Notification = n

	report.Mailed = d.sendApprovalMail(ctx, log, order, title, report.License)

	profile, err := d.gamification.AwardXP(ctx, order.UserID, model.XPForPurchase, model.XPReasonBuyProduct)
	if err != nil {
		log.Warn("side effect failed", slog.String("step", "xp"), slog.String("error", err.Error()))
	}
	report.XP = profile

	return report
}

// needsLicense falls back to the order total when the product is unavailable,
// so a paid order is never left without a key.
func needsLicense(product *model.Product, order *model.Order) bool {
	if product != nil {
		return !product.Free()
	}
	return !order.Total.IsZero()
}

func (d *Dispatcher) sendApprovalMail(ctx context.Context, log *slog.Logger, order *model.Order, title string, license *model.LicenseKey) bool {
	user, err := d.users.GetByID(ctx, order.UserID)
	if err != nil {
		log.Warn("side effect failed", slog.String("step", "mail"), slog.String("error", err.Error()))
		return false
	}
	if user.Email == "" {
		log.Info("buyer has no email, skipping approval mail", slog.String("step", "mail"))
		return false
	}

	data := mail.OrderApprovedData{
		Login:        user.Login,
		OrderID:      order.ID,
		ProductTitle: title,
		DownloadURL:  fmt.Sprintf("%s/api/products/%d/download", d.publicURL, order.ProductID),
	}
	if license != nil {
		data.LicenseKey = license.Key
	}
	err = d.mailer.Send(ctx, mail.Message{To: user.Email, Template: mail.TemplateOrderApproved, Data: data})
	if err != nil {
		log.Warn("side effect failed", slog.String("step", "mail"), slog.String("error", err.Error()))
		return false
	}
	return true
}
