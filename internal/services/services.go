package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rental-backend/internal/apperr"
	"rental-backend/internal/billing"
	"rental-backend/internal/models"
	"rental-backend/internal/notify"
	"rental-backend/internal/store"
	"rental-backend/internal/timeutil"
)

// Clock returns the current instant. Services default to timeutil.Now.
type Clock func() time.Time

// BillingOptions are the tunables from the billing config section
type BillingOptions struct {
	GraceDays            int
	Charges              billing.Charges
	SweepOverdueOnVerify bool

	// AutoMarkOverdue is set while the background sweeper turns late rent
	// OVERDUE. Overdue rent then stays payable so it cannot fall out of dues.
	AutoMarkOverdue bool
}

// SettlesOverdue reports whether OVERDUE rent counts towards dues and is
// settled by verification.
func (o BillingOptions) SettlesOverdue() bool {
	return o.SweepOverdueOnVerify || o.AutoMarkOverdue
}

// stamp returns now in Nepal time together with its Bikram Sambat string
func stamp(now time.Time) (time.Time, string) {
	t := timeutil.ToNPT(now)
	return t, timeutil.FormatBS(t)
}

// parseDate reads an optional YYYY-MM-DD field, falling back to now
func parseDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	t, err := timeutil.ParseInNPT(timeutil.DateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation("date must be YYYY-MM-DD")
	}
	return t, nil
}

// notFound turns store.ErrNotFound into a 404 naming the entity
func notFound(err error, entity string, id int) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("%s %d not found", entity, id)
	}
	return err
}

// outbox collects notifications written inside a transaction so they can be
// pushed to the realtime channel once the transaction has committed.
type outbox struct {
	pending []*models.Notification
}

func (o *outbox) notify(ctx context.Context, st store.Store, userID int, kind, title, message string) error {
	n := &models.Notification{UserID: userID, Kind: kind, Title: title, Message: message}
	if err := st.Notifications().Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	o.pending = append(o.pending, n)
	return nil
}

// notifyRole writes one notification per active user holding role
func (o *outbox) notifyRole(ctx context.Context, st store.Store, role, kind, title, message string) error {
	users, err := st.Users().ListByRole(ctx, role)
	if err != nil {
		return fmt.Errorf("list %s users: %w", role, err)
	}
	for _, u := range users {
		if err := o.notify(ctx, st, u.ID, kind, title, message); err != nil {
			return err
		}
	}
	return nil
}

// publish is best effort: the rows are already committed and remain readable
func (o *outbox) publish(ctx context.Context, pub notify.Publisher) {
	if pub == nil {
		return
	}
	for _, n := range o.pending {
		if err := pub.Publish(ctx, n); err != nil {
			log.Printf("[Notify] Failed to publish notification %d: %v", n.ID, err)
		}
	}
	o.pending = nil
}
