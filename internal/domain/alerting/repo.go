package alerting

import "context"

// Repository persists alerts and their fan-out notifications. Each
// notification write is independent so one failed recipient does not take
// down the rest of the fan-out.
type Repository interface {
	CreateAlert(ctx context.Context, a *Alert) error
	GetAlert(ctx context.Context, id string) (*Alert, error)
	UpdateAlert(ctx context.Context, a *Alert) error
	ListAlertsByOwner(ctx context.Context, ownerID string) ([]*Alert, error)

	CreateNotification(ctx context.Context, n *Notification) error
	GetNotification(ctx context.Context, id string) (*Notification, error)
	UpdateNotification(ctx context.Context, n *Notification) error
	ListNotificationsByRecipient(ctx context.Context, recipientID string) ([]*Notification, error)
}
