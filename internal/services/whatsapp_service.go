package services

import (
	"context"
	"fmt"
	applog "order_manager/internal/logger"
	"order_manager/internal/models"
	"order_manager/pkg/whatsapp"
	"time"

	"github.com/sirupsen/logrus"
)

// OrderNotifier tells a customer about an order placed on their behalf.
type OrderNotifier interface {
	OrderPlaced(customer *models.User, order *models.Order, productCount int)
}

type whatsappNotifier struct {
	client  *whatsapp.Client
	timeout time.Duration
	log     *logrus.Logger
}

func NewWhatsAppNotifier(client *whatsapp.Client) OrderNotifier {
	return &whatsappNotifier{client: client, timeout: 15 * time.Second, log: applog.Get()}
}

// OrderPlaced sends in the background; delivery failures are logged only.
func (n *whatsappNotifier) OrderPlaced(customer *models.User, order *models.Order, productCount int) {
	if customer == nil || customer.Phone == "" {
		return
	}
	message := OrderPlacedMessage(customer, order, productCount)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if _, err := n.client.SendTextMessage(ctx, customer.Phone, message); err != nil {
			applog.LogError(n.log, "notifier", "OrderPlaced", "sending whatsapp message", order.ID, err)
		}
	}()
}

func OrderPlacedMessage(customer *models.User, order *models.Order, productCount int) string {
	name := customer.Name
	if name == "" {
		name = customer.Username
	}
	return fmt.Sprintf("Hello %s, your %s order #%d with %d products (total %s) has been placed.",
		name, order.OrderType, order.ID, productCount, order.TotalAmount.StringFixed(2))
}
