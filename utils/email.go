package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"gopkg.in/gomail.v2"
)

// sendMail delivers a single HTML mail via the configured SMTP relay.
func sendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		// Mail is best-effort; stay quiet when no relay is configured.
		LogDebug("SMTP_HOST not set, skipping mail to %s", to)
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendOrderPlacedEmail mails the order confirmation to the customer.
// Called after commit; a mail failure never affects the order.
func SendOrderPlacedEmail(to string, order *models.Order) {
	body := fmt.Sprintf(
		"<h2>Order %s placed</h2>"+
			"<p>Thank you for shopping with us.</p>"+
			"<p>Items total: ₹%.2f<br>Delivery: ₹%.2f<br>Discounts: ₹%.2f<br><b>Amount payable: ₹%.2f</b></p>",
		order.OrderNumber, order.Subtotal, order.DeliveryCharge,
		order.CouponDiscount+order.PointsDiscount, order.FinalTotal,
	)
	if err := sendMail(to, fmt.Sprintf("Order %s confirmed", order.OrderNumber), body); err != nil {
		LogError("Failed to send order placed email for order %s: %v", order.OrderNumber, err)
	}
}

// SendOrderStatusEmail mails a status change notice to the customer.
func SendOrderStatusEmail(to string, order *models.Order) {
	body := fmt.Sprintf(
		"<h2>Order %s update</h2><p>Your order is now <b>%s</b>.</p>",
		order.OrderNumber, order.Status,
	)
	if err := sendMail(to, fmt.Sprintf("Order %s is %s", order.OrderNumber, order.Status), body); err != nil {
		LogError("Failed to send status email for order %s: %v", order.OrderNumber, err)
	}
}
