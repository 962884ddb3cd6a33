package notify

import (
	"bytes"
	"fmt"
	"log"

	"muebles_back_end/internal/models"

	"github.com/skip2/go-qrcode"
	"github.com/wneessen/go-mail"
)

// Mailer implementa Notifier sobre SMTP
type Mailer struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
	ClientURL  string
}

func (m *Mailer) send(to, subject, html string, attachment []byte, attachmentName string) error {
	msg := mail.NewMsg()

	if err := msg.From(m.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	if attachment != nil {
		msg.AttachReader(attachmentName, bytes.NewReader(attachment))
	}

	client, err := mail.NewClient(m.Host,
		mail.WithPort(m.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.Username),
		mail.WithPassword(m.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Enviando e-mail a", to)
	return client.DialAndSend(msg)
}

// SendOrderConfirmation manda el correo de pago confirmado, con un QR
// al seguimiento del pedido adjunto.
func (m *Mailer) SendOrderConfirmation(order *models.Order) error {
	trackingURL := fmt.Sprintf("%s/orders/%s", m.ClientURL, order.OrderNumber)

	qr, err := qrcode.Encode(trackingURL, qrcode.Medium, 256)
	if err != nil {
		log.Printf("⚠️ No se pudo generar el QR de seguimiento: %v", err)
		qr = nil
	}

	subject := fmt.Sprintf("Pedido confirmado #%s", order.OrderNumber)
	return m.send(order.Customer.Email, subject, confirmationHTML(order, trackingURL), qr, "seguimiento_pedido.png")
}

// SendStatusNotification manda el correo que corresponde al estado
// actual del pedido. Estados sin correo asociado no envían nada.
func (m *Mailer) SendStatusNotification(order *models.Order) error {
	subject, message := statusEmailContent(order)
	if subject == "" {
		return nil
	}
	return m.send(order.Customer.Email, subject, statusHTML(order, message), nil, "")
}

// SendLowStockAlert avisa al admin que un producto se está quedando sin stock
func (m *Mailer) SendLowStockAlert(product *models.Product) error {
	if m.AdminEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Stock bajo: %s", product.Name)
	html := fmt.Sprintf(`
		<h2>Alerta de Stock Bajo</h2>
		<p>El producto <strong>%s</strong> tiene stock bajo.</p>
		<p>Stock actual: %d unidades</p>
		<p>Se recomienda reponer el inventario pronto.</p>`,
		product.Name, product.Stock)
	return m.send(m.AdminEmail, subject, html, nil, "")
}
