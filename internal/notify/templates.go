package notify

import (
	"fmt"
	"strings"

	"muebles_back_end/internal/models"
)

func confirmationHTML(order *models.Order, trackingURL string) string {
	var items strings.Builder
	for _, item := range order.Items {
		items.WriteString(fmt.Sprintf(`
			<li>%s x%d - $%.2f</li>`, item.ProductName, item.Quantity, item.TotalPrice))
	}

	return fmt.Sprintf(`
<h1>¡Gracias por tu compra!</h1>
<p>Hola %s,</p>
<p>Tu pedido <strong>#%s</strong> ha sido confirmado y pagado exitosamente.</p>

<h2>Detalles del pedido:</h2>
<ul>%s
</ul>

<p><strong>Total: $%.2f</strong></p>

<p>Podés seguir tu pedido en <a href="%s">%s</a> (o escaneando el QR adjunto).</p>

<p>Te notificaremos cuando tu pedido sea enviado.</p>

<p>¡Gracias por elegir Muebles Artesanales!</p>`,
		order.Customer.FirstName, order.OrderNumber, items.String(),
		order.Total, trackingURL, trackingURL)
}

func statusEmailContent(order *models.Order) (subject, message string) {
	switch order.Status {
	case models.OrderShipped:
		subject = fmt.Sprintf("Tu pedido #%s ha sido enviado", order.OrderNumber)
		message = "<p>¡Buenas noticias! Tu pedido ha sido enviado.</p>"
		if order.TrackingNumber != "" {
			message += fmt.Sprintf("<p>Número de seguimiento: <strong>%s</strong></p>", order.TrackingNumber)
		}
		message += "<p>Recibirás tu pedido en los próximos días.</p>"

	case models.OrderDelivered:
		subject = fmt.Sprintf("Tu pedido #%s ha sido entregado", order.OrderNumber)
		message = `
			<p>¡Tu pedido ha sido entregado exitosamente!</p>
			<p>Esperamos que disfrutes tus muebles artesanales.</p>
			<p>Si tienes alguna consulta, no dudes en contactarnos.</p>`

	case models.OrderCancelled:
		subject = fmt.Sprintf("Tu pedido #%s ha sido cancelado", order.OrderNumber)
		message = `
			<p>Tu pedido ha sido cancelado.</p>
			<p>Si realizaste el pago, será reembolsado en los próximos días hábiles.</p>
			<p>Si tienes consultas, contáctanos.</p>`
	}
	return subject, message
}

func statusHTML(order *models.Order, message string) string {
	return fmt.Sprintf(`
<h1>Actualización de tu pedido</h1>
<p>Hola %s,</p>
%s
<p>Pedido: <strong>#%s</strong></p>
<p>¡Gracias por elegir Muebles Artesanales!</p>`,
		order.Customer.FirstName, message, order.OrderNumber)
}
