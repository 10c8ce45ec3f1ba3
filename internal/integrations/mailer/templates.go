package mailer

import (
	"fmt"

	"github.com/astroindira/booking-service/internal/domain"
)

func amountDisplay(b *domain.Booking) string {
	if b.AmountPaise == 0 {
		return "Free (First Time)"
	}
	return fmt.Sprintf("₹%.2f", float64(b.AmountPaise)/100)
}

func serviceName(b *domain.Booking) string {
	if entry, ok := domain.ServiceByID(b.ServiceID); ok {
		return entry.Name
	}
	return b.ServiceID
}

func slotDisplay(b *domain.Booking) string {
	if !b.HasSlot() {
		return "To be scheduled"
	}
	return fmt.Sprintf("%s at %s", b.PreferredDate.Format("02 Jan 2006"), b.PreferredTime)
}

func detailsTable(b *domain.Booking) string {
	return fmt.Sprintf(`<table style="width: 100%%; border-collapse: collapse;">
		<tr><td style="padding: 8px 0;"><strong>Booking ID:</strong></td><td>%s</td></tr>
		<tr><td style="padding: 8px 0;"><strong>Astrologer:</strong></td><td>%s</td></tr>
		<tr><td style="padding: 8px 0;"><strong>Service:</strong></td><td>%s</td></tr>
		<tr><td style="padding: 8px 0;"><strong>Duration:</strong></td><td>%s minutes</td></tr>
		<tr><td style="padding: 8px 0;"><strong>Slot:</strong></td><td>%s</td></tr>
		<tr><td style="padding: 8px 0;"><strong>Amount:</strong></td><td>%s</td></tr>
	</table>`,
		b.ID, b.Astrologer, serviceName(b), b.DurationTier, slotDisplay(b), amountDisplay(b))
}

func wrapBody(heading, inner string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #7c3aed;">%s</h2>
		%s
		<p style="margin-top: 30px;">Best regards,<br>
		<strong>Mrs. Indira Pandey Team</strong></p>
	</div>
</body>
</html>`, heading, inner)
}

func bookingCreatedBody(b *domain.Booking) string {
	inner := fmt.Sprintf(`<p>Dear %s,</p>
		<p>Thank you for booking a consultation with us!</p>
		<h3 style="color: #7c3aed;">Booking Details:</h3>
		%s
		<p style="margin-top: 20px;">We will review your request and contact you within 24 hours.</p>`,
		b.Name, detailsTable(b))
	return wrapBody("Booking Confirmation", inner)
}

func paymentConfirmedBody(b *domain.Booking) string {
	inner := fmt.Sprintf(`<p>Dear %s,</p>
		<p>Your payment has been received and your consultation is confirmed.</p>
		<h3 style="color: #7c3aed;">Booking Details:</h3>
		%s
		<p style="margin-top: 20px;">We look forward to speaking with you.</p>`,
		b.Name, detailsTable(b))
	return wrapBody("Payment Confirmed", inner)
}

func bookingCancelledBody(b *domain.Booking) string {
	reason := ""
	if b.CancellationReason != nil && *b.CancellationReason != "" {
		reason = fmt.Sprintf(`<p><strong>Reason:</strong> %s</p>`, *b.CancellationReason)
	}
	refund := ""
	if b.RefundAmountPaise != nil && *b.RefundAmountPaise > 0 {
		refund = fmt.Sprintf(`<p>A refund of ₹%.2f has been initiated and will reflect in 5-7 business days.</p>`,
			float64(*b.RefundAmountPaise)/100)
	}
	inner := fmt.Sprintf(`<p>Dear %s,</p>
		<p>Your consultation booking has been cancelled.</p>
		%s
		<h3 style="color: #7c3aed;">Booking Details:</h3>
		%s
		%s`,
		b.Name, reason, detailsTable(b), refund)
	return wrapBody("Booking Cancelled", inner)
}
