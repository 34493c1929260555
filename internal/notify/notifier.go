// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"repair-dispatch/internal/common/aws"
	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/common/metrics"
	"repair-dispatch/internal/dispatch"
	"repair-dispatch/internal/models"
)

// Notifier delivers booking confirmations. Delivery failures are logged and
// counted but never affect the booking response.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking models.Booking, assignment *dispatch.TechnicianAssignment) error
}

// AWSNotifier sends confirmations over SES (email) and SNS (SMS), whichever
// contact details the booking carries.
type AWSNotifier struct {
	sesClient *aws.SESClient
	snsClient *aws.SNSClient
	fromEmail string
	logger    logger.Logger
}

func NewAWSNotifier(sesClient *aws.SESClient, snsClient *aws.SNSClient, fromEmail string, log logger.Logger) *AWSNotifier {
	return &AWSNotifier{
		sesClient: sesClient,
		snsClient: snsClient,
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

func (n *AWSNotifier) BookingConfirmed(ctx context.Context, booking models.Booking, assignment *dispatch.TechnicianAssignment) error {
	subject := fmt.Sprintf("Repair booking %s confirmed", booking.ID)
	body := confirmationBody(booking, assignment)

	if booking.CustomerEmail != "" && n.sesClient != nil {
		_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
			Source:      awssdk.String(n.fromEmail),
			Destination: &sestypes.Destination{ToAddresses: []string{booking.CustomerEmail}},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: awssdk.String(subject)},
				Body:    &sestypes.Body{Text: &sestypes.Content{Data: awssdk.String(body)}},
			},
		})
		if err != nil {
			metrics.NotificationsSent.WithLabelValues("email", "failed").Inc()
			n.logger.Error("confirmation email failed", map[string]interface{}{
				"bookingId": booking.ID,
				"error":     err.Error(),
			})
			return err
		}
		metrics.NotificationsSent.WithLabelValues("email", "sent").Inc()
	}

	if booking.CustomerPhone != "" && n.snsClient != nil {
		_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
			PhoneNumber: awssdk.String(booking.CustomerPhone),
			Message:     awssdk.String(body),
		})
		if err != nil {
			metrics.NotificationsSent.WithLabelValues("sms", "failed").Inc()
			n.logger.Error("confirmation SMS failed", map[string]interface{}{
				"bookingId": booking.ID,
				"error":     err.Error(),
			})
			return err
		}
		metrics.NotificationsSent.WithLabelValues("sms", "sent").Inc()
	}

	return nil
}

func confirmationBody(booking models.Booking, assignment *dispatch.TechnicianAssignment) string {
	return fmt.Sprintf(
		"Your %s repair is booked. Technician %s (rated %.1f) is about %s away, roughly %s of travel.",
		booking.DeviceType,
		assignment.Technician.Name,
		assignment.Technician.Rating,
		assignment.DistanceText,
		assignment.DurationText,
	)
}

// NoopNotifier is used when no channel is configured.
type NoopNotifier struct{}

func (NoopNotifier) BookingConfirmed(context.Context, models.Booking, *dispatch.TechnicianAssignment) error {
	return nil
}
