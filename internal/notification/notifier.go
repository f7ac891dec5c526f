// Package notification confirms an enrollment to the student by email and SMS.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	awsclient "student-enrollment/internal/common/aws"
	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/models"
)

const HookName = "notification"

const (
	TypeEmail = "email"
	TypeSMS   = "sms"
)

const (
	emailSubject = "Enrollment received: {{college}}"
	emailBody    = "Dear {{candidateName}},\n\nYour enrollment for {{course}} at {{college}} has been received under student ID {{studentId}}. Our admissions team will contact you shortly.\n"
	smsBody      = "Hi {{candidateName}}, your enrollment for {{course}} at {{college}} is received. Student ID: {{studentId}}."
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SenderID     string
	CountryCode  string
}

// Notifier sends the enrollment confirmation. Channels that are disabled or
// have no address on the record are skipped.
type Notifier struct {
	config    Config
	sesClient awsclient.SESService
	snsClient awsclient.SNSService
	logger    logger.Logger
}

func NewNotifier(config Config, sesClient awsclient.SESService, snsClient awsclient.SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    log.WithFields(map[string]interface{}{"hook": HookName}),
	}
}

func (n *Notifier) Name() string { return HookName }

func (n *Notifier) OnEnrolled(ctx context.Context, rec models.StudentRecord) error {
	data := map[string]string{
		"studentId":     rec.StudentID,
		"candidateName": rec.CandidateName,
		"college":       rec.College,
		"course":        rec.Course,
	}

	var errs []error

	if n.config.EmailEnabled && n.sesClient != nil && rec.CandidateEmail != "" {
		if err := n.sendEmail(ctx, rec.CandidateEmail, renderTemplate(emailSubject, data), renderTemplate(emailBody, data)); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"studentId": rec.StudentID,
				"error":     err.Error(),
			})
			errs = append(errs, apperrors.NewNotificationSendFailedError(TypeEmail, err))
		} else {
			n.logger.Info("confirmation email sent", map[string]interface{}{"studentId": rec.StudentID})
		}
	}

	if n.config.SMSEnabled && n.snsClient != nil && rec.CandidateNumber != "" {
		if err := n.sendSMS(ctx, n.phoneNumber(rec.CandidateNumber), renderTemplate(smsBody, data)); err != nil {
			n.logger.Error("SMS send failed", map[string]interface{}{
				"studentId": rec.StudentID,
				"error":     err.Error(),
			})
			errs = append(errs, apperrors.NewNotificationSendFailedError(TypeSMS, err))
		} else {
			n.logger.Info("confirmation SMS sent", map[string]interface{}{"studentId": rec.StudentID})
		}
	}

	return errors.Join(errs...)
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		},
	}
	if n.config.SenderID != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(n.config.SenderID),
		}
	}
	_, err := n.snsClient.Publish(ctx, input)
	return err
}

// phoneNumber turns a 10-digit local number into E.164 using the configured
// country code.
func (n *Notifier) phoneNumber(local string) string {
	if strings.HasPrefix(local, "+") || n.config.CountryCode == "" {
		return local
	}
	return fmt.Sprintf("%s%s", n.config.CountryCode, local)
}

// renderTemplate replaces {{key}} placeholders and drops unknown ones.
func renderTemplate(tmpl string, data map[string]string) string {
	result := tmpl
	for k, v := range data {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}
	return result
}
