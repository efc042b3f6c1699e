// internal/workers/carehome/send-shortlist-notification/handler.go
package sendshortlistnotification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"carehome-workers/internal/common/aws"
	"carehome-workers/internal/common/camunda"
	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/common/metrics"
	"carehome-workers/internal/models"
	"carehome-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-shortlist-notification"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// EmailSender is satisfied by *aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, email aws.Email) (string, error)
}

// SMSSender is satisfied by *aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message, senderID string) (string, error)
}

// ContactSource is satisfied by *store.Repository.
type ContactSource interface {
	ClientContact(ctx context.Context, clientID string) (*models.ContactDetails, error)
}

type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	contacts     ContactSource
	newID        func() string
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler accepts nil senders; a nil sender disables its channel.
func NewHandler(config *Config, email EmailSender, sms SMSSender, contacts ContactSource, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
		contacts:     contacts,
		newID:        func() string { return uuid.New().String() },
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	done := metrics.Track(TaskType)

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		done(string(stdErr.Code))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		done(string(apperrors.Normalize(err).Code))
		return
	}

	h.completeJob(ctx, client, job, output)
	done("")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.ClientID) == "" && input.Contact == nil {
		return nil, apperrors.NewInvalidInputError("clientId or contact is required")
	}

	output := &Output{
		NotificationID: h.newID(),
		Channels:       []string{},
	}

	contact, err := h.resolveContact(ctx, input)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return h.skip(output, input.ClientID, "no contact details on record"), nil
		}
		if store.IsConnectionError(err) {
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}
		return nil, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeClientContact), err)
	}

	sendEmail := h.config.EmailEnabled && h.email != nil && contact.Email != ""
	sendSMS := h.config.SMSEnabled && h.sms != nil && contact.Phone != ""
	if !sendEmail && !sendSMS {
		return h.skip(output, input.ClientID, "no enabled channel for contact"), nil
	}

	if sendEmail {
		id, err := h.email.SendEmail(ctx, aws.Email{
			From:     h.config.FromEmail,
			To:       []string{contact.Email},
			Subject:  emailSubject,
			TextBody: emailBody(contact.Name, input.Selection),
		})
		if err != nil {
			return nil, apperrors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		output.EmailMessageID = id
		output.Channels = append(output.Channels, ChannelEmail)
	}

	if sendSMS {
		id, err := h.sms.SendSMS(ctx, contact.Phone, smsBody(input.Selection), h.config.SenderID)
		if err != nil {
			return nil, apperrors.NewNotificationSendFailedError(ChannelSMS, err)
		}
		output.SMSMessageID = id
		output.Channels = append(output.Channels, ChannelSMS)
	}

	h.logger.Info("shortlist notification sent", map[string]interface{}{
		"clientId":       input.ClientID,
		"notificationId": output.NotificationID,
		"channels":       output.Channels,
		"shortlisted":    len(input.Selection.Recommendations),
	})

	return output, nil
}

// resolveContact prefers inline details and falls back to the store.
func (h *Handler) resolveContact(ctx context.Context, input *Input) (*models.ContactDetails, error) {
	if input.Contact != nil && (input.Contact.Email != "" || input.Contact.Phone != "") {
		return input.Contact, nil
	}
	if h.contacts == nil || strings.TrimSpace(input.ClientID) == "" {
		return nil, store.ErrNotFound
	}
	return h.contacts.ClientContact(ctx, input.ClientID)
}

func (h *Handler) skip(output *Output, clientID, reason string) *Output {
	h.logger.Warn("shortlist notification skipped", map[string]interface{}{
		"clientId": clientID,
		"reason":   reason,
	})
	output.Skipped = true
	output.SkipReason = reason
	return output
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	sendCtx, cancel := camunda.CommandContext(ctx)
	defer cancel()
	if _, err = cmd.Send(sendCtx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
