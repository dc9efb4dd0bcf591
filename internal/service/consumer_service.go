package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"pdf-toolbox-bot/internal/dto"
	"pdf-toolbox-bot/internal/messenger"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/pkg/mailer"
	"pdf-toolbox-bot/internal/texts"
	"pdf-toolbox-bot/pkg/convert"
	"pdf-toolbox-bot/pkg/events"
	"pdf-toolbox-bot/pkg/pagespec"
	"pdf-toolbox-bot/pkg/session"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-telegram/bot/models"
)

// Converter runs one finalized request.
type Converter interface {
	Run(ctx context.Context, req session.OperationRequest) (*convert.Result, error)
}

// Cleaner removes files owned by a finished job.
type Cleaner interface {
	Cleanup(paths ...string)
}

// EventPublisher puts operation outcomes on the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// OperationFeed pushes outcomes to live admin dashboards.
type OperationFeed interface {
	Broadcast(ev events.OperationEvent)
}

// MenuFunc builds the keyboard shown after a job finishes.
type MenuFunc func(lang string) *models.InlineKeyboardMarkup

type IConsumerService interface {
	// Consume starts the workers and returns once they are subscribed.
	Consume(ctx context.Context) error
	// Wait blocks until every worker has stopped.
	Wait()
}

type ConsumerDeps struct {
	Subscriber message.Subscriber
	TopicName  string
	Workers    int
	Engine     Converter
	Workspace  Cleaner
	Out        messenger.Messenger
	Operations IOperationService
	Stats      IStatsService
	// Events and Feed are optional.
	Events EventPublisher
	Feed   OperationFeed
	Mailer mailer.IAlertMailer
	Menu   MenuFunc
	Logger logger.ILogger
}

type consumerService struct {
	ConsumerDeps
	wg  sync.WaitGroup
	now func() time.Time
}

func NewConsumerService(deps ConsumerDeps) IConsumerService {
	if deps.Workers <= 0 {
		deps.Workers = 1
	}
	return &consumerService{ConsumerDeps: deps, now: time.Now}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.Subscriber.Subscribe(ctx, cs.TopicName)
	if err != nil {
		return err
	}

	for i := 0; i < cs.Workers; i++ {
		cs.wg.Add(1)
		go func() {
			defer cs.wg.Done()
			for msg := range messages {
				cs.processMessage(ctx, msg)
			}
		}()
	}

	cs.Logger.Info("ConsumerService", "Conversion workers started", map[string]interface{}{
		"topic":   cs.TopicName,
		"workers": cs.Workers,
	})
	return nil
}

func (cs *consumerService) Wait() {
	cs.wg.Wait()
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.Job
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		userID, _ := strconv.ParseInt(msg.Metadata.Get(MetadataUserID), 10, 64)
		cs.Logger.Error("ConsumerService", "Failed to unmarshal job", map[string]interface{}{
			"message_id": msg.UUID,
			"user_id":    userID,
			"error":      err.Error(),
		})
		if userID != 0 {
			cs.Operations.Done(userID)
		}
		msg.Ack()
		return
	}
	if ctx.Err() != nil {
		// Shutting down; leave the job to the next delivery.
		msg.Nack()
		return
	}
	defer cs.Operations.Done(job.Request.UserID)

	started := cs.now()
	cs.Out.Typing(ctx, job.ChatID)

	res, err := cs.Engine.Run(ctx, job.Request)
	ev := events.OperationEvent{
		JobID:   job.ID,
		UserID:  job.Request.UserID,
		Feature: string(job.Request.Feature),
		Inputs:  len(job.Request.Inputs),
		Options: optionList(job.Request.Options),
	}
	if err != nil {
		ev.Error = err.Error()
		var convErr *convert.ExternalConversionError
		if errors.As(err, &convErr) {
			ev.Tool = convErr.Tool
		}
		cs.reportFailure(ctx, job, err, ev)
	} else {
		ev.Outputs, err = cs.deliver(ctx, job, res)
		if err != nil {
			ev.Error = err.Error()
		}
	}

	cs.Workspace.Cleanup(job.Request.Paths()...)
	cs.Workspace.Cleanup(res.Paths()...)

	if cs.Menu != nil {
		_ = cs.Out.Send(ctx, job.ChatID, texts.Get(job.Language, "choose_action"), cs.Menu(job.Language))
	}

	ev.Duration = cs.now().Sub(started)
	ev.OccurredAt = cs.now()
	cs.record(ctx, ev)

	cs.Logger.Info("ConsumerService", "Job finished", map[string]interface{}{
		"job_id":      job.ID,
		"user_id":     job.Request.UserID,
		"feature":     ev.Feature,
		"outputs":     ev.Outputs,
		"duration_ms": ev.Duration.Milliseconds(),
		"failed":      ev.Error != "",
	})
	msg.Ack()
}

// deliver sends every artifact and the inline text, returning how many
// messages went out. It fails only when nothing could be delivered.
func (cs *consumerService) deliver(ctx context.Context, job dto.Job, res *convert.Result) (int, error) {
	sent, attempted := 0, 0
	var lastErr error

	if res.Text != "" {
		attempted++
		if err := cs.Out.SendPlain(ctx, job.ChatID, res.Text); err != nil {
			lastErr = err
		} else {
			sent++
		}
	}
	for _, a := range res.Artifacts {
		attempted++
		caption := ""
		if a.CaptionKey != "" {
			caption = texts.Format(job.Language, a.CaptionKey, a.CaptionArgs)
		}
		if err := cs.Out.SendDocument(ctx, job.ChatID, a.Path, a.Name, caption); err != nil {
			lastErr = err
			cs.Logger.Warn("ConsumerService", "Failed to send artifact", map[string]interface{}{
				"job_id": job.ID,
				"name":   a.Name,
				"error":  err.Error(),
			})
			continue
		}
		sent++
	}

	if sent == 0 && attempted > 0 {
		return 0, fmt.Errorf("delivery failed: %w", lastErr)
	}
	return sent, nil
}

func (cs *consumerService) reportFailure(ctx context.Context, job dto.Job, err error, ev events.OperationEvent) {
	key, expected := FailureKey(job.Request.Feature, err)
	_ = cs.Out.Send(ctx, job.ChatID, texts.Get(job.Language, key), nil)

	details := map[string]interface{}{
		"job_id":  job.ID,
		"user_id": job.Request.UserID,
		"feature": ev.Feature,
		"tool":    ev.Tool,
		"error":   err.Error(),
	}
	if expected {
		cs.Logger.Warn("ConsumerService", "Operation rejected", details)
		return
	}
	cs.Logger.Error("ConsumerService", "Operation failed", details)

	if cs.Mailer == nil {
		return
	}
	alert := mailer.Alert{
		JobID:      job.ID,
		UserID:     job.Request.UserID,
		Feature:    ev.Feature,
		Tool:       ev.Tool,
		Error:      err.Error(),
		OccurredAt: cs.now(),
	}
	if mErr := cs.Mailer.SendFailureAlert(alert); mErr != nil {
		cs.Logger.Warn("ConsumerService", "Failed to send failure alert", map[string]interface{}{
			"job_id": job.ID,
			"error":  mErr.Error(),
		})
	}
}

// record publishes ev, falling back to writing it straight to the stats
// store when there is no bus or publishing fails.
func (cs *consumerService) record(ctx context.Context, ev events.OperationEvent) {
	if cs.Feed != nil {
		cs.Feed.Broadcast(ev)
	}
	if cs.Events != nil {
		err := cs.Events.Publish(ctx, ev)
		if err == nil {
			return
		}
		cs.Logger.Warn("ConsumerService", "Failed to publish operation event", map[string]interface{}{
			"job_id": ev.JobID,
			"error":  err.Error(),
		})
	}
	if err := cs.Stats.Record(ctx, ev); err != nil {
		cs.Logger.Error("ConsumerService", "Failed to record operation", map[string]interface{}{
			"job_id": ev.JobID,
			"error":  err.Error(),
		})
	}
}

// FailureKey maps a conversion error to the text shown to the user. The
// second result is false for failures worth alerting the operators about.
func FailureKey(feature session.Feature, err error) (string, bool) {
	switch {
	case errors.Is(err, convert.ErrWrongPassword):
		return "password_incorrect", true
	case errors.Is(err, convert.ErrNotEncrypted):
		return "no_password_needed", true
	case errors.Is(err, convert.ErrNoText):
		return "no_text_found", true
	case errors.Is(err, convert.ErrNoImages):
		return "no_images_found", true
	case errors.Is(err, convert.ErrAllPages):
		return "all_pages_removed", true
	case errors.Is(err, convert.ErrOCRUnavailable):
		return "ocr_unavailable", true
	case errors.Is(err, pagespec.ErrInvalidSpec):
		return "invalid_page_spec", true
	case feature == session.FeatureRepair:
		return "pdf_damaged", true
	}
	return "conversion_failed", false
}

// optionList renders options as sorted "kind=value" pairs with secrets masked.
func optionList(opts map[session.OptionKind]string) []string {
	if len(opts) == 0 {
		return nil
	}
	out := make([]string, 0, len(opts))
	for k, v := range opts {
		if k == session.OptionPassword || k == session.OptionNewPassword {
			v = "***"
		}
		out = append(out, string(k)+"="+v)
	}
	sort.Strings(out)
	return out
}
