package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"pdf-toolbox-bot/internal/messenger"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/pkg/mailer"
	"pdf-toolbox-bot/internal/repository/memory"
	"pdf-toolbox-bot/pkg/convert"
	"pdf-toolbox-bot/pkg/events"
	"pdf-toolbox-bot/pkg/pagespec"
	"pdf-toolbox-bot/pkg/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	res *convert.Result
	err error
}

func (f *fakeEngine) Run(context.Context, session.OperationRequest) (*convert.Result, error) {
	return f.res, f.err
}

type fakeCleaner struct{ removed []string }

func (f *fakeCleaner) Cleanup(paths ...string) { f.removed = append(f.removed, paths...) }

type fakeMailer struct{ alerts []mailer.Alert }

func (f *fakeMailer) SendFailureAlert(a mailer.Alert) error {
	f.alerts = append(f.alerts, a)
	return nil
}

type fakeFeed struct{ seen []events.OperationEvent }

func (f *fakeFeed) Broadcast(ev events.OperationEvent) { f.seen = append(f.seen, ev) }

type consumerFixture struct {
	cs      *consumerService
	engine  *fakeEngine
	cleaner *fakeCleaner
	out     *messenger.Recorder
	mail    *fakeMailer
	feed    *fakeFeed
	ops     IOperationService
	stats   IStatsService
}

func newConsumerFixture() *consumerFixture {
	f := &consumerFixture{
		engine:  &fakeEngine{},
		cleaner: &fakeCleaner{},
		out:     messenger.NewRecorder(),
		mail:    &fakeMailer{},
		feed:    &fakeFeed{},
	}
	log := logger.NewNopLogger()
	f.ops = NewOperationService(&fakePublisher{}, log)
	f.stats = NewStatsService(memory.NewOperationLogRepository(0), memory.NewUserPreferenceRepository(),
		memory.NewSubscriberRepository(), nil, nil, log)
	f.cs = NewConsumerService(ConsumerDeps{
		Engine:     f.engine,
		Workspace:  f.cleaner,
		Out:        f.out,
		Operations: f.ops,
		Stats:      f.stats,
		Feed:       f.feed,
		Mailer:     f.mail,
		Logger:     log,
	}).(*consumerService)
	return f
}

func (f *consumerFixture) submit(t *testing.T, req session.OperationRequest) *message.Message {
	t.Helper()
	job, err := f.ops.Submit(context.Background(), 99, "en", req)
	require.NoError(t, err)
	payload, err := json.Marshal(job)
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func acked(msg *message.Message) bool {
	select {
	case <-msg.Acked():
		return true
	case <-time.After(time.Second):
		return false
	}
}

func TestProcessMessageDeliversArtifacts(t *testing.T) {
	f := newConsumerFixture()
	f.engine.res = &convert.Result{
		Artifacts: []convert.Artifact{{
			Path:        "/tmp/ws/out.pdf",
			Name:        "merged.pdf",
			CaptionKey:  "merge_done",
			CaptionArgs: map[string]string{"files": "2", "pages": "7", "size": "1.0 MB"},
		}},
		Scratch: []string{"/tmp/ws/scratch"},
	}
	req := session.OperationRequest{
		UserID:  1,
		Feature: session.FeatureMerge,
		Inputs:  []session.Input{{Path: "/tmp/ws/a.pdf"}, {Path: "/tmp/ws/b.pdf"}},
	}
	msg := f.submit(t, req)

	f.cs.processMessage(context.Background(), msg)

	require.True(t, acked(msg))
	docs := f.out.Of("document")
	require.Len(t, docs, 1)
	assert.Equal(t, "merged.pdf", docs[0].Name)
	assert.Contains(t, docs[0].Text, "7")
	assert.ElementsMatch(t, []string{"/tmp/ws/a.pdf", "/tmp/ws/b.pdf", "/tmp/ws/scratch", "/tmp/ws/out.pdf"}, f.cleaner.removed)
	assert.False(t, f.ops.InFlight(1))

	require.Len(t, f.feed.seen, 1)
	assert.Equal(t, events.OperationCompleted, f.feed.seen[0].EventType())
	assert.Equal(t, 1, f.feed.seen[0].Outputs)
	assert.Empty(t, f.mail.alerts)

	recent, err := f.stats.Recent(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "completed", recent[0].Status)
}

func TestProcessMessageFailures(t *testing.T) {
	tests := []struct {
		name      string
		feature   session.Feature
		err       error
		wantText  string
		wantAlert bool
	}{
		{
			name:     "wrong password",
			feature:  session.FeatureUnlock,
			err:      &convert.ExternalConversionError{Feature: session.FeatureUnlock, Tool: "pdfcpu", Cause: convert.ErrWrongPassword},
			wantText: "Incorrect password",
		},
		{
			name:     "no text",
			feature:  session.FeatureExtractText,
			err:      &convert.ExternalConversionError{Feature: session.FeatureExtractText, Cause: convert.ErrNoText},
			wantText: "No text found",
		},
		{
			name:      "tool crash",
			feature:   session.FeatureWordToPDF,
			err:       &convert.ExternalConversionError{Feature: session.FeatureWordToPDF, Tool: "soffice", Cause: errors.New("exit status 1")},
			wantText:  "Processing failed",
			wantAlert: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConsumerFixture()
			f.engine.err = tt.err
			msg := f.submit(t, session.OperationRequest{
				UserID:  2,
				Feature: tt.feature,
				Inputs:  []session.Input{{Path: "/tmp/ws/in"}},
			})

			f.cs.processMessage(context.Background(), msg)

			require.True(t, acked(msg))
			last := f.out.Of("text")
			require.NotEmpty(t, last)
			assert.Contains(t, last[0].Text, tt.wantText)
			assert.Equal(t, []string{"/tmp/ws/in"}, f.cleaner.removed)
			assert.False(t, f.ops.InFlight(2))
			require.Len(t, f.feed.seen, 1)
			assert.Equal(t, events.OperationFailed, f.feed.seen[0].EventType())
			if tt.wantAlert {
				require.Len(t, f.mail.alerts, 1)
				assert.Equal(t, "soffice", f.mail.alerts[0].Tool)
			} else {
				assert.Empty(t, f.mail.alerts)
			}
		})
	}
}

func TestProcessMessageBadPayload(t *testing.T) {
	f := newConsumerFixture()
	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	f.cs.processMessage(context.Background(), msg)
	assert.True(t, acked(msg))
	assert.Empty(t, f.out.All())
}

func TestProcessMessageBadPayloadReleasesUser(t *testing.T) {
	f := newConsumerFixture()
	_ = f.submit(t, session.OperationRequest{UserID: 5, Feature: session.FeatureCompress})
	require.True(t, f.ops.InFlight(5))

	msg := message.NewMessage(watermill.NewUUID(), []byte("{"))
	msg.Metadata.Set(MetadataUserID, "5")
	f.cs.processMessage(context.Background(), msg)

	assert.True(t, acked(msg))
	assert.False(t, f.ops.InFlight(5))
}

func TestProcessMessageDeliveryFailure(t *testing.T) {
	f := newConsumerFixture()
	f.out.FailFor[99] = true
	f.engine.res = &convert.Result{Text: "hello"}
	msg := f.submit(t, session.OperationRequest{UserID: 3, Feature: session.FeatureExtractText, Inputs: []session.Input{{Path: "/tmp/ws/x.pdf"}}})

	f.cs.processMessage(context.Background(), msg)

	require.True(t, acked(msg))
	require.Len(t, f.feed.seen, 1)
	assert.Contains(t, f.feed.seen[0].Error, "delivery failed")
}

func TestFailureKey(t *testing.T) {
	tests := []struct {
		feature  session.Feature
		err      error
		key      string
		expected bool
	}{
		{session.FeatureUnlock, convert.ErrNotEncrypted, "no_password_needed", true},
		{session.FeatureRemovePages, fmt.Errorf("wrap: %w", convert.ErrAllPages), "all_pages_removed", true},
		{session.FeatureExtractPages, fmt.Errorf("%w: 9", pagespec.ErrInvalidSpec), "invalid_page_spec", true},
		{session.FeatureOCR, convert.ErrOCRUnavailable, "ocr_unavailable", true},
		{session.FeatureRepair, errors.New("xref"), "pdf_damaged", true},
		{session.FeatureCompress, errors.New("gs"), "conversion_failed", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			key, expected := FailureKey(tt.feature, tt.err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.expected, expected)
		})
	}
}

func TestOptionListMasksPasswords(t *testing.T) {
	got := optionList(map[session.OptionKind]string{
		session.OptionPassword: "secret",
		session.OptionAngle:    "90",
	})
	assert.Equal(t, []string{"angle=90", "password=***"}, got)
	assert.Nil(t, optionList(nil))
}
