package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"pdf-toolbox-bot/internal/dto"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/pkg/session"

	"github.com/google/uuid"
)

var ErrOperationInFlight = errors.New("an operation is already running for this user")

// MetadataUserID names the queue message metadata holding the job's user,
// readable even when the payload is not.
const MetadataUserID = "user_id"

type IOperationService interface {
	// Submit queues req for conversion. A user has at most one job queued
	// or running at a time.
	Submit(ctx context.Context, chatID int64, lang string, req session.OperationRequest) (*dto.Job, error)
	InFlight(userID int64) bool
	// Done releases the user's slot once their job has finished.
	Done(userID int64)
}

type operationService struct {
	publisher IPublisherService
	logger    logger.ILogger

	mu       sync.Mutex
	inFlight map[int64]string
}

func NewOperationService(publisher IPublisherService, log logger.ILogger) IOperationService {
	return &operationService{
		publisher: publisher,
		logger:    log,
		inFlight:  make(map[int64]string),
	}
}

func (s *operationService) Submit(ctx context.Context, chatID int64, lang string, req session.OperationRequest) (*dto.Job, error) {
	job := &dto.Job{
		ID:          uuid.NewString(),
		ChatID:      chatID,
		Language:    lang,
		Request:     req,
		SubmittedAt: time.Now(),
	}

	s.mu.Lock()
	if _, busy := s.inFlight[req.UserID]; busy {
		s.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	s.inFlight[req.UserID] = job.ID
	s.mu.Unlock()

	payload, err := json.Marshal(job)
	if err == nil {
		err = s.publisher.Publish(ctx, payload, map[string]string{
			MetadataUserID: strconv.FormatInt(req.UserID, 10),
		})
	}
	if err != nil {
		s.Done(req.UserID)
		return nil, err
	}

	s.logger.Info("OperationService", "Job queued", map[string]interface{}{
		"job_id":  job.ID,
		"user_id": req.UserID,
		"feature": string(req.Feature),
		"inputs":  len(req.Inputs),
	})
	return job, nil
}

func (s *operationService) InFlight(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[userID]
	return ok
}

func (s *operationService) Done(userID int64) {
	s.mu.Lock()
	delete(s.inFlight, userID)
	s.mu.Unlock()
}
