package service

import (
	"context"
	"errors"
	"time"

	"pdf-toolbox-bot/internal/dto"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/pkg/serverutils"

	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 12 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminDisabled      = errors.New("admin api is not configured")
)

// LogReader reads back the structured log file.
type LogReader interface {
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
	GetLogById(id string) (*logger.LogEntry, error)
}

type IAdminService interface {
	Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	GetStats(ctx context.Context) (*dto.StatsSummary, error)
	Broadcast(ctx context.Context, req dto.BroadcastRequest) (*dto.BroadcastResult, error)
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]logger.LogEntry, error)
	GetLogDetail(ctx context.Context, logId string) (*logger.LogEntry, error)
	GetOperations(ctx context.Context, page, limit int) ([]dto.OperationLogResponse, error)
}

type adminService struct {
	passwordHash string
	jwtSecret    string
	stats        IStatsService
	subscribers  ISubscriberService
	logs         LogReader
	logger       logger.ILogger
	now          func() time.Time
}

func NewAdminService(
	passwordHash, jwtSecret string,
	stats IStatsService,
	subscribers ISubscriberService,
	logs LogReader,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		stats:        stats,
		subscribers:  subscribers,
		logs:         logs,
		logger:       log,
		now:          time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if s.passwordHash == "" || s.jwtSecret == "" {
		return nil, ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("AdminService", "Failed admin login", nil)
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token, err := serverutils.IssueAdminToken(s.jwtSecret, adminTokenTTL, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AdminService", "Admin logged in", nil)
	return &dto.AdminLoginResponse{Token: token, ExpiresAt: now.Add(adminTokenTTL)}, nil
}

func (s *adminService) GetStats(ctx context.Context) (*dto.StatsSummary, error) {
	return s.stats.Summary(ctx)
}

func (s *adminService) Broadcast(ctx context.Context, req dto.BroadcastRequest) (*dto.BroadcastResult, error) {
	sent, total, err := s.subscribers.Notify(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	return &dto.BroadcastResult{Sent: sent, Total: total}, nil
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]logger.LogEntry, error) {
	page, limit = normalizePage(page, limit)
	return s.logs.GetLogs(level, limit, (page-1)*limit)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*logger.LogEntry, error) {
	return s.logs.GetLogById(logId)
}

func (s *adminService) GetOperations(ctx context.Context, page, limit int) ([]dto.OperationLogResponse, error) {
	page, limit = normalizePage(page, limit)
	return s.stats.Recent(ctx, limit, (page-1)*limit)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
