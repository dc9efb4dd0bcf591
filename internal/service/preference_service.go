package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/repository/contract"
	"pdf-toolbox-bot/internal/texts"

	"github.com/patrickmn/go-cache"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

type IPreferenceService interface {
	// Language never fails: lookup errors fall back to the default.
	Language(ctx context.Context, userID int64) string
	SetLanguage(ctx context.Context, userID int64, lang string) error
	// Touch registers a user on first contact and reports whether it was new.
	Touch(ctx context.Context, userID int64) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
}

type preferenceService struct {
	repo        contract.UserPreferenceRepository
	cache       *cache.Cache
	defaultLang string
	logger      logger.ILogger
}

func NewPreferenceService(repo contract.UserPreferenceRepository, defaultLang string, log logger.ILogger) IPreferenceService {
	if !texts.IsSupported(defaultLang) {
		defaultLang = texts.DefaultLanguage
	}
	return &preferenceService{
		repo:        repo,
		cache:       cache.New(30*time.Minute, 10*time.Minute),
		defaultLang: defaultLang,
		logger:      log,
	}
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *preferenceService) Language(ctx context.Context, userID int64) string {
	if lang, ok := s.cache.Get(cacheKey(userID)); ok {
		return lang.(string)
	}
	pref, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("PreferenceService", "Failed to load language", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return s.defaultLang
	}
	lang := s.defaultLang
	if pref != nil && texts.IsSupported(pref.Language) {
		lang = pref.Language
	}
	s.cache.SetDefault(cacheKey(userID), lang)
	return lang
}

func (s *preferenceService) SetLanguage(ctx context.Context, userID int64, lang string) error {
	if !texts.IsSupported(lang) {
		return ErrUnsupportedLanguage
	}
	if err := s.repo.Upsert(ctx, &entity.UserPreference{UserID: userID, Language: lang}); err != nil {
		return err
	}
	s.cache.SetDefault(cacheKey(userID), lang)
	return nil
}

func (s *preferenceService) Touch(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Touch(ctx, userID, s.defaultLang)
}

func (s *preferenceService) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
