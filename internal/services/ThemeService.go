package services

import (
	"checkinboard/internal/models"
	"checkinboard/internal/providers"
	"fmt"
	"sync"
)

const ThemeStorageKey = "theme"

// ThemeStorage persists string records under fixed keys.
type ThemeStorage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type ThemeService struct {
	mu      sync.RWMutex
	theme   models.Theme
	storage ThemeStorage
	logger  providers.Logger
}

// NewThemeService restores the stored theme; anything unknown falls back to light.
func NewThemeService(storage ThemeStorage, logger providers.Logger) *ThemeService {
	theme := models.ThemeLight
	if stored, ok := storage.Get(ThemeStorageKey); ok && models.Theme(stored).Valid() {
		theme = models.Theme(stored)
	}
	return &ThemeService{theme: theme, storage: storage, logger: logger}
}

func (s *ThemeService) Theme() models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *ThemeService) SetTheme(theme models.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(theme)
}

func (s *ThemeService) ToggleTheme() (models.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.theme.Toggled()
	return next, s.setLocked(next)
}

func (s *ThemeService) setLocked(theme models.Theme) error {
	s.theme = theme
	if err := s.storage.Set(ThemeStorageKey, string(theme)); err != nil {
		s.logger.Errorf(providers.TypeApp, "Unable to persist theme: %s", err)
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}
