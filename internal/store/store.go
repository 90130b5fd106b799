// Package store persists user preferences keyed by owner id. Every backend
// stores the same two string keys, "theme" and "showTranslations".
package store

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"

	contextutils "studyapp/internal/utils"
)

// Preference keys
const (
	KeyTheme            = "theme"
	KeyShowTranslations = "showTranslations"
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is a string key/value store partitioned by owner.
type Store interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been set.
	Get(ctx context.Context, owner, key string) (value string, ok bool, err error)
	Set(ctx context.Context, owner, key, value string) error
	Close() error
}

// Batcher is implemented by backends that can write several keys of one
// owner atomically. Every built-in backend does.
type Batcher interface {
	SetMany(ctx context.Context, owner string, values map[string]string) error
}

// Preferences are the user-visible settings.
type Preferences struct {
	Theme            string `json:"theme" validate:"required,oneof=light dark"`
	ShowTranslations bool   `json:"showTranslations"`
}

// DefaultPreferences is light theme with translations shown.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, ShowTranslations: true}
}

// Validate checks the theme value.
func (p Preferences) Validate() error {
	return contextutils.ValidateStruct(p)
}

// Load reads the preferences of owner, falling back to the default for any
// key that is missing or unreadable.
func Load(ctx context.Context, s Store, owner string) (Preferences, error) {
	prefs := DefaultPreferences()

	theme, ok, err := s.Get(ctx, owner, KeyTheme)
	if err != nil {
		return prefs, err
	}
	if ok && (theme == ThemeLight || theme == ThemeDark) {
		prefs.Theme = theme
	}

	show, ok, err := s.Get(ctx, owner, KeyShowTranslations)
	if err != nil {
		return prefs, err
	}
	if ok {
		if b, perr := strconv.ParseBool(show); perr == nil {
			prefs.ShowTranslations = b
		}
	}
	return prefs, nil
}

// Save writes both keys for owner. Either both keys change or neither does.
func Save(ctx context.Context, s Store, owner string, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return setMany(ctx, s, owner, map[string]string{
		KeyTheme:            p.Theme,
		KeyShowTranslations: strconv.FormatBool(p.ShowTranslations),
	})
}

// setMany writes values through the backend's batch write when it has one.
// Otherwise it writes key by key and restores the earlier values of the
// keys already written when a later write fails.
func setMany(ctx context.Context, s Store, owner string, values map[string]string) error {
	if b, ok := s.(Batcher); ok {
		return b.SetMany(ctx, owner, values)
	}

	keys := writeOrder(values)
	previous := make(map[string]string, len(keys))
	for _, key := range keys {
		v, ok, err := s.Get(ctx, owner, key)
		if err != nil {
			return err
		}
		if !ok {
			v = defaultValue(key)
		}
		previous[key] = v
	}

	for i, key := range keys {
		err := s.Set(ctx, owner, key, values[key])
		if err == nil {
			continue
		}
		var restoreErr error
		for _, done := range keys[:i] {
			restoreErr = errors.Join(restoreErr, s.Set(ctx, owner, done, previous[done]))
		}
		if restoreErr != nil {
			return errors.Join(err, contextutils.WrapErrorf(restoreErr, "failed to restore preferences of %s", owner))
		}
		return err
	}
	return nil
}

// writeOrder lists theme first, then showTranslations, then any other key
// in sorted order.
func writeOrder(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for _, key := range []string{KeyTheme, KeyShowTranslations} {
		if _, ok := values[key]; ok {
			keys = append(keys, key)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if key != KeyTheme && key != KeyShowTranslations {
			keys = append(keys, key)
		}
	}
	return keys
}

// defaultValue is what Load reports for a key that was never written.
func defaultValue(key string) string {
	d := DefaultPreferences()
	switch key {
	case KeyTheme:
		return d.Theme
	case KeyShowTranslations:
		return strconv.FormatBool(d.ShowTranslations)
	}
	return ""
}

func unavailable(backend string, err error) error {
	return contextutils.NewAppErrorWithCause(
		contextutils.ErrorCodeServiceUnavailable,
		contextutils.SeverityError,
		backend+" preference store unavailable",
		err.Error(),
		err,
	)
}
