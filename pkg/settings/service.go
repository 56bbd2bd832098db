package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
)

// Provider reads and writes the plugin settings of a journal through the
// generic store.
type Provider struct {
	store    Store
	defaults Defaults
}

func NewProvider(store Store, defaults Defaults) *Provider {
	return &Provider{store: store, defaults: defaults}
}

// Get returns one plugin setting; unset keys come back as "" with
// ErrSettingNotFound.
func (p *Provider) Get(ctx context.Context, journal, name string) (string, error) {
	return p.store.Get(ctx, journal, Group, name)
}

func (p *Provider) Set(ctx context.Context, journal, name, value string) error {
	return p.store.Set(ctx, journal, Group, name, value)
}

// Load reads all plugin settings for journal. Unset keys take their zero
// value, except the URLs which fall back to the configured defaults.
func (p *Provider) Load(ctx context.Context, journal string) (Settings, error) {
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		value, err := p.Get(ctx, journal, key)
		if err != nil && !errors.Is(err, ErrSettingNotFound) {
			return Settings{}, fmt.Errorf("load setting %s for %s: %w", key, journal, err)
		}
		values[key] = value
	}

	settings := Settings{
		Enabled:    parseBool(values[KeyEnabled]),
		Sandbox:    parseBool(values[KeySandbox]),
		Email:      values[KeyEmail],
		Password:   values[KeyPassword],
		URL:        values[KeyURL],
		SandboxURL: values[KeySandboxURL],
	}
	if settings.URL == "" {
		settings.URL = p.defaults.URL
	}
	if settings.SandboxURL == "" {
		settings.SandboxURL = p.defaults.SandboxURL
	}
	return settings, nil
}

// Save writes every plugin setting for journal.
func (p *Provider) Save(ctx context.Context, journal string, settings Settings) error {
	for key, value := range encode(settings) {
		if err := p.Set(ctx, journal, key, value); err != nil {
			return fmt.Errorf("save setting %s for %s: %w", key, journal, err)
		}
	}
	logger.Log.WithField("journal", journal).Info("OA Switchboard settings saved")
	return nil
}

// Install seeds defaults for keys the journal does not have yet. Existing
// values are left alone. It reports whether anything was written.
func (p *Provider) Install(ctx context.Context, journal string) (bool, error) {
	defaults := encode(Settings{
		Enabled:    false,
		Sandbox:    true,
		URL:        p.defaults.URL,
		SandboxURL: p.defaults.SandboxURL,
	})

	written := false
	for _, key := range Keys {
		_, err := p.Get(ctx, journal, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrSettingNotFound) {
			return written, fmt.Errorf("check setting %s for %s: %w", key, journal, err)
		}
		if err := p.Set(ctx, journal, key, defaults[key]); err != nil {
			return written, fmt.Errorf("install setting %s for %s: %w", key, journal, err)
		}
		written = true
	}

	if written {
		logger.Log.WithField("journal", journal).Info("OA Switchboard settings installed")
	}
	return written, nil
}

func encode(settings Settings) map[string]string {
	return map[string]string{
		KeyEnabled:    strconv.FormatBool(settings.Enabled),
		KeyEmail:      settings.Email,
		KeySandbox:    strconv.FormatBool(settings.Sandbox),
		KeyPassword:   settings.Password,
		KeyURL:        settings.URL,
		KeySandboxURL: settings.SandboxURL,
	}
}

// parseBool accepts strconv forms and the "on" a checkbox posts.
func parseBool(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" || value == "yes" {
		return true
	}
	parsed, err := strconv.ParseBool(value)
	return err == nil && parsed
}
