package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"
	keyIndexBackend    = "index.backend"
	keyIndexDSN        = "index.dsn"
	keyIngestPolicy    = "ingest.policy"
	keyGenBaseURL      = "generation.base_url"
	keyGenModel        = "generation.default_model"
	keyGenTimeout      = "generation.timeout_seconds"
	keyGenRPM          = "generation.requests_per_minute"
	keyQueryTopK       = "query.top_k"
)

// intKeys hold integers; every other key holds a string.
var intKeys = map[string]bool{
	keyEmbedDimensions: true,
	keyGenTimeout:      true,
	keyGenRPM:          true,
	keyQueryTopK:       true,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.ConfigValidator
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service. configValidator is
// optional and only used by Check.
func NewSettingsService(configStore driven.ConfigStore, configValidator driven.ConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   configValidator,
		validate:    validator.New(),
	}
}

// Get retrieves current application settings. Missing or invalid enum
// values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := domain.EmbeddingProvider(s.getString(keyEmbedProvider, defaults.Embedding.Provider.String()))
	if !provider.IsValid() {
		provider = defaults.Embedding.Provider
	}
	backend := domain.IndexBackend(s.getString(keyIndexBackend, defaults.Index.Backend.String()))
	if !backend.IsValid() {
		backend = defaults.Index.Backend
	}
	policy := domain.IngestPolicy(s.getString(keyIngestPolicy, defaults.Ingest.Policy.String()))
	if !policy.IsValid() {
		policy = defaults.Ingest.Policy
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   provider,
			Model:      s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[provider]),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // empty means the provider default
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
		},
		Index: domain.IndexSettings{
			Backend: backend,
			DSN:     s.configStore.GetString(keyIndexDSN),
		},
		Ingest: domain.IngestSettings{
			Policy: policy,
		},
		Generation: domain.GenerationSettings{
			BaseURL:           s.getString(keyGenBaseURL, defaults.Generation.BaseURL),
			DefaultModel:      domain.ModelDescriptor(s.getString(keyGenModel, defaults.Generation.DefaultModel.String())),
			Timeout:           time.Duration(s.getInt(keyGenTimeout, int(defaults.Generation.Timeout/time.Second))) * time.Second,
			RequestsPerMinute: s.getInt(keyGenRPM, defaults.Generation.RequestsPerMinute),
		},
		Query: domain.QuerySettings{
			TopK: s.getInt(keyQueryTopK, defaults.Query.TopK),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.Validate(settings); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyIndexBackend, settings.Index.Backend.String()},
		{keyIndexDSN, settings.Index.DSN},
		{keyIngestPolicy, settings.Ingest.Policy.String()},
		{keyGenBaseURL, settings.Generation.BaseURL},
		{keyGenModel, settings.Generation.DefaultModel.String()},
		{keyGenTimeout, int(settings.Generation.Timeout / time.Second)},
		{keyGenRPM, settings.Generation.RequestsPerMinute},
		{keyQueryTopK, settings.Query.TopK},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// An empty key never overwrites a stored one.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}

	return nil
}

// Set parses value for key, validates the resulting settings and saves them.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !isKnownKey(key) {
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if intKeys[key] {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		applyInt(settings, key, n)
	} else {
		applyString(settings, key, value)
	}

	// Switching provider resets the model unless one was given explicitly.
	if key == keyEmbedProvider {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}

	return s.Save(settings)
}

// Keys lists the configuration keys Set accepts.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyEmbedDimensions,
		keyIndexBackend, keyIndexDSN, keyIngestPolicy,
		keyGenBaseURL, keyGenModel, keyGenTimeout, keyGenRPM, keyQueryTopK,
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the given settings against their struct tags.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidInput)
	}

	err := s.validate.Struct(settings)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate settings: %w", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

// Check validates the stored settings, then pings the configured adapters.
func (s *SettingsService) Check(ctx context.Context) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := s.Validate(settings); err != nil {
		return err
	}
	if s.validator == nil {
		return nil
	}

	var errs []error
	if err := s.validator.ValidateEmbedding(ctx, &settings.Embedding); err != nil {
		errs = append(errs, fmt.Errorf("embedding: %w", err))
	}
	if err := s.validator.ValidateIndex(ctx, &settings.Index); err != nil {
		errs = append(errs, fmt.Errorf("index: %w", err))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// describeFieldError renders a validation failure with the config key name
// where one exists.
func describeFieldError(fe validator.FieldError) string {
	field := fieldKey(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %q", field, fe.Tag())
	}
}

// fieldKeys maps struct namespaces to config keys.
var fieldKeys = map[string]string{
	"AppSettings.Embedding.Provider":           keyEmbedProvider,
	"AppSettings.Embedding.Model":              keyEmbedModel,
	"AppSettings.Embedding.BaseURL":            keyEmbedBaseURL,
	"AppSettings.Embedding.APIKey":             keyEmbedAPIKey,
	"AppSettings.Embedding.Dimensions":         keyEmbedDimensions,
	"AppSettings.Index.Backend":                keyIndexBackend,
	"AppSettings.Index.DSN":                    keyIndexDSN,
	"AppSettings.Ingest.Policy":                keyIngestPolicy,
	"AppSettings.Generation.BaseURL":           keyGenBaseURL,
	"AppSettings.Generation.DefaultModel":      keyGenModel,
	"AppSettings.Generation.Timeout":           keyGenTimeout,
	"AppSettings.Generation.RequestsPerMinute": keyGenRPM,
	"AppSettings.Query.TopK":                   keyQueryTopK,
}

func fieldKey(namespace string) string {
	if key, ok := fieldKeys[namespace]; ok {
		return key
	}
	return namespace
}

func isKnownKey(key string) bool {
	for _, k := range fieldKeys {
		if k == key {
			return true
		}
	}
	return false
}

func applyInt(settings *domain.AppSettings, key string, n int) {
	switch key {
	case keyEmbedDimensions:
		settings.Embedding.Dimensions = n
	case keyGenTimeout:
		settings.Generation.Timeout = time.Duration(n) * time.Second
	case keyGenRPM:
		settings.Generation.RequestsPerMinute = n
	case keyQueryTopK:
		settings.Query.TopK = n
	}
}

func applyString(settings *domain.AppSettings, key, value string) {
	switch key {
	case keyEmbedProvider:
		settings.Embedding.Provider = domain.EmbeddingProvider(strings.ToLower(value))
	case keyEmbedModel:
		settings.Embedding.Model = value
	case keyEmbedBaseURL:
		settings.Embedding.BaseURL = value
	case keyEmbedAPIKey:
		settings.Embedding.APIKey = value
	case keyIndexBackend:
		settings.Index.Backend = domain.IndexBackend(strings.ToLower(value))
	case keyIndexDSN:
		settings.Index.DSN = value
	case keyIngestPolicy:
		settings.Ingest.Policy = domain.IngestPolicy(strings.ToLower(value))
	case keyGenBaseURL:
		settings.Generation.BaseURL = value
	case keyGenModel:
		settings.Generation.DefaultModel = domain.ModelDescriptor(value)
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats a stored zero as a real value, unlike getString.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}
