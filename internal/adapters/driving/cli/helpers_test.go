package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// MockSessionService is a configurable mock of driving.SessionService.
type MockSessionService struct {
	IngestFunc func(ctx context.Context, rawText string) (*domain.Document, error)
	AskFunc    func(ctx context.Context, question, apiKey string) (*domain.Answer, error)
	ResetFunc  func(ctx context.Context) error
	StatusFunc func(ctx context.Context) (domain.SessionStatus, error)
}

func (m *MockSessionService) Ingest(ctx context.Context, rawText string) (*domain.Document, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, rawText)
	}
	return &domain.Document{ID: "doc-0123456789", Content: rawText}, nil
}

func (m *MockSessionService) Ask(ctx context.Context, question, apiKey string) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, apiKey)
	}
	return &domain.Answer{
		Text:     "The deadline is Friday.",
		Model:    "gemini-1.5-flash",
		Context:  "The report is due Friday.",
		SourceID: "doc-0123456789",
		Score:    0.75,
	}, nil
}

func (m *MockSessionService) Reset(ctx context.Context) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return nil
}

func (m *MockSessionService) Status(ctx context.Context) (domain.SessionStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return domain.SessionStatus{
		Policy:         domain.IngestPolicyReject,
		EmbeddingModel: "hashing-384",
		Dimensions:     384,
	}, nil
}

// MockModelSelector is a configurable mock of driving.ModelSelector.
type MockModelSelector struct {
	Names     []string
	Err       error
	Selection domain.ModelSelection
}

func (m *MockModelSelector) Select(_ context.Context, _ string) domain.ModelSelection {
	if m.Selection.Model == "" {
		return domain.ModelSelection{Model: domain.DefaultModel}
	}
	return m.Selection
}

func (m *MockModelSelector) Available(_ context.Context, _ string) ([]string, error) {
	return m.Names, m.Err
}

func (m *MockModelSelector) Invalidate() {}

// MockSettingsService is a configurable mock of driving.SettingsService.
type MockSettingsService struct {
	Settings domain.AppSettings
	Saved    *domain.AppSettings
	SetCalls map[string]string
	SetErr   error
	CheckErr error
	ValidErr error
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.Settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Saved = settings
	return nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.SetCalls == nil {
		m.SetCalls = make(map[string]string)
	}
	m.SetCalls[key] = value
	return nil
}

func (m *MockSettingsService) Keys() []string {
	return []string{"embedding.provider", "index.backend", "ingest.policy"}
}

func (m *MockSettingsService) Validate(_ *domain.AppSettings) error {
	return m.ValidErr
}

func (m *MockSettingsService) Check(_ context.Context) error {
	return m.CheckErr
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// setupTestServices installs mock services and returns a function that
// restores the previous ones and resets every flag to its default.
func setupTestServices() func() {
	return setupServices(Services{
		Session:  &MockSessionService{},
		Models:   &MockModelSelector{},
		Settings: &MockSettingsService{Settings: domain.DefaultAppSettings()},
	})
}

func setupServices(s Services) func() {
	prevSession := sessionService
	prevModels := modelSelector
	prevSettings := settingsService
	prevSource := promptSource
	prevWatcher := promptWatcher
	prevWarnings := startupWarnings
	prevSecret := readSecret
	prevConnector := connector
	prevRelease := releaseSession

	SetServices(s)
	readSecret = func(*cobra.Command, string) string { return "" }

	return func() {
		sessionService = prevSession
		modelSelector = prevModels
		settingsService = prevSettings
		promptSource = prevSource
		promptWatcher = prevWatcher
		startupWarnings = prevWarnings
		readSecret = prevSecret
		connector = prevConnector
		releaseSession = prevRelease
		resetFlags(rootCmd)
		rootCmd.SetIn(nil)
	}
}

// resetFlags restores every flag of cmd and its children so values do not
// leak between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
