package health

// Service encapsulates health-related checks.
type Service struct {
	Provider string
	Model    string
	Store    string
}

// NewService constructs a new health service.
func NewService(provider, model, store string) *Service {
	return &Service{Provider: provider, Model: model, Store: store}
}

// Status returns a simple health payload with wiring info.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":       true,
		"provider": s.Provider,
		"model":    s.Model,
		"store":    s.Store,
	}
}
