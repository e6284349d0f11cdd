package classifier

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/taxon/internal/prompts"
)

// New builds the Classifier selected by cfg.Provider.
func New(cfg Config, ps prompts.System, client *http.Client) (Classifier, error) {
	switch cfg.Provider {
	case ProviderMock:
		return NewMock(cfg.MockReverse), nil
	case ProviderHTTP:
		return NewHTTP(client, cfg.Endpoint, cfg.Token), nil
	case ProviderOpenAI:
		llm, err := NewOpenAI(cfg, ps, client)
		if err != nil {
			return nil, err
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}
