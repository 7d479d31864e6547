package provider

import (
	"net/http"

	"storecheck/pkg/appenv"
	"storecheck/pkg/logging"
)

// NewDefaultRegistry registers the store providers that need no configuration beyond the
// application's package identifier. Configured channels (github, ssm, s3) are added by the
// caller. Both providers share client; a nil client is replaced by one built here.
func NewDefaultRegistry(env appenv.Environment, client *http.Client, logger *logging.Logger) *Registry {
	if client == nil {
		client = NewHTTPClient(DefaultHTTPTimeout)
	}

	play := NewPlayStore(env, logger)
	play.Client = client

	apple := NewAppStore(env, logger)
	apple.Client = client

	reg := NewRegistry()
	_ = reg.Register(PlayStore, play)
	_ = reg.Register(AppStore, apple)
	return reg
}
