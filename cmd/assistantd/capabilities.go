package main

import (
	"github.com/tailored-agentic-units/assistant/capability"
	"github.com/tailored-agentic-units/assistant/capability/browser"
	"github.com/tailored-agentic-units/assistant/capability/search"
	"github.com/tailored-agentic-units/assistant/capability/shell"
	"github.com/tailored-agentic-units/assistant/server"
)

// registerCapabilities installs the built-in capabilities. The browser is
// opt-in since it needs a local Chrome. The returned func releases any
// resources the capabilities hold.
func registerCapabilities(cfg *server.Config) (func(), error) {
	if err := capability.Register(shell.New()); err != nil {
		return nil, err
	}
	if err := capability.Register(search.New()); err != nil {
		return nil, err
	}

	cleanup := func() {}
	if cfg.EnableBrowser {
		b := browser.New(cfg.Browser)
		if err := capability.Register(b); err != nil {
			return nil, err
		}
		cleanup = func() { _ = b.Close() }
	}
	return cleanup, nil
}
