package cmd

import (
	"fmt"

	"github.com/letteryzzm/jike-skill/internal"
)

// Auth runs the QR login flow and prints the resulting token pair as
// JSON on stdout, ready to be exported as environment variables.
func Auth() error {
	tokens, err := internal.Authenticate(internal.DefaultConfig())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	return printJSON(tokens)
}
