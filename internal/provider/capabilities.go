// Package provider maps a pipe's model identifier to the feature set of
// the backing model provider.
package provider

import "strings"

// Capabilities describes what features a provider supports.
type Capabilities struct {
	SupportsStreaming   bool
	SupportsToolCalling bool

	// SupportsStreamingWithTools is false for providers that can stream
	// and can call tools but not both in the same request.
	SupportsStreamingWithTools bool
}

// Model identifiers are "provider:model-name"; capability lookup keys on
// the prefix. Unknown providers are assumed fully capable so that new
// backends work without a client update.
var capabilityTable = map[string]Capabilities{
	"openai": {
		SupportsStreaming:          true,
		SupportsToolCalling:        true,
		SupportsStreamingWithTools: true,
	},
	"anthropic": {
		SupportsStreaming:          true,
		SupportsToolCalling:        true,
		SupportsStreamingWithTools: false,
	},
	"google": {
		SupportsStreaming:          true,
		SupportsToolCalling:        true,
		SupportsStreamingWithTools: true,
	},
	"together": {
		SupportsStreaming:          true,
		SupportsToolCalling:        true,
		SupportsStreamingWithTools: true,
	},
	"groq": {
		SupportsStreaming:          true,
		SupportsToolCalling:        true,
		SupportsStreamingWithTools: true,
	},
}

// ForModel returns the capabilities of the provider backing the given
// model identifier.
func ForModel(model string) Capabilities {
	prefix, _, found := strings.Cut(model, ":")
	if !found {
		prefix = model
	}
	if caps, ok := capabilityTable[strings.ToLower(prefix)]; ok {
		return caps
	}
	return Capabilities{
		SupportsStreaming:          true,
		SupportsToolCalling:        true,
		SupportsStreamingWithTools: true,
	}
}
