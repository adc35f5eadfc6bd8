package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Preset Errors (E101-E119)
	// ============================================

	"E101": {
		Category: CategoryPreset,
		Message:  "Preset callback not wired",
		Detail:   "A preset invoked a callback that still holds its placeholder. Supply the real implementation when constructing the preset.",
		DocURL:   "https://nodeview.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryPreset,
		Message:  "Unknown preset",
		Detail:   "The preset name is not present in the preset catalog.",
		DocURL:   "https://nodeview.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryPreset,
		Message:  "Invalid render payload",
		Detail:   "The payload could not be decoded into the type expected for its render kind.",
		DocURL:   "https://nodeview.dev/docs/errors/E103",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid nodeview.json",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   "https://nodeview.dev/docs/errors/E120",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   "https://nodeview.dev/docs/errors/E122",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		DocURL:   "https://nodeview.dev/docs/errors/E141",
	},

	// ============================================
	// Render Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryRender,
		Message:  "Attachment point already occupied",
		Detail:   "Mount was called for an attachment point that already holds a live instance. Unmount it first or route the request as an update.",
		DocURL:   "https://nodeview.dev/docs/errors/E201",
	},
	"E202": {
		Category: CategoryRender,
		Message:  "Component factory returned nil",
		DocURL:   "https://nodeview.dev/docs/errors/E202",
	},

	// ============================================
	// Protocol Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryProtocol,
		Message:  "Render request without attachment point",
		Detail:   "Render and unmount requests must carry a non-zero element.",
		DocURL:   "https://nodeview.dev/docs/errors/E301",
	},
	"E302": {
		Category: CategoryProtocol,
		Message:  "Malformed bridge message",
		DocURL:   "https://nodeview.dev/docs/errors/E302",
	},
	"E303": {
		Category: CategoryProtocol,
		Message:  "Scope has no parent",
		Detail:   "The operation needs a parent scope, but the scope was never attached with Use.",
		DocURL:   "https://nodeview.dev/docs/errors/E303",
	},

	// ============================================
	// Dataflow Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryDataflow,
		Message:  "Input already subscribed",
		Detail:   "An input accepts a single connection. Disconnect the existing one before connecting another output.",
		DocURL:   "https://nodeview.dev/docs/errors/E401",
	},

	// ============================================
	// Storage Errors (E501-E599)
	// ============================================

	"E501": {
		Category: CategoryStorage,
		Message:  "Snapshot store failure",
		DocURL:   "https://nodeview.dev/docs/errors/E501",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
