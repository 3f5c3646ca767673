package validator

// Config controls section markup validation behavior.
type Config struct {
	AllowedRootTags []string
	// ExpectedAnchorID is the id the root element must carry. Sections are
	// anchor-navigation targets, so callers always set this.
	ExpectedAnchorID string
}

// DefaultConfig returns the default section validation configuration.
func DefaultConfig() Config {
	return Config{
		AllowedRootTags: []string{"section", "header", "footer", "article", "div"},
	}
}
