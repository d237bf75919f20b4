package mdmath

// ScanOption configures Scan.
type ScanOption func(*scanConfig)

type scanConfig struct {
	frontMatter bool
	skipCode    bool
	validate    bool
}

func newScanConfig(opts []ScanOption) scanConfig {
	var cfg scanConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithFrontMatter recognizes a YAML, TOML or JSON front matter block at the
// top of the document, decodes it and starts scanning after it.
func WithFrontMatter(enabled bool) ScanOption {
	return func(cfg *scanConfig) {
		cfg.frontMatter = enabled
	}
}

// WithSkipCode ignores $ inside fenced code blocks and inline code spans.
func WithSkipCode(enabled bool) ScanOption {
	return func(cfg *scanConfig) {
		cfg.skipCode = enabled
	}
}

// WithValidation rejects input that is not UTF-8 text before scanning.
func WithValidation(enabled bool) ScanOption {
	return func(cfg *scanConfig) {
		cfg.validate = enabled
	}
}
