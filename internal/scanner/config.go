package scanner

import "github.com/a3tai/pdf-spec-scanner/internal/config"

// OptionsFromConfig maps the application configuration onto service options.
// Echo and Logger are left for the caller to set.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PDFBackend:     cfg.Backend,
		MaxFileSize:    cfg.MaxFileSize,
		Extensions:     cfg.Extensions,
		Workers:        cfg.Workers,
		PreserveLines:  cfg.PreserveLines,
		ValidateSchema: cfg.ValidateSchema,
	}
}
