// Package validation validates restkit configuration and declarations.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their config key:
//
//	type APIConfig struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors by hand:
//
//	v := validation.New()
//	v.Required("method", entry.Method)
//	err := v.Err()
package validation
