// Package config loads restkit configuration with Viper.
//
// Values come from a config.yml found next to the program (or given
// explicitly), overridden by environment variables after an optional .env
// file is read. Environment keys map onto nested fields by underscores:
// RESTKIT_API_BASE_URL sets api.base_url when loaded with
// WithEnvPrefix("RESTKIT").
//
//	var cfg config.ClientConfig
//	if err := config.Load("billing-client", &cfg, config.WithEnvPrefix("RESTKIT")); err != nil {
//	    return err
//	}
//	client, err := cfg.NewClient()
//	widgets, err := cfg.NewResource("widgets", client)
package config
