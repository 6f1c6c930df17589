package mockserver

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/validation"
)

// Fixture binds a method and route to a mock descriptor. Path may use gin
// parameters, e.g. /v1/widgets/:id/.
type Fixture struct {
	Method   string                  `yaml:"method" mapstructure:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Path     string                  `yaml:"path" mapstructure:"path" validate:"required,startswith=/"`
	Response httpclient.MockResponse `yaml:"response" mapstructure:"response"`
	Delay    time.Duration           `yaml:"delay" mapstructure:"delay" validate:"gte=0"`
	// JSON, when set, replaces Response.Body. The config loader lower-cases
	// map keys in structured bodies; JSON text keeps them as written.
	JSON string `yaml:"json" mapstructure:"json"`
}

// NewFixture creates a fixture serving m.
func NewFixture(method, path string, m *httpclient.Mock) Fixture {
	return Fixture{
		Method:   strings.ToUpper(method),
		Path:     path,
		Response: m.Response,
		Delay:    m.Delay,
	}
}

// Mock returns the fixture as a client mock descriptor, so the same file
// can drive in-process playback.
func (f Fixture) Mock() *httpclient.Mock {
	return httpclient.NewMock(f.Response.StatusCode, f.Response.Body, f.Delay)
}

// Validate checks the fixture.
func (f Fixture) Validate() error {
	err := validation.Validate(f)
	if err == nil {
		code := f.Response.StatusCode
		err = validation.New().
			Check(code >= 100 && code <= 599, "response.status_code", "must be between 100 and 599").
			Err()
	}
	if err != nil {
		return fmt.Errorf("fixture %s %s: %w", f.Method, f.Path, err)
	}
	return nil
}

func (f Fixture) key() string {
	return f.Method + " " + f.Path
}

// fixtureFile is the layout of a fixture file.
type fixtureFile struct {
	Fixtures []Fixture `yaml:"fixtures" mapstructure:"fixtures"`
}

// LoadFixtures reads fixtures from a YAML or JSON file:
//
//	fixtures:
//	  - method: GET
//	    path: /v1/widgets/
//	    delay: 150ms
//	    response:
//	      status_code: 200
//	      body: [{id: 1}]
func LoadFixtures(path string) ([]Fixture, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("mockserver: read fixtures %s: %w", path, err)
	}

	var file fixtureFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("mockserver: decode fixtures %s: %w", path, err)
	}

	for i := range file.Fixtures {
		f := &file.Fixtures[i]
		f.Method = strings.ToUpper(f.Method)
		if f.JSON != "" {
			var body any
			if err := json.Unmarshal([]byte(f.JSON), &body); err != nil {
				return nil, fmt.Errorf("mockserver: %s: fixture %s %s: json: %w", path, f.Method, f.Path, err)
			}
			f.Response.Body = body
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("mockserver: %s: %w", path, err)
		}
	}
	return file.Fixtures, nil
}
