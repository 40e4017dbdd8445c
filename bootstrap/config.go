package bootstrap

import (
	"github.com/kbukum/lecturekit/config"
)

// Config is the constraint for application configuration types. A pointer
// to any struct embedding config.ServiceConfig satisfies it through promoted
// methods, as long as the struct's own ApplyDefaults and Validate call the
// embedded ones.
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Redis redis.Config `yaml:"redis" mapstructure:"redis"`
//	}
//
//	app, err := bootstrap.NewApp(&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
