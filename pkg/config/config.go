package config

import (
	"github.com/expr-lang/expr/vm"
	"github.com/go-playground/validator/v10"
	"github.com/grafana/regexp"
	"github.com/jinzhu/configor"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ConfigWhen struct {
	WhenStr  string      `yaml:"when"`
	WhenExpr *vm.Program `yaml:"-"`
}

type OverrideInsert struct {
	ConfigWhen `yaml:",inline"`
	IDFunc     string `yaml:"id_func" validate:"omitempty,oneof=name_with_xxhash noop"`
}

type Config struct {
	Reader struct {
		FastText bool `yaml:"fast_text" default:"false"`
	} `yaml:"reader"`

	Insert struct {
		ConfigWhen       `yaml:",inline"`
		Enabled          bool             `yaml:"enabled" default:"true"`
		Listen           string           `yaml:"listen" default:"0.0.0.0:9095" validate:"hostname_port"`
		CloseConnections bool             `yaml:"close_connections" default:"false"`
		IDFunc           string           `yaml:"id_func" default:"name_with_xxhash" validate:"oneof=name_with_xxhash noop"`
		MaxBodySize      int64            `yaml:"max_body_size" default:"33554432" validate:"gt=0"`
		MetricName       string           `yaml:"metric_name"`
		MetricNameRe     *regexp.Regexp   `yaml:"-"`
		Override         []OverrideInsert `yaml:"override" validate:"dive"`
	} `yaml:"insert"`

	Debug struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Listen  string `yaml:"listen" default:"0.0.0.0:9096" validate:"hostname_port"`
		Pprof   bool   `yaml:"pprof" default:"true"`
		Metrics bool   `yaml:"metrics" default:"true"`
	} `yaml:"debug"`

	Logging zap.Config `yaml:"logging"`
}

func LoadFromFile(filename string, development bool) (*Config, error) {
	cfg := Config{}

	var err error

	if development {
		cfg.Logging = zap.NewDevelopmentConfig()
	} else {
		cfg.Logging = zap.NewProductionConfig()
	}
	if err = configor.Load(&cfg, filename); err != nil {
		return nil, errors.Wrapf(err, "can't load %s", filename)
	}
	if err = validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, err
	}
	if err = cfg.compile(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) compile() error {
	var err error

	if cfg.Insert.MetricName != "" {
		if cfg.Insert.MetricNameRe, err = regexp.Compile(cfg.Insert.MetricName); err != nil {
			return errors.Wrap(err, "insert.metric_name")
		}
	}

	if err = cfg.Insert.compileWhen(EnvSeries{}); err != nil {
		return errors.Wrap(err, "insert.when")
	}

	for i := 0; i < len(cfg.Insert.Override); i++ {
		if err = cfg.Insert.Override[i].compileWhen(EnvInsert{}); err != nil {
			return errors.Wrapf(err, "insert.override[%d].when", i)
		}
	}

	return nil
}
