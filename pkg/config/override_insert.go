package config

import (
	"net/http"
)

// EnvInsert is what insert.override[].when sees about a request.
type EnvInsert struct {
	GetParams map[string]string `expr:"GET"`
	Headers   map[string]string `expr:"HEADER"`
}

func NewEnvInsert() *EnvInsert {
	return &EnvInsert{
		GetParams: map[string]string{},
		Headers:   map[string]string{},
	}
}

func (env *EnvInsert) WithRequest(r *http.Request) *EnvInsert {
	for k := range r.URL.Query() {
		env.GetParams[k] = r.URL.Query().Get(k)
	}

	for k := range r.Header {
		env.Headers[k] = r.Header.Get(k)
	}

	return env
}

// EnvSeries is what insert.when sees about a decoded series.
type EnvSeries struct {
	Name    string            `expr:"name"`
	Labels  map[string]string `expr:"labels"`
	Samples int               `expr:"samples"`
}

// ConfigInsert is the insert configuration resolved for one request.
type ConfigInsert struct {
	IDFunc string
}

// GetInsert applies the first override whose expression matches values.
func (cfg *Config) GetInsert(values *EnvInsert) (ConfigInsert, error) {
	ret := ConfigInsert{
		IDFunc: cfg.Insert.IDFunc,
	}

	for i := range cfg.Insert.Override {
		o := &cfg.Insert.Override[i]
		result, err := o.When(values)
		if err != nil {
			return ret, err
		}

		if result {
			ret.IDFunc = mergeZero(ret.IDFunc, o.IDFunc)
			return ret, nil
		}
	}

	return ret, nil
}
