package verify

import "time"

// EnvCheck records the outcome for one environment variable. For required
// variables OK means set and non-blank; for optional ones it means set.
type EnvCheck struct {
	Name string `json:"name" yaml:"name"`
	OK   bool   `json:"ok" yaml:"ok"`
}

// URICheck records the syntactic validation of the dependency URI. No
// network traffic is involved.
type URICheck struct {
	URI    string `json:"uri" yaml:"uri"`
	Valid  bool   `json:"valid" yaml:"valid"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// EndpointCheck records one HTTP probe against the serving instance.
type EndpointCheck struct {
	Name       string `json:"name" yaml:"name"`
	URL        string `json:"url" yaml:"url"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	OK         bool   `json:"ok" yaml:"ok"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ProbeCheck records the optional TCP reachability probe of the Neo4j
// endpoint.
type ProbeCheck struct {
	Target string `json:"target" yaml:"target"`
	OK     bool   `json:"ok" yaml:"ok"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the outcome of a single verification run. Every run builds a
// fresh Report, so reports never share state.
type Report struct {
	RunID       string          `json:"run_id" yaml:"run_id"`
	StartedAt   time.Time       `json:"started_at" yaml:"started_at"`
	Elapsed     string          `json:"elapsed" yaml:"elapsed"`
	BaseURL     string          `json:"base_url" yaml:"base_url"`
	RequiredEnv []EnvCheck      `json:"required_env" yaml:"required_env"`
	OptionalEnv []EnvCheck      `json:"optional_env" yaml:"optional_env"`
	Neo4jURI    URICheck        `json:"neo4j_uri" yaml:"neo4j_uri"`
	Liveness    EndpointCheck   `json:"liveness" yaml:"liveness"`
	Endpoints   []EndpointCheck `json:"endpoints" yaml:"endpoints"`
	Probe       *ProbeCheck     `json:"neo4j_probe,omitempty" yaml:"neo4j_probe,omitempty"`

	// Overall is the composite verdict: every required check passed.
	// Optional environment variables never influence it.
	Overall bool `json:"overall" yaml:"overall"`
}

// RequiredEnvOK reports whether every required environment variable passed.
func (r *Report) RequiredEnvOK() bool {
	for _, check := range r.RequiredEnv {
		if !check.OK {
			return false
		}
	}
	return true
}

// EndpointsOK reports whether every endpoint in the HTTP suite returned 200.
func (r *Report) EndpointsOK() bool {
	for _, check := range r.Endpoints {
		if !check.OK {
			return false
		}
	}
	return true
}

func (r *Report) computeOverall() bool {
	overall := r.RequiredEnvOK() && r.Neo4jURI.Valid && r.Liveness.OK && r.EndpointsOK()
	if r.Probe != nil {
		overall = overall && r.Probe.OK
	}
	return overall
}
