// Package verify implements post-deployment verification of a running graphd
// instance.
//
// A Verifier runs a fixed suite of independent checks: required and optional
// environment variables, Neo4j URI syntax, and HTTP probes against the
// serving endpoints. Check failures are never errors; every outcome lands in
// the returned Report and the caller decides how to present it.
package verify

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/graphd/pkg/probe"
)

const (
	// DefaultBaseURL targets a graphd instance on the local host.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds each HTTP check independently.
	DefaultTimeout = 10 * time.Second

	// DefaultNeo4jURI mirrors the server default so a deployment that sets
	// nothing still verifies against the address the server will use.
	DefaultNeo4jURI = "bolt://neo4j:7687"

	// BoltScheme is the URI prefix the dependency address must carry.
	BoltScheme = "bolt://"
)

// EnvSet names the environment variables a deployment must provide.
type EnvSet struct {
	Required []string
	Optional []string
}

// DefaultEnvSet returns the variables the deployment contract names.
func DefaultEnvSet() EnvSet {
	return EnvSet{
		Required: []string{"OPENAI_API_KEY", "NEO4J_USER", "NEO4J_PASSWORD"},
		Optional: []string{"MODEL_NAME", "EMBEDDING_MODEL_NAME", "SEMAPHORE_LIMIT"},
	}
}

// LookupFunc reports an environment variable's value and whether it is set.
// os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Verifier runs the verification suite. All configuration is fixed at
// construction and Run keeps no state between invocations, so a single
// Verifier is safe for repeated and concurrent use.
type Verifier struct {
	baseURL      string
	timeout      time.Duration
	lookup       LookupFunc
	envs         EnvSet
	neo4jURI     string
	probeDep     bool
	probeTimeout time.Duration
	client       *http.Client
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithBaseURL points the HTTP checks at a different instance.
func WithBaseURL(url string) Option {
	return func(v *Verifier) {
		if url != "" {
			v.baseURL = url
		}
	}
}

// WithTimeout changes the per-check HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithLookup substitutes the environment source. Tests use this to run
// hermetically against a fixed map.
func WithLookup(fn LookupFunc) Option {
	return func(v *Verifier) {
		if fn != nil {
			v.lookup = fn
		}
	}
}

// WithEnvSet overrides the variable sets to check.
func WithEnvSet(set EnvSet) Option {
	return func(v *Verifier) {
		v.envs = set
	}
}

// WithNeo4jURI fixes the dependency URI instead of reading NEO4J_URI.
func WithNeo4jURI(uri string) Option {
	return func(v *Verifier) {
		v.neo4jURI = uri
	}
}

// WithDependencyProbe additionally performs one TCP reachability check
// against the Neo4j endpoint. A zero timeout selects the prober default.
func WithDependencyProbe(timeout time.Duration) Option {
	return func(v *Verifier) {
		v.probeDep = true
		v.probeTimeout = timeout
	}
}

// New creates a Verifier with the deployment-contract defaults.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		lookup:  os.LookupEnv,
		envs:    DefaultEnvSet(),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run executes every check and assembles the report. The only influence ctx
// has is cancelling in-flight HTTP requests and probes; Run itself always
// completes and never returns an error.
func (v *Verifier) Run(ctx context.Context) *Report {
	started := time.Now()
	rep := &Report{
		RunID:     uuid.NewString(),
		StartedAt: started.UTC(),
		BaseURL:   v.baseURL,
	}

	// Environment checks are cheap; run them synchronously.
	for _, name := range v.envs.Required {
		value, ok := v.lookup(name)
		rep.RequiredEnv = append(rep.RequiredEnv, EnvCheck{
			Name: name,
			OK:   ok && strings.TrimSpace(value) != "",
		})
	}
	for _, name := range v.envs.Optional {
		_, ok := v.lookup(name)
		rep.OptionalEnv = append(rep.OptionalEnv, EnvCheck{Name: name, OK: ok})
	}

	uri := v.resolveNeo4jURI()
	rep.Neo4jURI = checkURI(uri)

	// The network checks are independent; run them concurrently and
	// serialize only the report writes.
	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		check := v.checkEndpoint(ctx, "liveness", "/healthcheck")
		mu.Lock()
		rep.Liveness = check
		mu.Unlock()
	}()

	suite := []struct{ name, path string }{
		{"root", "/"},
		{"healthcheck", "/healthcheck"},
	}
	rep.Endpoints = make([]EndpointCheck, len(suite))
	for i, ep := range suite {
		wg.Add(1)
		go func(i int, name, path string) {
			defer wg.Done()
			check := v.checkEndpoint(ctx, name, path)
			mu.Lock()
			rep.Endpoints[i] = check
			mu.Unlock()
		}(i, ep.name, ep.path)
	}

	if v.probeDep {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check := v.probeDependency(ctx, uri)
			mu.Lock()
			rep.Probe = &check
			mu.Unlock()
		}()
	}

	wg.Wait()

	rep.Elapsed = time.Since(started).Round(time.Millisecond).String()
	rep.Overall = rep.computeOverall()
	return rep
}

func (v *Verifier) resolveNeo4jURI() string {
	if v.neo4jURI != "" {
		return v.neo4jURI
	}
	if value, ok := v.lookup("NEO4J_URI"); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return DefaultNeo4jURI
}

// checkURI validates the dependency URI syntactically. Connectivity is
// deliberately not part of this check.
func checkURI(uri string) URICheck {
	check := URICheck{URI: uri}
	if !strings.HasPrefix(uri, BoltScheme) {
		check.Reason = "missing bolt:// scheme"
		return check
	}
	if _, err := probe.ParseTarget(uri); err != nil {
		check.Reason = err.Error()
		return check
	}
	check.Valid = true
	return check
}

func (v *Verifier) checkEndpoint(ctx context.Context, name, path string) EndpointCheck {
	url := strings.TrimRight(v.baseURL, "/") + path
	check := EndpointCheck{Name: name, URL: url}

	reqCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		check.Error = err.Error()
		return check
	}

	resp, err := v.client.Do(req)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	check.StatusCode = resp.StatusCode
	check.OK = resp.StatusCode == http.StatusOK
	return check
}

func (v *Verifier) probeDependency(ctx context.Context, uri string) ProbeCheck {
	endpoint, err := probe.ParseTarget(uri)
	if err != nil {
		return ProbeCheck{Target: uri, Error: err.Error()}
	}

	prober := probe.NewTCP(endpoint, v.probeTimeout)
	check := ProbeCheck{Target: prober.Target()}
	if err := prober.Probe(ctx); err != nil {
		check.Error = err.Error()
		return check
	}
	check.OK = true
	return check
}
