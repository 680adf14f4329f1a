package verify

import "testing"

func passingReport() *Report {
	return &Report{
		RequiredEnv: []EnvCheck{
			{Name: "OPENAI_API_KEY", OK: true},
			{Name: "NEO4J_USER", OK: true},
			{Name: "NEO4J_PASSWORD", OK: true},
		},
		OptionalEnv: []EnvCheck{
			{Name: "MODEL_NAME", OK: false},
		},
		Neo4jURI:  URICheck{URI: "bolt://neo4j:7687", Valid: true},
		Liveness:  EndpointCheck{Name: "liveness", OK: true},
		Endpoints: []EndpointCheck{{Name: "root", OK: true}, {Name: "healthcheck", OK: true}},
	}
}

func TestComputeOverall_AllPassing(t *testing.T) {
	rep := passingReport()
	if !rep.computeOverall() {
		t.Error("Expected overall true when every required check passes")
	}
}

func TestComputeOverall_SingleRequiredEnvFailure(t *testing.T) {
	rep := passingReport()
	rep.RequiredEnv[1].OK = false

	if rep.computeOverall() {
		t.Error("Expected overall false for one failed required variable")
	}
}

func TestComputeOverall_InvalidURI(t *testing.T) {
	rep := passingReport()
	rep.Neo4jURI.Valid = false

	if rep.computeOverall() {
		t.Error("Expected overall false for an invalid URI")
	}
}

func TestComputeOverall_LivenessFailure(t *testing.T) {
	rep := passingReport()
	rep.Liveness.OK = false

	if rep.computeOverall() {
		t.Error("Expected overall false for a failed liveness check")
	}
}

func TestComputeOverall_EndpointFailure(t *testing.T) {
	rep := passingReport()
	rep.Endpoints[0].OK = false

	if rep.computeOverall() {
		t.Error("Expected overall false for a failed endpoint check")
	}
}

func TestComputeOverall_OptionalEnvIgnored(t *testing.T) {
	rep := passingReport()
	rep.OptionalEnv = []EnvCheck{
		{Name: "MODEL_NAME", OK: false},
		{Name: "EMBEDDING_MODEL_NAME", OK: false},
		{Name: "SEMAPHORE_LIMIT", OK: false},
	}

	if !rep.computeOverall() {
		t.Error("Expected optional variables to never affect the verdict")
	}
}

func TestComputeOverall_ProbeOnlyCountsWhenPresent(t *testing.T) {
	rep := passingReport()
	if !rep.computeOverall() {
		t.Fatal("Expected overall true without a probe check")
	}

	rep.Probe = &ProbeCheck{Target: "neo4j:7687", OK: false, Error: "dial tcp: connection refused"}
	if rep.computeOverall() {
		t.Error("Expected a failed probe to fail the verdict")
	}

	rep.Probe.OK = true
	rep.Probe.Error = ""
	if !rep.computeOverall() {
		t.Error("Expected a passing probe to keep the verdict true")
	}
}
