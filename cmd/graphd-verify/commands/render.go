package commands

import (
	"fmt"
	"time"

	"github.com/marmos91/graphd/internal/cli/output"
	"github.com/marmos91/graphd/pkg/verify"
)

// renderReport writes the human-readable verification report.
func renderReport(p *output.Printer, rep *verify.Report) {
	p.Println("Graphd Deployment Verification")
	p.Println("==============================")
	p.Printf("Run ID:   %s\n", rep.RunID)
	p.Printf("Started:  %s\n", rep.StartedAt.Format(time.RFC3339))
	p.Printf("Elapsed:  %s\n", rep.Elapsed)
	p.Printf("Target:   %s\n", rep.BaseURL)
	p.Println()

	p.Println("Environment:")
	for _, check := range rep.RequiredEnv {
		p.Printf("  %s %s\n", mark(p, check.OK), check.Name)
	}
	for _, check := range rep.OptionalEnv {
		state := "unset"
		if check.OK {
			state = "set"
		}
		p.Printf("  - %s (optional, %s)\n", check.Name, state)
	}
	p.Println()

	p.Println("Neo4j URI:")
	if rep.Neo4jURI.Valid {
		p.Printf("  %s %s\n", mark(p, true), rep.Neo4jURI.URI)
	} else {
		p.Printf("  %s %s (%s)\n", mark(p, false), rep.Neo4jURI.URI, rep.Neo4jURI.Reason)
	}
	p.Println()

	p.Println("Endpoints:")
	printEndpoint(p, rep.Liveness)
	for _, check := range rep.Endpoints {
		printEndpoint(p, check)
	}

	if rep.Probe != nil {
		p.Println()
		p.Println("Reachability:")
		if rep.Probe.OK {
			p.Printf("  %s %s\n", mark(p, true), rep.Probe.Target)
		} else {
			p.Printf("  %s %s (%s)\n", mark(p, false), rep.Probe.Target, rep.Probe.Error)
		}
	}

	p.Println()
	if rep.Overall {
		p.Success("Overall: PASS")
	} else {
		p.Error("Overall: FAIL")
		printHints(p, rep)
	}
}

func printEndpoint(p *output.Printer, check verify.EndpointCheck) {
	if check.OK {
		p.Printf("  %s %-12s GET %s -> %d\n", mark(p, true), check.Name, check.URL, check.StatusCode)
		return
	}
	detail := check.Error
	if detail == "" {
		detail = fmt.Sprintf("status %d", check.StatusCode)
	}
	p.Printf("  %s %-12s GET %s (%s)\n", mark(p, false), check.Name, check.URL, detail)
}

// printHints suggests a fix per failing category.
func printHints(p *output.Printer, rep *verify.Report) {
	p.Println()
	p.Println("Troubleshooting:")
	if !rep.RequiredEnvOK() {
		p.Println("  - Set the missing required environment variables in the deployment environment.")
	}
	if !rep.Neo4jURI.Valid {
		p.Println("  - NEO4J_URI must use the bolt:// scheme, e.g. bolt://neo4j:7687.")
	}
	if !rep.Liveness.OK || !rep.EndpointsOK() {
		p.Printf("  - Confirm graphd is running and reachable at %s (try 'graphd status' on the host).\n", rep.BaseURL)
	}
	if rep.Probe != nil && !rep.Probe.OK {
		p.Printf("  - Neo4j did not accept a TCP connection at %s; check the database and the network path.\n", rep.Probe.Target)
	}
}

func mark(p *output.Printer, ok bool) string {
	if ok {
		if p.ColorEnabled() {
			return "\033[32m✓\033[0m"
		}
		return "✓"
	}
	if p.ColorEnabled() {
		return "\033[31m✗\033[0m"
	}
	return "✗"
}
