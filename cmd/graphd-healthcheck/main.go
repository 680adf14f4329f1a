// Command graphd-healthcheck probes a running graphd server and reports
// liveness through its exit code. It is meant to back a container
// HEALTHCHECK instruction, so it prints a single line and exits.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8000"
	probeTimeout   = 5 * time.Second
)

func main() {
	baseURL := os.Getenv("GRAPHD_HEALTHCHECK_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := &http.Client{Timeout: probeTimeout}
	os.Exit(run(baseURL, client, os.Stdout, os.Stderr))
}

// run probes <baseURL>/healthcheck and maps the outcome to an exit code:
// 0 for HTTP 200, 1 for any other status or connection error.
func run(baseURL string, client *http.Client, stdout, stderr io.Writer) int {
	url := strings.TrimRight(baseURL, "/") + "/healthcheck"

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(stderr, "healthcheck failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(stderr, "healthcheck failed: %s returned %s\n", url, resp.Status)
		return 1
	}

	fmt.Fprintf(stdout, "healthcheck ok: %s\n", url)
	return 0
}
