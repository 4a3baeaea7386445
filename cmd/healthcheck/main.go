// Command healthcheck hits the studyhub server's health endpoint and exits
// nonzero when it is unreachable or unhealthy. It is wired as the container
// HEALTHCHECK so the orchestrator can restart a wedged server.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	healthPath   = "/api/v1/health"
	defaultAddr  = "127.0.0.1:8080"
	checkTimeout = 2 * time.Second
)

func main() {
	os.Exit(check())
}

func check() int {
	addr := dialAddr(os.Getenv("STUDYHUB_LISTEN_ADDR"))

	client := &http.Client{Timeout: checkTimeout}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s%s", addr, healthPath), nil)
	if err != nil {
		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		return 1
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	return 0
}

// dialAddr turns the server's listen address into one the check can dial.
// The server binds 0.0.0.0 in a container while the check runs alongside it,
// so bind-all and empty hosts are rewritten to loopback.
func dialAddr(raw string) string {
	if raw == "" {
		return defaultAddr
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
