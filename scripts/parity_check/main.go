// Command parity_check replays a set of read-only requests against both the
// Go extension API and the legacy LMS endpoints it replaces, and reports
// response divergence. It exits non-zero when a blocking endpoint diverges.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type endpoint struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	LegacyPath string `json:"legacy_path,omitempty"`
	Blocking   bool   `json:"blocking"`
}

type suite struct {
	Endpoints []endpoint `json:"endpoints"`
}

type result struct {
	Endpoint      endpoint
	GoStatus      int
	LegacyStatus  int
	StatusMatch   bool
	BodyMatch     bool
	Err           error
	GoLatency     time.Duration
	LegacyLatency time.Duration
}

func main() {
	var (
		goBase     string
		legacyBase string
		suitePath  string
		apiKey     string
		bearer     string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080/api/extended", "extension API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000/api/extended", "legacy LMS base URL")
	flag.StringVar(&suitePath, "suite", filepath.Join("scripts", "parity_check", "endpoints.json"), "path to JSON endpoint suite")
	flag.StringVar(&apiKey, "api-key", os.Getenv("EDX_API_KEY"), "value for the X-Edx-Api-Key header")
	flag.StringVar(&bearer, "bearer", "", "JWT sent as Authorization: Bearer")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	endpoints, err := loadSuite(suitePath)
	if err != nil {
		log.Fatalf("failed to load suite: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results  []result
		blocking int
		advisory int
	)

	for _, ep := range endpoints {
		res := compare(client, goBase, legacyBase, ep, apiKey, bearer)
		if res.Err != nil || !res.StatusMatch || !res.BodyMatch {
			if ep.Blocking {
				blocking++
			} else {
				advisory++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Blocking diffs: %d, Advisory diffs: %d\n", blocking, advisory)
	if blocking > 0 {
		os.Exit(1)
	}
}

func loadSuite(path string) ([]endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s suite
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints defined in %s", path)
	}
	return s.Endpoints, nil
}

func compare(client *http.Client, goBase, legacyBase string, ep endpoint, apiKey, bearer string) result {
	res := result{Endpoint: ep}

	goStatus, goBody, goDur, err := fetch(client, goBase, ep.Method, ep.Path, apiKey, bearer)
	if err != nil {
		res.Err = fmt.Errorf("extension API request failed: %w", err)
		return res
	}
	legacyPath := ep.LegacyPath
	if legacyPath == "" {
		legacyPath = ep.Path
	}
	legacyStatus, legacyBody, legacyDur, err := fetch(client, legacyBase, ep.Method, legacyPath, apiKey, bearer)
	if err != nil {
		res.Err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.GoStatus = goStatus
	res.LegacyStatus = legacyStatus
	res.GoLatency = goDur
	res.LegacyLatency = legacyDur
	res.StatusMatch = goStatus == legacyStatus
	res.BodyMatch = bodiesEqual(goBody, legacyBody)
	return res
}

func fetch(client *http.Client, base, method, path, apiKey, bearer string) (int, []byte, time.Duration, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	if apiKey != "" {
		req.Header.Set("X-Edx-Api-Key", apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// bodiesEqual ignores key ordering and whitespace by comparing the decoded
// JSON values. Integral floats are folded so 1 and 1.0 compare equal.
func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var av, bv interface{}
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	fold(&av)
	fold(&bv)
	return reflect.DeepEqual(av, bv)
}

func fold(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, child := range val {
			fold(&child)
			val[k] = child
		}
	case []interface{}:
		for i, child := range val {
			fold(&child)
			val[i] = child
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []result) {
	fmt.Println("Endpoint Parity Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Endpoint.Method, res.Endpoint.Path)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Extension: %d (%s) | Legacy: %d (%s)\n", res.GoStatus, res.GoLatency, res.LegacyStatus, res.LegacyLatency)
		fmt.Printf("  Status match: %t | Body match: %t | Blocking: %t\n", res.StatusMatch, res.BodyMatch, res.Endpoint.Blocking)
	}
}
