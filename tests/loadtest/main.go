// Command loadtest drives a running checkinboard instance with concurrent
// pin traffic and checks that no schedule ever reports more pins than allowed.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"go.uber.org/atomic"
)

const maxPinned = 5

var (
	baseURL      = pflag.String("url", "http://127.0.0.1:8090", "checkinboard base URL")
	numWorkers   = pflag.Int("workers", 50, "concurrent workers")
	testDuration = pflag.Duration("duration", 10*time.Second, "duration of each phase")
	numUsers     = pflag.Int("users", 40, "distinct user ids")
	numSchedules = pflag.Int("schedules", 4, "distinct schedule ids")
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type pinnedSnapshot struct {
	Ids   []string `json:"ids"`
	Count int      `json:"count"`
}

var violations atomic.Int64

func main() {
	pflag.Parse()

	fmt.Println("=== checkinboard pin load test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", *numWorkers, *testDuration)
	fmt.Printf("Users: %d | Schedules: %d\n\n", *numUsers, *numSchedules)

	fmt.Print("Waiting for server... ")
	for i := range 30 {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Pin pressure (PUT) ---")
	runPhase(func(rng *rand.Rand) result {
		return doPin(rng)
	})

	fmt.Println("\n--- Phase 2: Mixed (40% toggle, 20% pin, 20% unpin, 20% list) ---")
	runPhase(func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doToggle(rng)
		case r < 0.60:
			return doPin(rng)
		case r < 0.80:
			return doUnpin(rng)
		default:
			return doList(rng)
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy (5% clear, 95% list) ---")
	runPhase(func(rng *rand.Rand) result {
		if rng.Float64() < 0.05 {
			return doClear(rng)
		}
		return doList(rng)
	})

	fmt.Printf("\nCapacity violations: %d\n", violations.Load())
}

func runPhase(workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := range *numWorkers {
		seed := rand.Int63() + int64(i)
		wg.Go(func() {
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		})
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(*testDuration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, *testDuration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	slices.Sort(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		slices.Sort(s.latencies)
		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(max(totalOps, 1))*100, rps)
}

func pick(rng *rand.Rand) (schedule, user string) {
	return fmt.Sprintf("sched_%d", rng.Intn(*numSchedules)), fmt.Sprintf("user_%d", rng.Intn(*numUsers))
}

// send issues the request and checks the pinned snapshot in the answer, if any.
func send(name, method, url string, ok ...int) result {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return result{name, 0, 0, true}
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{name, 0, lat, true}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK {
		var snap pinnedSnapshot
		if json.Unmarshal(body, &snap) == nil && (snap.Count > maxPinned || len(snap.Ids) > maxPinned) {
			violations.Inc()
		}
	}
	return result{name, resp.StatusCode, lat, !slices.Contains(ok, resp.StatusCode)}
}

func doPin(rng *rand.Rand) result {
	s, u := pick(rng)
	return send("PUT pinned/{id}", http.MethodPut, fmt.Sprintf("%s/api/schedules/%s/pinned/%s", *baseURL, s, u),
		http.StatusOK, http.StatusConflict)
}

func doUnpin(rng *rand.Rand) result {
	s, u := pick(rng)
	return send("DELETE pinned/{id}", http.MethodDelete, fmt.Sprintf("%s/api/schedules/%s/pinned/%s", *baseURL, s, u),
		http.StatusOK)
}

func doToggle(rng *rand.Rand) result {
	s, u := pick(rng)
	return send("POST toggle", http.MethodPost, fmt.Sprintf("%s/api/schedules/%s/pinned/%s/toggle", *baseURL, s, u),
		http.StatusOK)
}

func doList(rng *rand.Rand) result {
	s, _ := pick(rng)
	return send("GET pinned", http.MethodGet, fmt.Sprintf("%s/api/schedules/%s/pinned", *baseURL, s), http.StatusOK)
}

func doClear(rng *rand.Rand) result {
	s, _ := pick(rng)
	return send("DELETE pinned", http.MethodDelete, fmt.Sprintf("%s/api/schedules/%s/pinned", *baseURL, s), http.StatusOK)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
