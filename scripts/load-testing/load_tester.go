package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

type LoadTestConfig struct {
	BaseURL             string
	Token               string
	ConcurrentShoppers  int
	TestDurationSeconds int
	RampUpSeconds       int
	CheckoutRatio       float64
}

type TestResult struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	CartMutations      int64
	OrdersPlaced       int64
	CheckoutsRejected  int64
	ResponseTimes      []time.Duration
	Errors             map[string]int64
	mutex              sync.Mutex
}

type PerformanceMetrics struct {
	StartTime           time.Time
	EndTime             time.Time
	TotalDuration       time.Duration
	ThroughputRPS       float64
	SuccessfulRPS       float64
	P50ResponseTime     time.Duration
	P95ResponseTime     time.Duration
	P99ResponseTime     time.Duration
	ErrorRate           float64
	CartMutations       int64
	OrdersPlaced        int64
	CheckoutSuccessRate float64
}

type LoadTester struct {
	config   *LoadTestConfig
	result   *TestResult
	products []string
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func NewLoadTester(config *LoadTestConfig) *LoadTester {
	return &LoadTester{
		config: config,
		result: &TestResult{Errors: make(map[string]int64)},
	}
}

// newShopperClient gives each shopper its own cookie jar and so its own cart.
func newShopperClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: 30 * time.Second,
		Jar:     jar,
		Transport: &http.Transport{
			MaxIdleConns:        1000,
			MaxIdleConnsPerHost: 100,
		},
	}
}

func (lt *LoadTester) loadProducts() error {
	resp, err := http.Get(lt.config.BaseURL + "/api/v1/products")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}

	var items []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return err
	}
	for _, item := range items {
		lt.products = append(lt.products, item.ID)
	}
	if len(lt.products) == 0 {
		return errors.New("catalog is empty")
	}
	return nil
}

func (lt *LoadTester) recordResponse(duration time.Duration, status int, operation string, err error) bool {
	lt.result.mutex.Lock()
	defer lt.result.mutex.Unlock()

	atomic.AddInt64(&lt.result.TotalRequests, 1)
	lt.result.ResponseTimes = append(lt.result.ResponseTimes, duration)

	if err == nil && status < http.StatusBadRequest {
		atomic.AddInt64(&lt.result.SuccessfulRequests, 1)
		return true
	}

	atomic.AddInt64(&lt.result.FailedRequests, 1)
	if err != nil {
		lt.result.Errors[fmt.Sprintf("%s: %s", operation, err.Error())]++
	} else {
		lt.result.Errors[fmt.Sprintf("%s: status %d", operation, status)]++
	}
	return false
}

func (lt *LoadTester) call(client *http.Client, method, path string, body interface{}, auth bool) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequest(method, lt.config.BaseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+lt.config.Token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	status := 0
	if err == nil {
		status = resp.StatusCode
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	lt.recordResponse(time.Since(start), status, method+" "+path, err)
	return status, err
}

func (lt *LoadTester) simulateShopper(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	client := newShopperClient()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		lt.call(client, http.MethodGet, "/api/v1/products", nil, false)

		for n := rand.Intn(4) + 1; n > 0; n-- {
			id := lt.products[rand.Intn(len(lt.products))]
			status, err := lt.call(client, http.MethodPost, "/api/v1/cart/items",
				map[string]interface{}{"id": id, "quantity": rand.Intn(3) + 1}, false)
			if err == nil && status == http.StatusOK {
				atomic.AddInt64(&lt.result.CartMutations, 1)
			}
		}

		lt.call(client, http.MethodGet, "/api/v1/cart", nil, false)

		if rand.Float64() < lt.config.CheckoutRatio {
			lt.checkout(client)
		} else {
			lt.call(client, http.MethodDelete, "/api/v1/cart", nil, false)
		}

		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
	}
}

func (lt *LoadTester) checkout(client *http.Client) {
	status, err := lt.call(client, http.MethodPost, "/api/v1/checkout", map[string]interface{}{
		"billingDetails": map[string]string{
			"firstName": "Load",
			"lastName":  "Tester",
			"email":     "load@example.com",
			"address":   "1 Bench Street",
		},
		"paymentMethod": "cod",
	}, true)

	if err == nil && status == http.StatusCreated {
		atomic.AddInt64(&lt.result.OrdersPlaced, 1)
		return
	}
	atomic.AddInt64(&lt.result.CheckoutsRejected, 1)
}

func (lt *LoadTester) Run() (*PerformanceMetrics, error) {
	if err := lt.loadProducts(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(lt.config.TestDurationSeconds)*time.Second)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nReceived interrupt signal, stopping test...")
			cancel()
		case <-ctx.Done():
		}
	}()

	startTime := time.Now()
	var wg sync.WaitGroup

	interval := time.Duration(lt.config.RampUpSeconds) * time.Second / time.Duration(lt.config.ConcurrentShoppers)
	for i := 0; i < lt.config.ConcurrentShoppers; i++ {
		wg.Add(1)
		go lt.simulateShopper(ctx, &wg)
		if i < lt.config.ConcurrentShoppers-1 {
			time.Sleep(interval)
		}
	}

	go lt.monitorProgress(ctx, startTime)

	wg.Wait()
	return lt.calculateMetrics(startTime, time.Now()), nil
}

func (lt *LoadTester) monitorProgress(ctx context.Context, startTime time.Time) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := time.Since(startTime)
			total := atomic.LoadInt64(&lt.result.TotalRequests)
			orders := atomic.LoadInt64(&lt.result.OrdersPlaced)
			fmt.Printf("[%s] Requests: %d, RPS: %.1f, Orders: %d\n",
				elapsed.Round(time.Second), total, float64(total)/elapsed.Seconds(), orders)
		}
	}
}

func (lt *LoadTester) calculateMetrics(startTime, endTime time.Time) *PerformanceMetrics {
	lt.result.mutex.Lock()
	defer lt.result.mutex.Unlock()

	total := atomic.LoadInt64(&lt.result.TotalRequests)
	successful := atomic.LoadInt64(&lt.result.SuccessfulRequests)
	orders := atomic.LoadInt64(&lt.result.OrdersPlaced)
	rejected := atomic.LoadInt64(&lt.result.CheckoutsRejected)

	metrics := &PerformanceMetrics{
		StartTime:     startTime,
		EndTime:       endTime,
		TotalDuration: endTime.Sub(startTime),
		CartMutations: atomic.LoadInt64(&lt.result.CartMutations),
		OrdersPlaced:  orders,
	}

	if secs := metrics.TotalDuration.Seconds(); secs > 0 {
		metrics.ThroughputRPS = float64(total) / secs
		metrics.SuccessfulRPS = float64(successful) / secs
	}
	if total > 0 {
		metrics.ErrorRate = float64(atomic.LoadInt64(&lt.result.FailedRequests)) / float64(total) * 100
	}
	if attempts := orders + rejected; attempts > 0 {
		metrics.CheckoutSuccessRate = float64(orders) / float64(attempts) * 100
	}
	if len(lt.result.ResponseTimes) > 0 {
		metrics.P50ResponseTime = percentile(lt.result.ResponseTimes, 50)
		metrics.P95ResponseTime = percentile(lt.result.ResponseTimes, 95)
		metrics.P99ResponseTime = percentile(lt.result.ResponseTimes, 99)
	}
	return metrics
}

func percentile(durations []time.Duration, p int) time.Duration {
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := len(sorted) * p / 100
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func (pm *PerformanceMetrics) PrintReport() {
	fmt.Printf("STOREFRONT LOAD TEST RESULTS\n")
	fmt.Printf("Test Duration: %v\n\n", pm.TotalDuration.Round(time.Second))

	fmt.Printf("THROUGHPUT:\n")
	fmt.Printf("- Total RPS: %.2f\n", pm.ThroughputRPS)
	fmt.Printf("- Successful RPS: %.2f\n", pm.SuccessfulRPS)
	fmt.Printf("- Error Rate: %.2f%%\n\n", pm.ErrorRate)

	fmt.Printf("RESPONSE TIMES:\n")
	fmt.Printf("- P50: %v\n", pm.P50ResponseTime.Round(time.Millisecond))
	fmt.Printf("- P95: %v\n", pm.P95ResponseTime.Round(time.Millisecond))
	fmt.Printf("- P99: %v\n\n", pm.P99ResponseTime.Round(time.Millisecond))

	fmt.Printf("SHOPPING:\n")
	fmt.Printf("- Cart Mutations: %d\n", pm.CartMutations)
	fmt.Printf("- Orders Placed: %d\n", pm.OrdersPlaced)
	fmt.Printf("- Checkout Success Rate: %.2f%%\n", pm.CheckoutSuccessRate)
}

func (pm *PerformanceMetrics) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(pm, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
