package main

import (
	"fmt"
	"log"
	"os"
	"time"
)

func main() {
	config := &LoadTestConfig{
		BaseURL:             envOr("STOREFRONT_URL", "http://localhost:8080"),
		Token:               envOr("STOREFRONT_TOKEN", "dev-token"),
		ConcurrentShoppers:  100,
		TestDurationSeconds: 60,
		RampUpSeconds:       10,
		CheckoutRatio:       0.3,
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "light":
			config.ConcurrentShoppers = 20
			config.TestDurationSeconds = 30
		case "heavy":
			config.ConcurrentShoppers = 500
			config.TestDurationSeconds = 300
		case "browse":
			config.CheckoutRatio = 0
		}
	}

	tester := NewLoadTester(config)

	fmt.Printf("Configuration:\n")
	fmt.Printf("- Base URL: %s\n", config.BaseURL)
	fmt.Printf("- Concurrent Shoppers: %d\n", config.ConcurrentShoppers)
	fmt.Printf("- Test Duration: %d seconds\n", config.TestDurationSeconds)
	fmt.Printf("- Checkout Ratio: %.2f\n", config.CheckoutRatio)
	fmt.Printf("\nStarting test...\n\n")

	metrics, err := tester.Run()
	if err != nil {
		log.Fatalf("Load test failed: %v", err)
	}
	metrics.PrintReport()

	filename := fmt.Sprintf("load_test_results_%s.json", time.Now().Format("20060102_150405"))
	if err := metrics.SaveToFile(filename); err != nil {
		log.Printf("Failed to save results to file: %v", err)
	} else {
		fmt.Printf("Results saved to: %s\n", filename)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
