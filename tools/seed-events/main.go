// Command seed-events submits randomly generated events through the admin
// UI's create endpoint, the same way the browser form does.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

func main() {
	targetURL := flag.String("url", "http://localhost:3000/submit-event", "Create endpoint of the admin UI")
	count := flag.Int("n", 10, "Number of events to submit")
	concurrency := flag.Int("c", 2, "Number of concurrent workers")
	rps := flag.Float64("rps", 5, "Requests per second limit")
	timeout := flag.Duration("timeout", 30*time.Second, "Per-request timeout")
	flag.Parse()

	log.Printf("Seeding %d events into %s", *count, *targetURL)
	log.Printf("Concurrency: %d, RPS: %.1f", *concurrency, *rps)

	ctx := context.Background()
	limiter := rate.NewLimiter(rate.Limit(*rps), 1)
	jobs := make(chan int)

	var wg sync.WaitGroup
	var successCount, errorCount atomic.Int64
	start := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{Timeout: *timeout}
			rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(workerID)))

			for range jobs {
				if err := limiter.Wait(ctx); err != nil {
					errorCount.Add(1)
					continue
				}
				eventID, err := submit(ctx, client, *targetURL, randomFields(rng, time.Now()))
				if err != nil {
					log.Printf("worker %d: %v", workerID, err)
					errorCount.Add(1)
					continue
				}
				log.Printf("worker %d: created %s", workerID, eventID)
				successCount.Add(1)
			}
		}(i)
	}

	for i := 0; i < *count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	log.Println("--- Seed Summary ---")
	log.Printf("Total time: %s", time.Since(start).Round(time.Millisecond))
	log.Printf("Created: %d", successCount.Load())
	log.Printf("Failed: %d", errorCount.Load())
}

type submitResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"eventId"`
	Error   string `json:"error"`
}

func submit(ctx context.Context, client *http.Client, url string, fields map[string]string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var sr submitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&sr); err != nil {
		return "", fmt.Errorf("status %d: undecodable response: %w", resp.StatusCode, err)
	}
	if !sr.Success {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, sr.Error)
	}
	return sr.EventID, nil
}
