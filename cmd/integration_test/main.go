package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pseudocoder/relay/internal/config"
	"github.com/pseudocoder/relay/internal/database"
	"github.com/pseudocoder/relay/internal/middleware"
	"github.com/pseudocoder/relay/internal/models"
)

// Runs against a live relay: validation, one real generation and, when
// DATABASE_URL is set, the matching journal row.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	baseURL := "http://localhost:" + cfg.Port
	httpc := &http.Client{Timeout: cfg.UpstreamTimeout + 5*time.Second}

	// 1. Wait for server startup
	if err := waitHealthy(httpc, baseURL+"/health"); err != nil {
		log.Fatalf("Relay not healthy: %v", err)
	}

	// 2. Blank input is rejected locally by the relay
	status, body := post(httpc, baseURL+"/generate", "", models.GenerationRequest{Pseudocode: "   ", Language: "python"})
	if status != http.StatusBadRequest || body["error"] != models.ErrPseudocodeRequired {
		log.Fatalf("Expected 400 %q, got %d %v", models.ErrPseudocodeRequired, status, body)
	}
	log.Println("Validation OK")

	// 3. One real generation
	requestID := uuid.NewString()
	status, body = post(httpc, baseURL+"/generate", requestID, models.GenerationRequest{
		Pseudocode: "set total to 0\nfor each n in 1..10 add n to total\nprint total",
		Language:   "python",
	})
	switch status {
	case http.StatusOK:
		log.Printf("Generated code:\n%s", body["code"])
	case http.StatusInternalServerError:
		if body["error"] != models.ErrGenerateFailed {
			log.Fatalf("Unexpected error body: %v", body)
		}
		log.Println("Upstream failed, relay answered with the fixed message")
	default:
		log.Fatalf("Unexpected status %d: %v", status, body)
	}

	if cfg.DatabaseURL == "" {
		log.Println("SUCCESS: relay contract verified (journal not configured)")
		return
	}

	// 4. Journal row for the request
	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	var count int
	for i := 0; i < 10 && count == 0; i++ {
		err = db.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM exchanges WHERE request_id = $1", requestID).Scan(&count)
		if err != nil {
			log.Fatalf("Failed to query exchanges: %v", err)
		}
		if count == 0 {
			time.Sleep(500 * time.Millisecond)
		}
	}
	if count == 0 {
		log.Fatal("No journal row found!")
	}

	log.Println("SUCCESS: relay contract and journal verified")
}

func waitHealthy(httpc *http.Client, url string) error {
	var err error
	for i := 0; i < 10; i++ {
		var resp *http.Response
		resp, err = httpc.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			err = fmt.Errorf("status %d", resp.StatusCode)
		}
		log.Printf("Waiting for server... %v", err)
		time.Sleep(1 * time.Second)
	}
	return err
}

func post(httpc *http.Client, url, requestID string, payload any) (int, map[string]string) {
	jsonBody, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set(middleware.RequestIDHeader, requestID)
	}

	resp, err := httpc.Do(req)
	if err != nil {
		log.Fatalf("Request to %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body := map[string]string{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Fatalf("Failed to decode body from %s: %v", url, err)
	}
	return resp.StatusCode, body
}
