package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Manual smoke test for the public tracking endpoint and the admin dashboard.
// Run the server locally, then: go run test/test_track.go

func main() {
	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	// Record a page view
	trackData := map[string]interface{}{
		"page":    "/work/northwind-brand-refresh",
		"country": "TH",
	}
	jsonData, _ := json.Marshal(trackData)

	resp, err := http.Post(base+"/api/analytics", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		fmt.Printf("Error sending track request: %v\n", err)
		return
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	fmt.Printf("Track: %d\n", resp.StatusCode)
	fmt.Printf("Rate limit remaining: %s\n", resp.Header.Get("X-RateLimit-Remaining"))
	fmt.Printf("Body: %s\n\n", string(body))

	// Read the dashboard if a token is available
	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		fmt.Println("Set ADMIN_TOKEN to also exercise the dashboard endpoint")
		fmt.Println("Get one with: curl -X POST " + base + "/api/auth/login -d '{\"email\":...,\"password\":...}'")
		return
	}

	req, err := http.NewRequest("GET", base+"/api/admin/analytics?days=30", nil)
	if err != nil {
		fmt.Printf("Error creating dashboard request: %v\n", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error sending dashboard request: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Dashboard: %d\n", resp.StatusCode)

	var pretty bytes.Buffer
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(pretty.String())
}
