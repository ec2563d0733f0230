package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout: completion calls can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(body []byte) envelope {
	var env envelope
	json.Unmarshal(body, &env)
	return env
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	color.Cyan("🚀 Starting Chat API Smoke Test\n")

	adminEmail := envOr("ADMIN_EMAIL", "admin@example.com")
	adminPassword := envOr("ADMIN_PASSWORD", "admin123")

	// 1. Admin: Login
	color.Yellow("\n[ADMIN] 1. Login")
	resp, body, err := sendRequest("POST", "/admin/login", "", map[string]interface{}{
		"email":    adminEmail,
		"password": adminPassword,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var adminLogin struct {
		AccessToken string `json:"access_token"`
	}
	json.Unmarshal(decode(body).Data, &adminLogin)
	if adminLogin.AccessToken == "" {
		color.Red("No admin token. Seed the admin first (cmd/seed).")
		os.Exit(1)
	}
	adminToken := adminLogin.AccessToken

	// 2. Register a throwaway user (lands in the approval queue)
	testEmail := fmt.Sprintf("smoke+%d@example.com", time.Now().Unix())
	testPassword := "smoketest123"
	color.Yellow("\n[USER] 2. Register %s", testEmail)
	resp, body, err = sendRequest("POST", "/auth/register", "", map[string]interface{}{
		"full_name": "Smoke Tester",
		"email":     testEmail,
		"password":  testPassword,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. User login must be refused while pending
	color.Yellow("\n[USER] 3. Login while pending (expect 401)")
	resp, body, _ = sendRequest("POST", "/auth/login", "", map[string]interface{}{
		"email":    testEmail,
		"password": testPassword,
	})
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 4. Admin: list pending approvals
	color.Yellow("\n[ADMIN] 4. List Pending Approvals")
	resp, body, _ = sendRequest("GET", "/admin/approvals?status=pending", adminToken, nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Admin: approve the request
	color.Yellow("\n[ADMIN] 5. Approve %s", testEmail)
	resp, body, _ = sendRequest("POST", "/admin/approvals/decide", adminToken, map[string]interface{}{
		"email":    testEmail,
		"decision": "approve",
		"notes":    "smoke test",
	})
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 6. User: login now succeeds
	color.Yellow("\n[USER] 6. Login after approval")
	resp, body, err = sendRequest("POST", "/auth/login", "", map[string]interface{}{
		"email":    testEmail,
		"password": testPassword,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var userLogin struct {
		AccessToken string `json:"access_token"`
	}
	json.Unmarshal(decode(body).Data, &userLogin)
	if userLogin.AccessToken == "" {
		color.Red("No user token after approval, aborting")
		os.Exit(1)
	}
	userToken := userLogin.AccessToken

	// 7. Chat: send a message without a session (auto-creates one)
	color.Yellow("\n[CHAT] 7. Send Message (auto session)")
	resp, body, _ = sendRequest("POST", "/chat", userToken, map[string]interface{}{
		"message": "Hello! What can you help me with?",
	})
	color.Green("Status: %s", resp.Status)
	env := decode(body)
	prettyPrint(env)
	var chatResp struct {
		SessionId string `json:"session_id"`
	}
	json.Unmarshal(env.Data, &chatResp)

	// 8. Chat: list sessions
	color.Yellow("\n[CHAT] 8. List Sessions")
	resp, body, _ = sendRequest("GET", "/chat/sessions", userToken, nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 9. Chat: session history
	if chatResp.SessionId != "" {
		color.Yellow("\n[CHAT] 9. Session History")
		resp, body, _ = sendRequest("GET", "/chat/sessions/"+chatResp.SessionId+"/history", userToken, nil)
		color.Green("Status: %s", resp.Status)
		prettyPrint(decode(body))

		// 10. Chat: delete the session
		color.Yellow("\n[CHAT] 10. Delete Session")
		resp, body, _ = sendRequest("DELETE", "/chat/sessions/"+chatResp.SessionId, userToken, nil)
		color.Green("Status: %s", resp.Status)
		prettyPrint(decode(body))
	}

	// 11. Cleanup: user deletes their own account
	color.Yellow("\n[USER] 11. Delete Account")
	resp, body, _ = sendRequest("DELETE", "/user/account", userToken, map[string]interface{}{
		"password": testPassword,
	})
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✨ Smoke test finished")
}
