// Smoke client: creates a project against a running server and completes it.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"supercollab/model"
	"supercollab/util"
)

func call(client *http.Client, method, url, token string, body any) (map[string]json.RawMessage, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	fmt.Println(method, url, resp.Status, string(raw))

	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("%s %s: %s", method, url, resp.Status)
	}
	return out, nil
}

func main() {
	baseurl := os.Getenv("SUPERCOLLAB_URL")
	if baseurl == "" {
		baseurl = "http://localhost:8080"
	}
	tm := util.GetTokenMgr()
	client := &http.Client{}

	admin, _, err := tm.CreateTokens(&util.JWTMessage{Pubkey: model.NewPubkey(), Username: "smoke-admin", RolePlatform: model.RoleAdmin})
	if err != nil {
		fmt.Println("err:", err)
		return
	}
	creator := model.NewPubkey()
	token, _, err := tm.CreateTokens(&util.JWTMessage{Pubkey: creator, Username: "smoke", RolePlatform: model.RoleUser})
	if err != nil {
		fmt.Println("err:", err)
		return
	}

	steps := []struct {
		method, path, token string
		body                any
	}{
		{http.MethodPost, "/api/airdrop", admin, map[string]any{"pubkey": creator, "lamports": 1_000_000_000}},
		{http.MethodPost, "/api/projects", token, map[string]any{"name": "Alpha", "description": "smoke", "totalAllocation": 1_000_000}},
	}
	var project string
	for _, s := range steps {
		out, err := call(client, s.method, baseurl+s.path, s.token, s.body)
		if err != nil {
			fmt.Println("err:", err)
			return
		}
		var created struct {
			Project string `json:"project"`
		}
		if json.Unmarshal(out["data"], &created) == nil && created.Project != "" {
			project = created.Project
		}
	}

	if _, err := call(client, http.MethodPut, baseurl+"/api/projects/"+project+"/state", token, map[string]string{"state": "Completed"}); err != nil {
		fmt.Println("err:", err)
		return
	}
	if _, err := call(client, http.MethodGet, baseurl+"/api/projects/"+project, token, nil); err != nil {
		fmt.Println("err:", err)
	}
}
