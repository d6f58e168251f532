// Package client is a small JSON client for the InfoMate HTTP API, used by
// the terminal chat frontend.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL   string
	sessionID string
	http      *http.Client
}

func New(baseURL, sessionID string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		sessionID: sessionID,
		http:      &http.Client{Timeout: 90 * time.Second},
	}
}

type Source struct {
	Source  string  `json:"source"`
	ChunkID int     `json:"chunk_id"`
	Score   float64 `json:"score"`
}

type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type Status struct {
	Message string `json:"message"`
	Ready   bool   `json:"ready"`
	Chunks  int    `json:"chunks"`
	Source  string `json:"source"`
	Summary string `json:"summary"`
}

// Chat sends one query under the client's session and returns the answer.
func (c *Client) Chat(query string) (*Answer, error) {
	payload, _ := json.Marshal(map[string]string{
		"query":      query,
		"session_id": c.sessionID,
	})
	resp, err := c.http.Post(c.baseURL+"/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}
	var out Answer
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode answer: %w", err)
	}
	return &out, nil
}

// Status fetches index readiness and the corpus summary.
func (c *Client) Status() (*Status, error) {
	resp, err := c.http.Get(c.baseURL + "/")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}
	var out Status
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &out, nil
}
