package run

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gwillem/pipet/pkg/protocol"
)

// DefaultPort is the robot server's HTTP port.
const DefaultPort = 31950

// Client sends commands to the robot server's HTTP API, one POST per
// command. The server queues and executes them in arrival order; all
// motion-level behavior (tip pickup mechanics, flow rates, z-travel) is
// the vendor runtime's business.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the robot at the given host. The host
// may include a port; without one the robot server default is used.
func NewClient(host string) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, DefaultPort),
		http: &http.Client{
			// Long timeout: a 15-rep mix takes a while to physically run.
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *Client) Execute(ctx context.Context, cmd protocol.Command) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/commands", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post command: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("robot server returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}
