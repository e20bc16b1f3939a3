package platform

import (
	"context"
	"encoding/base64"
	"fmt"
)

// SubmitBatch sends a signed, wire-encoded batch and returns its id.
func (c *Client) SubmitBatch(ctx context.Context, batchBytes []byte) (string, error) {
	var result struct {
		BatchID string `json:"batch_id"`
	}
	encoded := base64.StdEncoding.EncodeToString(batchBytes)
	if err := c.call(ctx, "submit_batch", []any{encoded}, &result); err != nil {
		return "", fmt.Errorf("platform: submit_batch: %w", err)
	}
	if result.BatchID == "" {
		return "", fmt.Errorf("platform: submit_batch: empty batch id returned")
	}
	return result.BatchID, nil
}

// BatchStatus polls the platform for a previously submitted batch's
// commit status.
func (c *Client) BatchStatus(ctx context.Context, batchID string) (Status, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, "get_batch_status", []any{batchID}, &result); err != nil {
		return StatusUnknown, fmt.Errorf("platform: get_batch_status: %w", err)
	}
	switch Status(result.Status) {
	case StatusPending, StatusCommitted, StatusInvalid:
		return Status(result.Status), nil
	default:
		return StatusUnknown, nil
	}
}
