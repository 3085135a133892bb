package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/opd-ai/horde"
)

// HordeClient is an ImageClient backed by the AI Horde. The horde client has no
// context support, so each attempt runs in a goroutine bounded by the attempt timeout.
type HordeClient struct {
	client  *horde.Client
	timeout time.Duration
	retries int
	backoff time.Duration
}

func NewHordeClient(apiKey string, timeout time.Duration, retries int) *HordeClient {
	if apiKey == "" {
		apiKey = "0000000000" // anonymous horde key
	}
	if retries < 0 {
		retries = 0
	}
	return &HordeClient{
		client:  horde.NewClient(apiKey),
		timeout: timeout,
		retries: retries,
		backoff: 2 * time.Second,
	}
}

func (h *HordeClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= h.retries; attempt++ {
		if attempt > 0 {
			wait := h.backoff * time.Duration(attempt)
			log.Printf("WARN (HordeClient): Image attempt %d failed: %v. Retrying in %s.", attempt, lastErr, wait)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}
		url, err := h.attempt(ctx, prompt)
		if err == nil {
			return url, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("image generation failed after %d attempts: %w", h.retries+1, lastErr)
}

type hordeResult struct {
	url string
	err error
}

func (h *HordeClient) attempt(ctx context.Context, prompt string) (string, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	done := make(chan hordeResult, 1)
	go func() {
		req := horde.GenerationRequest{
			Prompt: prompt,
			Params: horde.Params{
				Steps:     horde.DefaultSteps,
				Width:     horde.DefaultWidth,
				Height:    horde.DefaultHeight,
				ModelName: horde.DefaultModel,
			},
		}
		resp, err := h.client.RequestGeneration(req)
		if err != nil {
			done <- hordeResult{err: fmt.Errorf("requesting generation: %w", err)}
			return
		}
		status, err := h.client.WaitForCompletion(resp.ID)
		if err != nil {
			done <- hordeResult{err: fmt.Errorf("waiting for completion: %w", err)}
			return
		}
		if len(status.Generation) == 0 || status.Generation[0].Image == "" {
			done <- hordeResult{err: errors.New("horde returned no images")}
			return
		}
		done <- hordeResult{url: status.Generation[0].Image}
	}()

	select {
	case r := <-done:
		return r.url, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("image generation timed out: %w", ctx.Err())
	}
}
