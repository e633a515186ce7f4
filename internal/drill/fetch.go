package drill

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/verte-zerg/typewriter/internal/exercise"
)

// maxFetchSize caps a downloaded drill.
const maxFetchSize = 1 << 20

// Fetcher downloads drill text over HTTP.
type Fetcher struct {
	Client *http.Client
}

// NewFetcher returns a Fetcher with a request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch downloads answer text, with an optional // caption, from url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (exercise.Assignment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return exercise.Assignment{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return exercise.Assignment{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return exercise.Assignment{}, errors.Errorf("unexpected drill status: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize+1))
	if err != nil {
		return exercise.Assignment{}, errors.Wrapf(err, "read %s", url)
	}
	if len(body) > maxFetchSize {
		return exercise.Assignment{}, errors.Errorf("drill at %s is larger than %d bytes", url, maxFetchSize)
	}
	a, err := ReadText(bytes.NewReader(body))
	if err != nil {
		return exercise.Assignment{}, errors.Wrapf(err, "fetch %s", url)
	}
	return a, nil
}
