// Package entropy provides a true-random seed via random.org, falling back
// to crypto/rand when the API is unavailable.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Seed fetches one random int64 seed. With an empty apiKey (or on any API
// failure) it draws from crypto/rand instead.
func Seed(apiKey string) int64 {
	if apiKey == "" {
		return cryptoSeed()
	}

	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]any{
			"apiKey": apiKey,
			"n":      1,
			"min":    0,
			"max":    1_000_000_000,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return cryptoSeed()
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Post("https://api.random.org/json-rpc/4/invoke", "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return cryptoSeed()
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return cryptoSeed()
	}

	var parsed struct {
		Result struct {
			Random struct {
				Data []int64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Result.Random.Data) == 0 {
		slog.Debug("random.org response unusable", "error", err)
		return cryptoSeed()
	}
	return parsed.Result.Random.Data[0]
}

func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Last resort: a fixed seed beats a crash at startup.
		return 1
	}
	v := int64(binary.LittleEndian.Uint64(buf[:]))
	if v < 0 {
		v = -v
	}
	return v
}
