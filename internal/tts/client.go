// Package tts implements the client for TikTok's session-scoped
// text-to-speech endpoint.
package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tiktts/tiktts/internal/config"
	"github.com/tiktts/tiktts/internal/text"
)

// Upstream request constants. The endpoint only answers requests that look
// like they come from the mobile app, hence the pinned User-Agent and the
// aid/speaker_map_type parameters.
const (
	apiSpeechPath = "/media/api/text/speech/invoke/"
	userAgent     = "com.zhiliaoapp.musically/2022600030 (Linux; U; Android 7.1.2; es_ES; SM-G988N; Build/NRD90M;tt-ok/3.12.13.1)"

	paramSpeaker        = "text_speaker"
	paramText           = "req_text"
	paramSpeakerMapType = "speaker_map_type"
	paramAID            = "aid"

	speakerMapTypeValue = "0"
	aidValue            = "1233"
)

// Synthesizer converts one piece of text into audio bytes. An empty speaker
// selects the implementation's default voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, input, speaker string) ([]byte, error)
}

// envelope is the JSON document returned by the speech endpoint.
type envelope struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	StatusMsg  string `json:"status_msg"`
	Data       struct {
		VStr     string `json:"v_str"`
		Duration string `json:"duration"`
		Speaker  string `json:"speaker"`
	} `json:"data"`
}

// SessionClient is a client for the TikTok TTS API authenticated with a
// session cookie. Each Synthesize call is one HTTP round trip; the client
// holds no state between calls.
type SessionClient struct {
	baseURL        string
	sessionID      string
	defaultSpeaker string
	httpClient     *http.Client
}

// NewSessionClient creates a client from the loaded configuration.
func NewSessionClient(cfg *config.Config) *SessionClient {
	return &SessionClient{
		baseURL:        strings.TrimSuffix(cfg.APIBaseURL, "/"),
		sessionID:      cfg.SessionID,
		defaultSpeaker: cfg.Speaker,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
	}
}

// RequestURL builds the full request URL for the given text and speaker
// without issuing a request. Used by the CLI's -url-only mode.
func (c *SessionClient) RequestURL(input, speaker string) (string, error) {
	if speaker == "" {
		speaker = c.defaultSpeaker
	}

	u, err := url.Parse(c.baseURL + apiSpeechPath)
	if err != nil {
		return "", fmt.Errorf("failed to build request URL: %w", err)
	}

	q := u.Query()
	q.Set(paramSpeaker, speaker)
	q.Set(paramText, text.Sanitize(input))
	q.Set(paramSpeakerMapType, speakerMapTypeValue)
	q.Set(paramAID, aidValue)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Synthesize sends one synthesis request and returns the decoded audio
// bytes. It rejects empty input before touching the network and never
// returns partial audio: the result is either the full decoded payload or an
// error of kind *UpstreamError, *TransportError, or *DecodeError.
func (c *SessionClient) Synthesize(ctx context.Context, input, speaker string) ([]byte, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyText
	}

	reqURL, err := c.RequestURL(input, speaker)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cookie", fmt.Sprintf("sessionid=%s", c.sessionID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &TransportError{
			Err: fmt.Errorf("unexpected HTTP status %s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("malformed envelope: %w", err)}
	}

	if env.StatusCode != 0 {
		msg := env.StatusMsg
		if msg == "" {
			msg = env.Message
		}
		return nil, &UpstreamError{StatusCode: env.StatusCode, Message: msg}
	}

	if env.Data.VStr == "" {
		return nil, &DecodeError{Err: errors.New("envelope has no audio payload")}
	}

	audio, err := base64.StdEncoding.DecodeString(env.Data.VStr)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("payload is not valid base64: %w", err)}
	}

	if len(audio) == 0 {
		return nil, &DecodeError{Err: errors.New("decoded audio payload is empty")}
	}

	return audio, nil
}
