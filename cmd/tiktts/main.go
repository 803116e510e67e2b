package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tiktts/tiktts/internal/config"
	"github.com/tiktts/tiktts/internal/observability"
	"github.com/tiktts/tiktts/internal/resilience"
	"github.com/tiktts/tiktts/internal/tts"
)

// Exit codes. Configuration and usage mistakes are distinguishable from
// synthesis failures so the orchestrating scripts can tell them apart.
const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	speaker := flag.String("speaker", "", "TikTok speaker voice (default: en_us_002, or TIKTOK_SPEAKER)")
	urlOnly := flag.Bool("url-only", false, "Print the request URL instead of making the HTTP request")
	timeout := flag.Int("timeout", 0, "Per-request timeout in seconds (default: 30, or REQUEST_TIMEOUT)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] TEXT...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Converts text to speech via the TikTok session TTS API and writes\n")
		fmt.Fprintf(os.Stderr, "raw audio bytes to stdout. Reads text from stdin when no arguments\n")
		fmt.Fprintf(os.Stderr, "are given.\n\n")
		fmt.Fprintf(os.Stderr, "Requires TIKTOK_SESSIONID and TIKTOK_API_BASEURL in the environment\n")
		fmt.Fprintf(os.Stderr, "or a .env file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s \"hello world\" > hello.mp3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -speaker en_us_006 \"hello\" | mpv -\n", os.Args[0])
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
	if *speaker != "" {
		cfg.Speaker = *speaker
	}
	if *timeout > 0 {
		cfg.RequestTimeout = *timeout
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	input, err := readText(flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	client := tts.NewSessionClient(cfg)
	retry := resilience.FromSettings(cfg.RetryMaxAttempts, cfg.RetryInitialBackoff)
	engine := tts.NewEngine(client, cfg.ChunkByteLimit, retry, logger)

	if *urlOnly {
		// No credentials and no network needed to print the URL.
		if err := printFirstChunkURL(client, engine, input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitFailure)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	ctx := context.Background()
	audio, err := engine.SynthesizeAll(ctx, input, cfg.Speaker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	logger.Debug().Int("bytes", len(audio)).Msg("writing audio to stdout")

	if _, err := os.Stdout.Write(audio); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing audio: %v\n", err)
		os.Exit(exitFailure)
	}
}

// readText joins positional arguments with spaces, falling back to stdin
// when none are given.
func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "", errors.New("no text provided via arguments or stdin")
	}

	return trimmed, nil
}

// printFirstChunkURL prints the request URL for the first chunk of input.
func printFirstChunkURL(client *tts.SessionClient, engine *tts.Engine, input string) error {
	chunks := engine.Chunks(input)
	if len(chunks) == 0 {
		return tts.ErrEmptyText
	}

	url, err := client.RequestURL(chunks[0], "")
	if err != nil {
		return err
	}

	fmt.Println(url)

	return nil
}
