package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aschepis/llmrelay/chunk"
	"github.com/aschepis/llmrelay/config"
	"github.com/aschepis/llmrelay/dispatch"
	"github.com/aschepis/llmrelay/llm"
	"github.com/aschepis/llmrelay/llm/chat"
	"github.com/aschepis/llmrelay/llm/completion"
	"github.com/aschepis/llmrelay/llm/embedding"
	"github.com/aschepis/llmrelay/llm/responses"
	relaylogger "github.com/aschepis/llmrelay/logger"
	"github.com/aschepis/llmrelay/throttle"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file")
		logFile    = flag.String("logfile", "", "Path to log file. If not set, logs to stderr")
		pretty     = flag.Bool("pretty", false, "Use pretty console output (only valid when logfile is not set)")
		adapterArg = flag.String("adapter", "chat", "Protocol family: chat, responses, or completion")
		model      = flag.String("model", "", "Model override for this invocation")
		stream     = flag.Bool("stream", false, "Stream the response as it is generated")
		embed      = flag.Bool("embed", false, "Chunk the input and embed every chunk instead of completing")
		webSearch  = flag.Bool("web", false, "Enable the web search tool (responses adapter only)")
	)
	flag.Parse()

	if *logFile != "" && *pretty {
		return fmt.Errorf("--logfile and --pretty are mutually exclusive")
	}

	logger, err := relaylogger.InitWithOptions(*logFile, *pretty)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	text, err := readInput(flag.Args())
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no input text: pass it as arguments or on stdin")
	}

	defaults := cfg.LLMDefaults()

	unitCfg := dispatch.Config{
		APIKey:   cfg.OpenAI.APIKey,
		Retries:  defaults.Retries,
		Lifetime: defaults.Lifetime,
		Logger:   logger,
	}

	if interval := cfg.ThrottleInterval(); interval > 0 {
		pacer := throttle.NewPacer(interval, logger)
		defer pacer.Close()
		unitCfg.Gate = pacer
	}

	if *embed {
		return runEmbed(cfg, unitCfg, text)
	}

	req := llm.NewRequestWithDefaults(text, chooseModel(*model, cfg, *adapterArg), defaults)

	var adapter llm.StreamAdapter
	switch *adapterArg {
	case "chat":
		adapter = chat.Adapter{}
		unitCfg.Endpoint = endpoint(cfg.OpenAI.BaseURL, "/chat/completions", chat.DefaultEndpoint)
	case "responses":
		adapter = responses.Adapter{}
		unitCfg.Endpoint = endpoint(cfg.OpenAI.BaseURL, "/responses", responses.DefaultEndpoint)
		if *webSearch {
			req = responses.NewWebSearchRequest(text, req.Model)
		}
	case "completion":
		adapter = completion.Adapter{}
		unitCfg.Endpoint = cfg.Completion.Endpoint
		unitCfg.APIKey = ""
	default:
		return fmt.Errorf("unknown adapter %q (want chat, responses, or completion)", *adapterArg)
	}

	if *stream {
		unitCfg.Lifetime = defaults.StreamLifetime
		return runStream(adapter, unitCfg, req)
	}
	return runOnce(adapter, unitCfg, req)
}

// readInput joins the remaining arguments, or drains stdin when there are
// none, so the tool works both as `llmrelay "prompt"` and in a pipe.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func chooseModel(override string, cfg *config.Config, adapterArg string) string {
	if override != "" {
		return override
	}
	if adapterArg == "completion" {
		return cfg.Completion.Model
	}
	return cfg.OpenAI.Model
}

// endpoint prefers a configured base URL over the official endpoint, so the
// same adapters work against proxies and compatible self-hosted servers.
func endpoint(baseURL, path, official string) string {
	if baseURL == "" {
		return official
	}
	return strings.TrimSuffix(baseURL, "/") + path
}

func runOnce(adapter llm.Adapter, cfg dispatch.Config, req *llm.Request) error {
	unit := dispatch.NewUnit(adapter, cfg)
	replies := make(chan *llm.Request, 1)
	unit.Submit(req, replies)

	reply := <-replies
	utterance, err := reply.Utterance()
	if err != nil {
		return err
	}
	fmt.Println(strings.ReplaceAll(utterance, llm.LineBreak, "\n"))
	return nil
}

func runStream(adapter llm.StreamAdapter, cfg dispatch.Config, req *llm.Request) error {
	unit := dispatch.NewStreamUnit(adapter, cfg)
	events := make(chan dispatch.Event, 16)
	unit.Submit(req, events)

	for ev := range events {
		switch ev.Kind {
		case dispatch.EventStarted:
			continue
		case dispatch.EventDelta:
			fmt.Print(strings.ReplaceAll(ev.Text, llm.LineBreak, "\n"))
		case dispatch.EventEnded:
			fmt.Println()
			return nil
		case dispatch.EventFailed:
			fmt.Println()
			return ev.Err
		}
	}
	return nil
}

func runEmbed(cfg *config.Config, unitCfg dispatch.Config, text string) error {
	unitCfg.Endpoint = endpoint(cfg.OpenAI.BaseURL, "/embeddings", embedding.DefaultEndpoint)

	engine := chunk.NewEngine(embedding.Adapter{}, unitCfg, cfg.OpenAI.EmbeddingModel, cfg.Defaults.ChunkSize)
	set := engine.Embed(context.Background(), text)
	if set.TotalFailure() {
		return fmt.Errorf("all %d chunk embeddings failed", set.ChunkCount)
	}

	fmt.Printf("chunks: %d, embedded: %d\n", set.ChunkCount, len(set.Embeddings))
	for i, emb := range set.Embeddings {
		preview := emb.Chunk
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		fmt.Printf("%3d  dims=%d  %q\n", i, len(emb.Vector), preview)
	}
	return nil
}
