// Package cli provides the command-line driving adapter. Commands are
// thin wrappers that parse flags, call the core services and render the
// results; all business logic stays in internal/core.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/floorwise/floorwise-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/floorwise/floorwise-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/floorwise/floorwise-cli/internal/adapters/driven/embedding/openai"
	"github.com/floorwise/floorwise-cli/internal/adapters/driven/extract/pdf"
	llmanthropic "github.com/floorwise/floorwise-cli/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/floorwise/floorwise-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/floorwise/floorwise-cli/internal/adapters/driven/llm/openai"
	"github.com/floorwise/floorwise-cli/internal/adapters/driven/storage/sqlite"
	visionopenai "github.com/floorwise/floorwise-cli/internal/adapters/driven/vision/openai"
	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driving"
	"github.com/floorwise/floorwise-cli/internal/core/services"
	"github.com/floorwise/floorwise-cli/internal/index"
	"github.com/floorwise/floorwise-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Wired services. Tests inject fakes and set servicesReady so that
// initServices leaves them alone.
var (
	servicesReady bool

	configStore driven.ConfigStore
	corpusStore driven.CorpusStore
	embedder    driven.EmbeddingService
	llmService  driven.LLMService
	visionSvc   driven.VisionService

	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
	ingestService    driving.IngestService
	noteService      driving.NoteService
	machineService   driving.MachineService
)

var rootCmd = &cobra.Command{
	Use:   "floorwise",
	Short: "Shop-floor QA assistant over notes and equipment manuals",
	Long: `floorwise answers questions from two corpora: free-text shop-floor
notes and chunked equipment manuals. Retrieval is hybrid - semantic
vector search fused with BM25 keyword scoring - and answers are
composed by a local or remote LLM from the retrieved passages only.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the CLI.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires adapters and core services from configuration.
func initServices() error {
	if servicesReady {
		return nil
	}

	var err error
	configStore, err = configfile.NewConfigStore(os.Getenv("FLOORWISE_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("opening corpus store: %w", err)
	}
	corpusStore = store

	embedder, err = newEmbedder()
	if err != nil {
		return err
	}
	llmService, err = newLLM()
	if err != nil {
		return err
	}
	visionSvc = newVision()

	indexes := index.NewManager(corpusStore)
	extractor := pdf.NewExtractor(pdf.NewExecRunner())

	retrievalService = services.NewRetrievalService(corpusStore, embedder, indexes)
	answerService = services.NewAnswerService(retrievalService, llmService)
	ingestService = services.NewIngestService(corpusStore, embedder, visionSvc, extractor, indexes)
	noteService = services.NewNoteService(corpusStore, embedder, indexes)
	machineService = services.NewMachineService(corpusStore)

	servicesReady = true
	return nil
}

// newEmbedder builds the configured embedding backend. Ollama is the
// default; "openai" needs an API key from config or the environment.
func newEmbedder() (driven.EmbeddingService, error) {
	switch provider := configStore.GetString("embedding.provider"); provider {
	case "", "ollama":
		return embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL: configStore.GetString("embedding.base_url"),
			Model:   configStore.GetString("embedding.model"),
		}), nil
	case "openai":
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:  openaiAPIKey(),
			BaseURL: configStore.GetString("embedding.base_url"),
			Model:   configStore.GetString("embedding.model"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// newLLM builds the configured answer-composition backend. Ollama is
// the default; "openai" needs an API key from config or the environment.
func newLLM() (driven.LLMService, error) {
	switch provider := configStore.GetString("llm.provider"); provider {
	case "", "ollama":
		return llmollama.NewLLMService(llmollama.LLMConfig{
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("llm.model"),
		}), nil
	case "openai":
		return llmopenai.NewLLMService(llmopenai.LLMConfig{
			APIKey:  openaiAPIKey(),
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("llm.model"),
		})
	case "anthropic":
		return llmanthropic.NewLLMService(llmanthropic.Config{
			APIKey:  anthropicAPIKey(),
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("llm.model"),
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// newVision builds the vision backend when an API key is available.
// Without one the ingestion pipeline simply skips figure descriptions.
func newVision() driven.VisionService {
	key := openaiAPIKey()
	if key == "" {
		return nil
	}
	svc, err := visionopenai.NewVisionService(visionopenai.Config{
		APIKey:            key,
		BaseURL:           configStore.GetString("vision.base_url"),
		Model:             configStore.GetString("vision.model"),
		RequestsPerMinute: configStore.GetInt("vision.requests_per_minute"),
	})
	if err != nil {
		logger.Warn("Vision backend unavailable: %v", err)
		return nil
	}
	return svc
}

// openaiAPIKey resolves the API key from config, falling back to the
// environment.
func openaiAPIKey() string {
	if key := configStore.GetString("openai.api_key"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}

func anthropicAPIKey() string {
	if key := configStore.GetString("anthropic.api_key"); key != "" {
		return key
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

// closeServices releases adapter resources.
func closeServices() {
	for _, c := range []interface{ Close() error }{corpusStore, embedder, llmService, visionSvc} {
		if c != nil {
			_ = c.Close()
		}
	}
}

// retrievalOptions assembles retrieval options from flags and the
// configured tuning values.
func retrievalOptions(ctx context.Context, machineName string, topK int) domain.RetrievalOptions {
	opts := domain.RetrievalOptions{
		TopK:          topK,
		Alpha:         configStore.GetFloat("retrieval.alpha"),
		MinConfidence: configStore.GetFloat("retrieval.min_confidence"),
	}
	if machineName != "" {
		opts.Scope = scopeFor(ctx, machineName)
	}
	return opts
}

// scopeFor resolves a machine name to a retrieval scope. An unknown name
// scopes to an ID that matches nothing, so the query sees only global
// notes rather than failing.
func scopeFor(ctx context.Context, machineName string) domain.Scope {
	machine, err := corpusStore.GetMachineByName(ctx, machineName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Unknown machine %q, only global notes are in scope", machineName)
		}
		return domain.Scope{MachineID: "unknown:" + machineName}
	}
	return domain.Scope{MachineID: machine.ID}
}

// emptyResultMessage renders the machine-readable reason of an empty
// retrieval result for humans.
func emptyResultMessage(reason domain.Reason) string {
	switch reason {
	case domain.ReasonEmptyCorpus:
		return "The corpus is empty for this scope. Add notes or ingest a manual first."
	case domain.ReasonLowConfidence:
		return "No result scored above the confidence threshold."
	default:
		return "No results."
	}
}
