package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/santekene/ai-service/internal/application/services"
	"github.com/santekene/ai-service/internal/evaluation"
	"github.com/santekene/ai-service/internal/infrastructure/clients/openai"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
	"github.com/santekene/ai-service/pkg/config"
)

// Runs the golden triage cases against the configured provider and prints
// the summary as JSON. Exits 1 when a quality threshold is violated.
func main() {
	goldenPath := flag.String("cases", "config/golden_triage_cases.json", "path to the golden triage cases")
	enforce := flag.Bool("enforce", true, "exit non-zero when a threshold is violated")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Env)
	logger := observability.GetLogger()

	cases, err := evaluation.LoadGoldenCases(*goldenPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load golden cases")
	}
	if err := evaluation.ValidateGoldenCases(cases); err != nil {
		logger.Fatal().Err(err).Msg("invalid golden cases")
	}

	var llm *openai.ChatClient
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		llm, err = openai.NewOpenAIChatClient(&cfg.OpenAI)
	default:
		llm, err = openai.NewGroqChatClient(&cfg.Groq)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	defer llm.Close()

	triage := services.NewTriageService(llm, nil, services.TriageOptions{MaxAttempts: cfg.LLM.MaxAttempts})
	summary, err := evaluation.NewRunner(triage).Run(context.Background(), cases)
	if err != nil {
		logger.Fatal().Err(err).Msg("evaluation failed")
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to encode summary")
	}
	fmt.Println(string(out))

	violations := evaluation.DefaultThresholds().Check(summary)
	if len(violations) > 0 {
		logger.Warn().
			Str("provider", llm.Name()).
			Str("model", llm.Model()).
			Str("violations", strings.Join(violations, "; ")).
			Msg("quality thresholds not met")
		if *enforce {
			os.Exit(1)
		}
	}
}
