package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	zLog "github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	langChainPrompts "github.com/tmc/langchaingo/prompts"

	classifierHandler "advisor/internal/agents/classifier/handler"
	forecastActor "advisor/internal/agents/forecast/actor"
	forecastHandler "advisor/internal/agents/forecast/handler"
	retrievalActor "advisor/internal/agents/retrieval/actor"
	retrievalHandler "advisor/internal/agents/retrieval/handler"
	strategistHandler "advisor/internal/agents/strategist/handler"
	websearchActor "advisor/internal/agents/websearch/actor"
	websearchHandler "advisor/internal/agents/websearch/handler"
	"advisor/internal/api"
	"advisor/internal/config"
	"advisor/internal/index"
	"advisor/internal/orchestrator"
	"advisor/internal/session"
	"advisor/pkg/logger"
	"advisor/pkg/prompts"
)

func main() {
	log.Println("starting server")

	cfg, err := config.Load()
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Panicf("invalid config: %v", err)
	}

	if err := logger.NewGlobal(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	// the gateway reads the credential from the environment; re-exporting
	// covers the config-file case
	_ = os.Setenv("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	llm, err := openai.New()
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to construct gateway")
	}

	retrievalChain := chains.NewLLMChain(llm,
		langChainPrompts.NewPromptTemplate(prompts.GenerateAnswer, []string{"Query", "Documents"}))
	websearchChain := chains.NewLLMChain(llm,
		langChainPrompts.NewPromptTemplate(prompts.Websearch, []string{"SessionID", "Query"}))
	forecastChain := chains.NewLLMChain(llm,
		langChainPrompts.NewPromptTemplate(prompts.Forecast, []string{"SessionID", "Query"}))
	strategistChain := chains.NewLLMChain(llm,
		langChainPrompts.NewPromptTemplate(prompts.Strategist, []string{"Input"}))
	classifyChain := chains.NewLLMChain(llm,
		langChainPrompts.NewPromptTemplate(prompts.ClassifierRecognize, []string{"Query"}))
	enrichChain := chains.NewLLMChain(llm,
		langChainPrompts.NewPromptTemplate(prompts.EnrichQuery, []string{"Query"}))

	idx, err := index.Load(cfg.Index.Dir)
	if err != nil {
		zLog.Panic().Err(err).Str("dir", cfg.Index.Dir).Msg("failed to load document index")
	}

	system := actor.NewActorSystem().Root
	orch := orchestrator.New(orchestrator.Config{
		Root:      system,
		Retrieval: actor.PropsFromProducer(retrievalActor.New(retrievalHandler.New(idx, retrievalChain))),
		Websearch: actor.PropsFromProducer(websearchActor.New(websearchHandler.New(websearchChain))),
		Forecast:  actor.PropsFromProducer(forecastActor.New(forecastHandler.New(forecastChain))),

		PrimaryTimeout:   cfg.Timeouts.Primary,
		WebsearchTimeout: cfg.Timeouts.Websearch,
		ForecastTimeout:  cfg.Timeouts.Forecast,
		Grace:            cfg.Timeouts.Grace,
		PollInterval:     cfg.Timeouts.PollInterval,
	})

	store := session.NewStore(strategistHandler.New(strategistChain))

	app := api.New(api.Deps{
		Addr:         cfg.Server.Addr,
		Orchestrator: orch,
		Store:        store,
		Preparer:     classifierHandler.New(classifyChain, enrichChain),
		Configured:   true,
	})

	go func() {
		err := app.Start()
		if err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}

	zLog.Info().Msg("server exiting")
}
