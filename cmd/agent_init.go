package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/alexupport/alexupport/internal/agent"
	"github.com/alexupport/alexupport/internal/index"
	"github.com/alexupport/alexupport/internal/llm"
	"github.com/alexupport/alexupport/internal/usage"
	"github.com/alexupport/alexupport/pkg/qdrant"
)

// agentEnv holds the initialized service handles shared by the ask/chat/serve
// commands.
type agentEnv struct {
	Client   llm.Client
	Index    index.Index
	Recorder usage.Recorder
	SQLite   *usage.SQLiteRecorder

	closeIndex func()
}

// Close releases resources held by the environment.
func (e *agentEnv) Close() {
	if e.closeIndex != nil {
		e.closeIndex()
	}
	if e.Recorder != nil {
		_ = e.Recorder.Close()
	}
}

// NewAgent builds a fresh single-session orchestrator on the shared handles.
func (e *agentEnv) NewAgent() *agent.Agent {
	return agent.New(e.Client, e.Index, agent.Config{
		MaxAttempts: cfg.Agent.MaxAttempts,
		Retriever: agent.RetrieverConfig{
			TopK:           cfg.Agent.TopK,
			ScoreThreshold: cfg.Agent.ScoreThreshold,
			ScrollPageSize: cfg.Agent.ScrollPageSize,
		},
	})
}

// initAgentEnv validates the config and wires the usage recorders, the text
// client and the vector index. Callers should defer env.Close().
func initAgentEnv(ctx context.Context) (*agentEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	env := &agentEnv{}

	recorders := make([]usage.Recorder, 0, 2)
	fileRec, err := usage.NewFileRecorder(cfg.Usage.LogPath)
	if err != nil {
		// Advisory channel: a broken audit sink must not block answering.
		zap.L().Warn("usage file recorder unavailable", zap.Error(err))
	} else {
		recorders = append(recorders, fileRec)
	}
	sqlRec, err := usage.NewSQLiteRecorder(cfg.Usage.DBPath)
	if err != nil {
		zap.L().Warn("usage sqlite recorder unavailable", zap.Error(err))
	} else {
		recorders = append(recorders, sqlRec)
		env.SQLite = sqlRec
	}
	if len(recorders) > 0 {
		env.Recorder = usage.NewMulti(recorders...)
	} else {
		env.Recorder = usage.Nop{}
	}

	azureClient := llm.NewAzureClient(llm.AzureConfig{
		APIKey:     cfg.Model.AzureKey,
		Endpoint:   cfg.Model.AzureEndpoint,
		APIVersion: cfg.Model.APIVersion,
	})
	embedder := llm.NewAzureEmbedder(azureClient, cfg.Model.EmbeddingDeployment)

	var chat llm.ChatModel
	switch cfg.Model.Provider {
	case "anthropic":
		chat = llm.NewAnthropicChat(cfg.Model.AnthropicKey, cfg.Model.AnthropicModel, cfg.Model.MaxTokens)
	default:
		chat = llm.NewAzureChat(azureClient, cfg.Model.ChatDeployment, cfg.Model.MaxTokens)
	}
	env.Client = llm.New(chat, embedder, env.Recorder, cfg.Model.RequestsPerSecond)

	switch cfg.Index.Backend {
	case "pgvector":
		pg, err := index.NewPgVector(ctx, cfg.Index.DatabaseURL, cfg.Index.Table)
		if err != nil {
			env.Close()
			return nil, eris.Wrap(err, "init pgvector index")
		}
		env.Index = pg
		env.closeIndex = pg.Close
	default:
		qc := qdrant.NewClient(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		env.Index = index.NewQdrant(qc, cfg.Qdrant.VectorName)
	}

	zap.L().Info("agent environment ready",
		zap.String("index_backend", cfg.Index.Backend),
		zap.String("model_provider", cfg.Model.Provider),
	)
	return env, nil
}
