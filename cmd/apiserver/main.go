package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/go-logr/zapr"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bridgy/internal/api"
	"bridgy/internal/config"
	"bridgy/internal/expert"
	"bridgy/internal/intersight"
	"bridgy/internal/llm"
	"bridgy/internal/nexus"
	"bridgy/internal/retrieval"
	"bridgy/internal/store"
)

func main() {
	var apiPort int
	var configPath string
	var insecureSkipVerify bool

	flag.IntVar(&apiPort, "api-port", 0, "The port the API server binds to (overrides config).")
	flag.StringVar(&configPath, "config", "cmd/config/config.yaml", "The path to the configuration file.")
	flag.BoolVar(&insecureSkipVerify, "insecure-skip-tls-verify", false, "Skip TLS verification for Nexus Dashboard (self-signed lab certs).")
	flag.Parse()

	// Use Zap for structured logging
	zapLog, _ := zap.NewDevelopment()
	log := zapr.NewLogger(zapLog)
	setupLog := log.WithName("setup")

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		setupLog.Error(err, "unable to load configuration")
		os.Exit(1)
	}

	// Override config with flags if they were set
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-port":
			cfg.APIPort = apiPort
		case "insecure-skip-tls-verify":
			cfg.Nexus.InsecureSkipVerify = insecureSkipVerify
		}
	})

	// Build the LLM router. A failed build is non-fatal: the classifier falls
	// back to its keyword heuristic and the LLM-backed experts degrade to
	// "unavailable", which the expert router routes around.
	var llmRouter *llm.Router
	if cfg.LLM.DefaultProvider != "" && len(cfg.LLM.Providers) > 0 {
		r, err := llm.NewRouterFromConfig(cfg.LLM)
		if err != nil {
			setupLog.Error(err, "failed to build LLM router; running heuristic-only")
		} else {
			llmRouter = r
			setupLog.Info("LLM router ready", "provider", r.DefaultProvider())
		}
	}
	// An interface-typed nil must stay nil for the consumers' nil checks.
	var generator expert.LLM
	if llmRouter != nil {
		generator = llmRouter
	}

	// Vendor API clients. A construction failure (missing credentials,
	// unreadable key) disables that expert for the process lifetime; the
	// router falls back per its policy instead of the process exiting.
	var intersightSvc *intersight.Service
	if cfg.Intersight.KeyID != "" {
		client, err := intersight.NewClient(intersight.Options{
			Host:       cfg.Intersight.Host,
			KeyID:      cfg.Intersight.KeyID,
			SecretPath: cfg.Intersight.SecretPath,
		})
		if err != nil {
			setupLog.Error(err, "intersight client unavailable")
		} else {
			intersightSvc = intersight.NewService(client, slog.Default())
			setupLog.Info("intersight client ready", "host", cfg.Intersight.Host)
		}
	}

	var nexusSvc *nexus.Service
	if cfg.Nexus.URL != "" {
		client, err := nexus.NewClient(nexus.Options{
			URL:                cfg.Nexus.URL,
			Username:           cfg.Nexus.Username,
			Password:           cfg.Nexus.Password,
			InsecureSkipVerify: cfg.Nexus.InsecureSkipVerify,
		})
		if err != nil {
			setupLog.Error(err, "nexus dashboard client unavailable")
		} else {
			nexusSvc = nexus.NewService(client, slog.Default())
			setupLog.Info("nexus dashboard client ready", "url", cfg.Nexus.URL)
		}
	}

	// Retrieval for the AI Pods expert: pgvector-backed when a DSN is
	// configured, otherwise the built-in reference corpus.
	var retriever expert.Retriever = retrieval.NewStaticRetriever()
	if cfg.Retrieval.PostgresDSN != "" {
		openaiCfg := cfg.LLM.Providers["openai"]
		embedder := llm.NewOpenAIEmbedder(openaiCfg.APIKey, openaiCfg.BaseURL)
		vs, err := retrieval.NewVectorStoreFromDSN(context.Background(),
			cfg.Retrieval.PostgresDSN, embedder, cfg.Retrieval.EmbeddingDim, slog.Default())
		if err != nil {
			setupLog.Error(err, "vector store unavailable, using built-in corpus")
		} else if err := vs.InitSchema(context.Background()); err != nil {
			setupLog.Error(err, "vector store schema init failed, using built-in corpus")
		} else {
			retriever = vs
			defer vs.Close()
			setupLog.Info("pgvector retrieval enabled")
		}
	}

	// Conversation store: Redis in production, in-memory when no address is
	// configured (dev mode; threads do not survive a restart).
	var conversations store.Store
	if cfg.Redis.Addr != "" {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rs := store.NewRedisStore(redisClient)
		if err := rs.Ping(context.Background()); err != nil {
			setupLog.Error(err, "redis unreachable")
			os.Exit(1)
		}
		conversations = rs
		setupLog.Info("redis conversation store enabled", "addr", cfg.Redis.Addr)
	} else {
		conversations = store.NewMemoryStore()
		setupLog.Info("in-memory conversation store enabled")
	}

	// Expert registry. Entries stay nil when the backing client is missing so
	// the router reports them unavailable instead of calling into a nil
	// service.
	experts := map[expert.Kind]expert.Expert{
		expert.KindGeneral: expert.NewGeneralExpert(generator),
		expert.KindAIPods:  expert.NewAIPodsExpert(retriever, generator, slog.Default()),
	}
	if intersightSvc != nil {
		experts[expert.KindIntersight] = expert.NewIntersightExpert(intersightSvc, generator, slog.Default())
	}
	if nexusSvc != nil {
		experts[expert.KindNexusDashboard] = expert.NewNexusDashboardExpert(nexusSvc, generator, slog.Default())
	}
	if intersightSvc != nil || nexusSvc != nil {
		var isrc expert.IntersightSource
		if intersightSvc != nil {
			isrc = intersightSvc
		}
		var nsrc expert.NexusSource
		if nexusSvc != nil {
			nsrc = nexusSvc
		}
		experts[expert.KindInfrastructure] = expert.NewInfrastructureExpert(isrc, nsrc, slog.Default())
	}

	classifier := expert.NewClassifier(generator, slog.Default())
	router := expert.NewRouter(classifier, experts, slog.Default())

	apiServer := api.NewServer(router, conversations, cfg.APIPort, log.WithName("api-server")).
		WithLLMRouter(llmRouter)

	setupLog.Info("starting api server", "port", cfg.APIPort)
	if err := apiServer.Start(); err != nil {
		setupLog.Error(err, "problem running api server")
		os.Exit(1)
	}
}
