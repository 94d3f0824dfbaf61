package app

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/you-humble/scribe/internal/engine"
	"github.com/you-humble/scribe/internal/infra/config"
	jobstore "github.com/you-humble/scribe/internal/infra/store/job"
	stagestore "github.com/you-humble/scribe/internal/infra/store/stage"
	"github.com/you-humble/scribe/internal/transport"
	"github.com/you-humble/scribe/internal/usecase"
	"github.com/you-humble/scribe/internal/worker"
)

type dependencyInjector struct {
	cfgPath string

	cfg    *config.Config
	logger *slog.Logger

	jobStore   *jobstore.Store
	stageStore *stagestore.Store
	engine     *engine.Whisper
	pool       *worker.Pool

	usecase transport.Usecase
	handler *transport.Handler
	router  http.Handler
}

func newDI(cfgPath string) *dependencyInjector {
	return &dependencyInjector{cfgPath: cfgPath}
}

func (di *dependencyInjector) Config() *config.Config {
	if di.cfg == nil {
		di.cfg = config.MustLoad(di.cfgPath)
	}
	return di.cfg
}

func (di *dependencyInjector) Logger() *slog.Logger {
	if di.logger == nil {
		di.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	slog.SetDefault(di.logger)
	return di.logger
}

func (di *dependencyInjector) JobStore() *jobstore.Store {
	if di.jobStore == nil {
		di.jobStore = jobstore.New()
	}
	return di.jobStore
}

func (di *dependencyInjector) StageStore() *stagestore.Store {
	if di.stageStore == nil {
		cfg := di.Config()
		store, err := stagestore.New(cfg.UploadDir)
		if err != nil {
			log.Fatalf("StageStore: %+v", err)
		}
		di.stageStore = store
		di.Logger().Info("initialized staging dir", slog.String("upload_dir", cfg.UploadDir))
	}
	return di.stageStore
}

// Engine builds the ready engine handle up front; a missing binary or model
// is fatal here, before the worker pool ever starts draining tasks.
func (di *dependencyInjector) Engine() *engine.Whisper {
	if di.engine == nil {
		cfg := di.Config().Engine
		eng, err := engine.New(cfg.Command, cfg.ModelPath)
		if err != nil {
			log.Fatalf("Engine: %+v", err)
		}
		di.engine = eng
		di.Logger().Info("transcription engine ready",
			slog.String("command", cfg.Command),
			slog.String("model_path", cfg.ModelPath),
		)
	}
	return di.engine
}

func (di *dependencyInjector) Pool() *worker.Pool {
	if di.pool == nil {
		di.pool = worker.NewPool(
			di.Config().WorkerCount,
			di.JobStore(),
			di.StageStore(),
			di.Engine(),
		)
	}
	return di.pool
}

func (di *dependencyInjector) Usecase() transport.Usecase {
	if di.usecase == nil {
		di.usecase = usecase.New(
			di.JobStore(),
			di.StageStore(),
			di.Pool(),
			di.Engine(),
		)
	}
	return di.usecase
}

func (di *dependencyInjector) Handler() *transport.Handler {
	if di.handler == nil {
		di.handler = transport.NewHandler(di.Config().MaxUploadMb, di.Usecase())
	}
	return di.handler
}

func (di *dependencyInjector) Router() http.Handler {
	if di.router == nil {
		di.router = transport.NewRouter(di.Handler())
	}
	return di.router
}
