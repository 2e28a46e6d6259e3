package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mercado_validade_v1_202608/internal/controller"
	"mercado_validade_v1_202608/internal/metrics"
	"mercado_validade_v1_202608/internal/middleware"
	"mercado_validade_v1_202608/internal/model"
	"mercado_validade_v1_202608/internal/repository"
	"mercado_validade_v1_202608/internal/router"
	"mercado_validade_v1_202608/internal/service"
	"mercado_validade_v1_202608/pkg/config"
	"mercado_validade_v1_202608/pkg/database"
	"mercado_validade_v1_202608/pkg/logger"
)

const templatesGlob = "web/templates/*.html"

func main() {
	root := &cobra.Command{
		Use:   "mercado-validade",
		Short: "Marketplace de produtos perto da validade",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "init-db",
		Short: "Cria as tabelas do banco de dados",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitDB()
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
// 持久化连接和会话存储在这里一次构建，显式传给每个处理器
type Dependencies struct {
	DB          *gorm.DB
	Sessions    *middleware.SessionManager
	Controllers *router.Controllers
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) (*Dependencies, error) {
	// -------- Repo 层 --------
	merchantRepo := repository.NewMerchantRepository(db)
	productRepo := repository.NewProductRepository(db)

	// -------- 存储 --------
	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	// -------- 业务服务 --------
	merchantSvc := service.NewMerchantService(merchantRepo, productRepo, storage)
	productSvc := service.NewProductService(productRepo, storage)

	// -------- 会话 --------
	sessions := middleware.NewSessionManager(cfg.Session.Secret, merchantRepo)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:     controller.NewAuthController(merchantSvc, sessions),
		Merchant: controller.NewMerchantController(merchantSvc, productSvc, sessions),
		Product:  controller.NewProductController(productSvc, sessions),
	}

	return &Dependencies{
		DB:          db,
		Sessions:    sessions,
		Controllers: controllers,
	}, nil
}

// ==================== serve ====================

func runServe() error {
	log := logger.GetLogger()
	defer log.Sync()

	// 1. 配置：数据库连接串缺失属于启动级致命错误
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuração inválida", zap.Error(err))
	}

	// 2. 指标
	metrics.InitMetrics(cfg.Metrics.Prefix)

	// 3. 数据库
	db, err := database.InitDB(cfg.Database.URL)
	if err != nil {
		log.Fatal("falha ao conectar ao banco de dados", zap.Error(err))
	}
	log.Info("banco de dados conectado")

	// 4. 依赖
	deps, err := initDependencies(cfg, db)
	if err != nil {
		log.Fatal("falha ao inicializar dependências", zap.Error(err))
	}

	// 5. 路由 + 服务
	r := router.SetupRouter(deps.Sessions, deps.Controllers, templatesGlob)
	startServer(r, cfg.Server.Port)
	return nil
}

// startServer 启动服务并优雅退出
func startServer(handler http.Handler, port string) {
	log := logger.GetLogger()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	go func() {
		log.Info("servidor iniciado", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("falha ao iniciar o servidor", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("encerrando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("encerramento forçado", zap.Error(err))
	}

	log.Info("servidor encerrado")
}

// ==================== init-db ====================

// runInitDB 对空库建表，部署前跑一次
func runInitDB() error {
	log := logger.GetLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuração inválida", zap.Error(err))
	}

	db, err := database.InitDB(cfg.Database.URL)
	if err != nil {
		log.Fatal("falha ao conectar ao banco de dados", zap.Error(err))
	}

	if err := database.Migrate(db,
		&model.Merchant{},
		&model.Product{},
	); err != nil {
		log.Fatal("falha ao criar as tabelas", zap.Error(err))
	}

	log.Info("banco de dados inicializado com sucesso")
	return nil
}
