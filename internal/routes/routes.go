package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/controllers"
	"github.com/asamarka-625/ApplicationSystem/internal/integrations/mock"
	"github.com/asamarka-625/ApplicationSystem/internal/repositories"
	"github.com/asamarka-625/ApplicationSystem/internal/services"
	"github.com/asamarka-625/ApplicationSystem/pkg/config"
	"github.com/asamarka-625/ApplicationSystem/pkg/filestorage"
	"github.com/asamarka-625/ApplicationSystem/pkg/middleware"
	"github.com/asamarka-625/ApplicationSystem/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: начало создания маршрутов")

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.BasePath)
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn)

	// Репозитории
	requestRepo := repositories.NewRequestRepository(dbConn)
	itemRepo := repositories.NewRequestItemRepository(dbConn)
	historyRepo := repositories.NewRequestHistoryRepository(dbConn)
	actorRepo := repositories.NewActorRepository(dbConn)
	catalogRepo := repositories.NewCatalogRepository(dbConn)
	attachRepo := repositories.NewAttachmentRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Сервисы
	docProvider := mock.NewDocumentProvider()
	requestService := services.NewRequestService(txManager, requestRepo, itemRepo, historyRepo,
		actorRepo, catalogRepo, attachRepo, fileStorage, docProvider, docProvider, logger)
	viewService := services.NewViewService(requestRepo, itemRepo, historyRepo, actorRepo, attachRepo, logger)
	attachService := services.NewAttachmentService(txManager, requestRepo, itemRepo, attachRepo,
		historyRepo, fileStorage, logger)
	catalogService := services.NewCatalogService(catalogRepo, cacheRepo, logger)

	// Контроллеры
	requestCtrl := controllers.NewRequestController(requestService, attachService, logger)
	viewCtrl := controllers.NewViewController(viewService, logger)
	catalogCtrl := controllers.NewCatalogController(catalogService, logger)

	authMW := middleware.NewAuthMiddleware(jwtSvc, actorRepo, logger)

	apiGroup := e.Group("/api/v1", authMW.Auth, authMW.Actor)

	request := apiGroup.Group("/request")
	request.POST("/create", requestCtrl.Create)
	request.PATCH("/edit/:registration_number", requestCtrl.Edit)
	request.PATCH("/approve/:registration_number", requestCtrl.Approve)
	request.PATCH("/reject/:registration_number", requestCtrl.Reject)
	request.PATCH("/redirect/management/:registration_number", requestCtrl.RedirectManagement)
	request.PATCH("/redirect/executor/:registration_number", requestCtrl.RedirectExecutor)
	request.PATCH("/redirect/organization/:registration_number", requestCtrl.RedirectOrganization)
	request.PATCH("/planning/:registration_number", requestCtrl.Planning)
	request.PATCH("/execute/:registration_number", requestCtrl.Execute)
	request.POST("/attachment/:registration_number", requestCtrl.UploadAttachment)
	request.GET("/attachment/:registration_number/:document_id", requestCtrl.DownloadAttachment)
	request.DELETE("/attachment/:registration_number/:document_id", requestCtrl.DeleteAttachment)

	view := request.Group("/view")
	view.GET("/list/requests", viewCtrl.ListRequests)
	view.GET("/list/planning", viewCtrl.ListPlanning)
	view.GET("/detail/:registration_number", viewCtrl.Detail)
	view.GET("/data/:registration_number", viewCtrl.Data)
	view.GET("/info", viewCtrl.Info)

	catalog := apiGroup.Group("/catalog")
	catalog.GET("/items", catalogCtrl.SearchItems)
	catalog.GET("/departments", catalogCtrl.ListDepartments)
	catalog.GET("/organizations", catalogCtrl.ListOrganizations)
	catalog.GET("/executors", catalogCtrl.ListExecutors)
	catalog.GET("/management-departments", catalogCtrl.ListManagementDepartments)

	logger.Info("InitRouter: маршруты созданы")
}
