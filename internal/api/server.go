package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/eventra-api/docs"
	v1 "github.com/vietanh2810/eventra-api/internal/api/handler/v1"
	"github.com/vietanh2810/eventra-api/internal/api/middleware"
	"github.com/vietanh2810/eventra-api/internal/config"
	"github.com/vietanh2810/eventra-api/internal/repository"
	"github.com/vietanh2810/eventra-api/internal/repository/dao"
	"github.com/vietanh2810/eventra-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	eventHandler := s.initEventHandler(db)
	gradingHandler := s.initGradingHandler(db)
	participantHandler := s.initParticipantHandler(db)
	s.MountHandlers(eventHandler, gradingHandler, participantHandler)

	return s
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	gradingDAO := dao.NewGradingDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(
		repo,
		repository.NewRewardStore(eventDAO),
		repository.NewFileRequirementStore(eventDAO),
		repository.NewCriterionStore(gradingDAO),
	)
	handler := v1.NewEventHandler(svc)

	return handler
}

func (s *Server) initGradingHandler(db *gorm.DB) *v1.GradingHandler {
	gradingDAO := dao.NewGradingDAO(db)
	repo := repository.NewGradingRepository(gradingDAO)
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewGradingService(repo, eventRepo)
	handler := v1.NewGradingHandler(svc)

	return handler
}

func (s *Server) initParticipantHandler(db *gorm.DB) *v1.ParticipantHandler {
	participantDAO := dao.NewParticipantDAO(db)
	repo := repository.NewParticipantRepository(participantDAO)
	svc := service.NewParticipantService(repo)
	handler := v1.NewParticipantHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(eventHandler *v1.EventHandler, gradingHandler *v1.GradingHandler, participantHandler *v1.ParticipantHandler) {
	const basePath = "/api/v1"

	events := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		events.GET("/events/name-availability", eventHandler.HandleCheckEventName)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)
		events.POST("/events", eventHandler.HandleCreateEvent)
		events.POST("/events/:eventID/draft", eventHandler.HandleSaveDraft)
		events.POST("/events/:eventID/publish", eventHandler.HandlePublish)
		events.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		// Grading
		events.POST("/events/:eventID/teams/:teamID/grades", gradingHandler.HandleSubmitGrades)
		events.POST("/events/:eventID/teams/:teamID/grades/edit", gradingHandler.HandleBeginEdit)
		// Participants
		events.PATCH("/events/:eventID/participants/:participantID", participantHandler.HandleUpdateParticipant)
		events.DELETE("/events/:eventID/participants/:participantID", participantHandler.HandleRemoveParticipant)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Eventra API"
	docs.SwaggerInfo.Description = "Event drafting, publishing, grading and participant management."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
