// Package httpapi exposes the punch services over HTTP. Routes, payload
// shapes and the response envelope follow the contract the mobile app was
// built against.
package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pontodigital/pontod/internal/logging"
	"github.com/pontodigital/pontod/internal/server/config"
	"github.com/pontodigital/pontod/internal/server/models"
	"github.com/pontodigital/pontod/internal/server/punch"
	"github.com/pontodigital/pontod/internal/server/services"
)

// APIVersion is reported by GET /apiversion so clients can gate features.
const APIVersion = "2.4.0"

// Reconciler merges externally-sourced punch batches.
type Reconciler interface {
	Reconcile(ctx context.Context, batch []punch.RawPunch) (*services.ReconcileResult, error)
}

// Registrar records and removes individual punches.
type Registrar interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Punch, error)
	Delete(ctx context.Context, in services.DeleteInput) error
}

// Corrector handles rectification and justification requests.
type Corrector interface {
	Submit(ctx context.Context, in services.CorrectionInput) (*services.CorrectionOutcome, error)
	History(ctx context.Context, employeeID int64) ([]*models.CorrectionEvent, error)
}

// Syncer projects the recent ledger window for one employee.
type Syncer interface {
	Window(ctx context.Context, employeeID int64) ([]services.PunchView, error)
}

// Authenticator verifies credentials and serves profiles.
type Authenticator interface {
	Login(ctx context.Context, companyCode, login, password string) (*services.LoginResult, error)
	Profile(ctx context.Context, employeeID int64) (*models.EmployeeProfile, error)
}

// AttachmentSigner hands out presigned object-storage URLs.
type AttachmentSigner interface {
	PresignedPutURL(ctx context.Context) (string, string, error)
	PresignedGetURL(ctx context.Context, key string) (string, error)
}

// Server wires the services into a gin engine.
type Server struct {
	cfg         *config.Config
	logger      logging.Logger
	reconciler  Reconciler
	registrar   Registrar
	corrector   Corrector
	syncer      Syncer
	auth        Authenticator
	attachments AttachmentSigner
	// ping reports backend health; nil means always healthy.
	ping func(ctx context.Context) error
}

func NewServer(cfg *config.Config, logger logging.Logger, reconciler Reconciler, registrar Registrar,
	corrector Corrector, syncer Syncer, authSvc Authenticator, attachments AttachmentSigner,
	ping func(ctx context.Context) error) *Server {
	return &Server{
		cfg:         cfg,
		logger:      logger.With("module", "httpapi"),
		reconciler:  reconciler,
		registrar:   registrar,
		corrector:   corrector,
		syncer:      syncer,
		auth:        authSvc,
		attachments: attachments,
		ping:        ping,
	}
}

// Handler builds the routing table.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.GET("/apiversion", s.handleAPIVersion)
	r.POST("/login", s.handleLogin)

	authed := r.Group("/", authRequired([]byte(s.cfg.SecretKey)))
	{
		authed.POST("/receberpontos", s.handleReconcile)
		authed.POST("/registrarponto", s.handleRegister)
		authed.POST("/retificar", s.handleCorrection)
		authed.POST("/sincronizarBatidas", s.handleSync)
		authed.POST("/excluirponto", s.handleDelete)
		authed.GET("/funcionario/:id", s.handleProfile)
		authed.GET("/eventos", s.handleEvents)
		authed.POST("/anexo/upload-url", s.handleAttachmentPut)
		authed.GET("/anexo/download-url", s.handleAttachmentGet)
	}

	return r
}
