package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/server/punch"
	"github.com/pontodigital/pontod/internal/server/services"
	"github.com/pontodigital/pontod/internal/timex"
)

func (s *Server) handleHealth(c *gin.Context) {
	if s.ping != nil {
		if err := s.ping(c.Request.Context()); err != nil {
			s.logger.Error(c.Request.Context(), "health check", "err", err)
			c.JSON(http.StatusServiceUnavailable, envelope{
				Success: false, Message: "database unavailable", StatusCode: http.StatusServiceUnavailable,
			})
			return
		}
	}
	respondOK(c, http.StatusOK, "ok", nil)
}

func (s *Server) handleAPIVersion(c *gin.Context) {
	respondOK(c, http.StatusOK, "ok", gin.H{"version": APIVersion})
}

type loginRequest struct {
	CompanyCode string `json:"emp"`
	Empresa     string `json:"empresa"`
	Login       string `json:"login"`
	Password    string `json:"password"`
	Senha       string `json:"senha"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &common.ValidationError{Msg: "invalid body"})
		return
	}

	company := req.CompanyCode
	if company == "" {
		company = req.Empresa
	}
	password := req.Password
	if password == "" {
		password = req.Senha
	}

	res, err := s.auth.Login(c.Request.Context(), company, req.Login, password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "login ok", gin.H{
		"token": res.AccessToken,
		"funcionario": gin.H{
			"id":    res.Employee.ID,
			"emp":   res.Employee.CompanyCode,
			"login": res.Employee.Login,
			"nome":  res.Employee.Name,
		},
	})
}

// reconcileRequest accepts both the wrapped and the bare-array batch shapes.
type reconcileRequest struct {
	Pontos []punch.RawPunch `json:"pontos"`
}

func (s *Server) handleReconcile(c *gin.Context) {
	var batch []punch.RawPunch

	var wrapped reconcileRequest
	if err := c.ShouldBindBodyWithJSON(&wrapped); err == nil && wrapped.Pontos != nil {
		batch = wrapped.Pontos
	} else if err := c.ShouldBindBodyWithJSON(&batch); err != nil {
		respondError(c, &common.ValidationError{Msg: "invalid body"})
		return
	}

	res, err := s.reconciler.Reconcile(c.Request.Context(), batch)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "batch processed", gin.H{
		"inserted": res.Inserted,
		"skipped":  res.Skipped,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, &common.ValidationError{Msg: "invalid body"})
		return
	}
	fillIdentity(c, &in.EmployeeID, &in.CompanyCode)

	p, err := s.registrar.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "punch registered", gin.H{
		"id":   p.ID,
		"dat":  p.Date.Format(timex.DateLayout),
		"hora": p.ClockTime,
		"tip":  p.Role,
	})
}

// correctionRequest carries dates as plain strings; the legacy clients send
// "2006-01-02" and "2006-01-02 15:04:05" interchangeably.
type correctionRequest struct {
	EmployeeID  int64   `json:"funcionario_id"`
	CompanyCode string  `json:"emp"`
	Type        string  `json:"tipo"`
	PunchID     *int64  `json:"ponto_id"`
	Date        string  `json:"dat"`
	DateStart   string  `json:"data_inicio"`
	DateEnd     string  `json:"data_fim"`
	Title       string  `json:"motivo"`
	Description string  `json:"observacao"`
	Attachment  *string `json:"anexo"`
}

func parseFlexibleDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{timex.TimestampLayout, timex.DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, &common.ValidationError{Msg: "invalid date: " + s}
}

func (s *Server) handleCorrection(c *gin.Context) {
	var req correctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &common.ValidationError{Msg: "invalid body"})
		return
	}
	fillIdentity(c, &req.EmployeeID, &req.CompanyCode)

	date, err := parseFlexibleDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	start, err := parseFlexibleDate(req.DateStart)
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := parseFlexibleDate(req.DateEnd)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := s.corrector.Submit(c.Request.Context(), services.CorrectionInput{
		EmployeeID:  req.EmployeeID,
		CompanyCode: req.CompanyCode,
		Type:        req.Type,
		PunchID:     req.PunchID,
		Date:        date,
		WindowStart: start,
		WindowEnd:   end,
		Title:       req.Title,
		Description: req.Description,
		Attachment:  req.Attachment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if out.Applied {
		respondOK(c, http.StatusOK, "punch rectified", gin.H{
			"id":  out.Punch.ID,
			"tip": out.Punch.Role,
		})
		return
	}
	respondOK(c, http.StatusCreated, "event recorded", gin.H{
		"id":   out.Event.ID,
		"tipo": out.Event.Type,
	})
}

type syncRequest struct {
	EmployeeID int64 `json:"funcionario_id"`
}

func (s *Server) handleSync(c *gin.Context) {
	var req syncRequest
	// body is optional; the token identifies the employee
	_ = c.ShouldBindJSON(&req)
	if req.EmployeeID == 0 {
		req.EmployeeID = c.GetInt64(ctxEmployeeID)
	}

	views, err := s.syncer.Window(c.Request.Context(), req.EmployeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "window projected", gin.H{"batidas": views})
}

func (s *Server) handleDelete(c *gin.Context) {
	var in services.DeleteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, &common.ValidationError{Msg: "invalid body"})
		return
	}
	fillIdentity(c, &in.EmployeeID, &in.CompanyCode)

	if err := s.registrar.Delete(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "punch deleted", nil)
}

func (s *Server) handleProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &common.ValidationError{Fields: []string{"id"}})
		return
	}

	profile, err := s.auth.Profile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "ok", gin.H{
		"funcionario": gin.H{
			"id":      profile.ID,
			"emp":     profile.CompanyCode,
			"login":   profile.Login,
			"nome":    profile.Name,
			"locacao": profile.LocationName,
			"funcao":  profile.FunctionName,
		},
	})
}

func (s *Server) handleEvents(c *gin.Context) {
	employeeID := c.GetInt64(ctxEmployeeID)

	evts, err := s.corrector.History(c.Request.Context(), employeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(evts))
	for _, e := range evts {
		item := gin.H{
			"id":          e.ID,
			"tipo":        e.Type,
			"data_inicio": e.WindowStart.Format(timex.TimestampLayout),
			"motivo":      e.Title,
			"observacao":  e.Description,
			"situacao":    e.Approval,
		}
		if e.WindowEnd != nil {
			item["data_fim"] = e.WindowEnd.Format(timex.TimestampLayout)
		}
		out = append(out, item)
	}

	respondOK(c, http.StatusOK, "ok", gin.H{"eventos": out})
}

func (s *Server) handleAttachmentPut(c *gin.Context) {
	key, url, err := s.attachments.PresignedPutURL(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "ok", gin.H{"key": key, "url": url})
}

func (s *Server) handleAttachmentGet(c *gin.Context) {
	url, err := s.attachments.PresignedGetURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "ok", gin.H{"url": url})
}

// fillIdentity defaults missing identity fields from the token claims so a
// client cannot omit them, while explicit values are kept for validation.
func fillIdentity(c *gin.Context, employeeID *int64, companyCode *string) {
	if *employeeID == 0 {
		*employeeID = c.GetInt64(ctxEmployeeID)
	}
	if *companyCode == "" {
		*companyCode = c.GetString(ctxCompanyCode)
	}
}
