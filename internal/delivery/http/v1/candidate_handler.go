package v1

import (
	"net/http"
	"strconv"

	"job-management-backend/internal/delivery/http/response"
	"job-management-backend/internal/domain"
	"job-management-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	schema      *jsonschema.Schema
}

// NewCandidateHandler registers candidate routes. requireAuth guards the
// routes that act on the authenticated candidate; authLimit throttles login.
func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase, requireAuth, authLimit gin.HandlerFunc) {
	handler := &CandidateHandler{
		candidateUC: candidateUC,
		schema:      jsonschema.Reflect(&domain.CandidateRequest{}),
	}

	candidates := r.Group("/candidates")
	{
		candidates.POST("", handler.Create)
		candidates.GET("", handler.List)
		candidates.GET("/schema", handler.Schema)
		candidates.POST("/auth", authLimit, handler.Authenticate)
		candidates.GET("/me", requireAuth, handler.Me)
		candidates.GET("/:id", handler.Get)
		candidates.PUT("/:id", requireAuth, handler.Update)
		candidates.DELETE("/:id", requireAuth, handler.Delete)
	}
}

// AuthRequest is the login payload
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create godoc
// @Summary      Register a candidate
// @Description  Creates a candidate. Validation failures return a list of field/message pairs.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        Accept-Language  header    string                   false  "Locale for validation messages"
// @Param        body             body      domain.CandidateRequest  true   "Candidate data"
// @Success      201  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {array}   validation.FieldMessage
// @Failure      409  {object}  response.Response
// @Router       /candidates [post]
func (h *CandidateHandler) Create(c *gin.Context) {
	var req domain.CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	candidate, err := h.candidateUC.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate created", candidate)
}

// List godoc
// @Summary      List candidates
// @Tags         candidates
// @Produce      json
// @Param        limit   query     int  false  "Page size (max 100)"
// @Param        offset  query     int  false  "Items to skip"
// @Success      200  {object}  response.Response{data=domain.CandidatePage}
// @Failure      400  {object}  response.Response
// @Router       /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid limit"))
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid offset"))
		return
	}

	page, err := h.candidateUC.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates retrieved", page)
}

// Schema godoc
// @Summary      Candidate payload schema
// @Description  JSON Schema of the candidate write payload
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  object
// @Router       /candidates/schema [get]
func (h *CandidateHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.schema)
}

// Get godoc
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	candidate, err := h.candidateUC.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate retrieved", candidate)
}

// Update godoc
// @Summary      Update a candidate
// @Description  Overwrites the fields present in the body. Only the candidate itself may update.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        Accept-Language  header    string                   false  "Locale for validation messages"
// @Param        id               path      string                   true   "Candidate ID"
// @Param        body             body      domain.CandidateRequest  true   "Fields to change"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {array}   validation.FieldMessage
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [put]
// @Security     BearerAuth
func (h *CandidateHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	candidate, err := h.candidateUC.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

// Delete godoc
// @Summary      Delete a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
// @Security     BearerAuth
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.candidateUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deleted", nil)
}

// Authenticate godoc
// @Summary      Candidate login
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      AuthRequest  true  "Credentials"
// @Success      200   {object}  response.Response{data=domain.AuthToken}
// @Failure      401   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /candidates/auth [post]
func (h *CandidateHandler) Authenticate(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	token, err := h.candidateUC.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Authenticated", token)
}

// Me godoc
// @Summary      Current candidate
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      401  {object}  response.Response
// @Router       /candidates/me [get]
// @Security     BearerAuth
func (h *CandidateHandler) Me(c *gin.Context) {
	candidate, err := h.candidateUC.Profile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate profile", candidate)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid candidate ID"))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
