package handler

import (
	"net/http"

	"almapos/internal/apierror"
	"almapos/internal/dto"
	"almapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MonedaHandler struct{ svc service.MonedaService }

func NewMonedaHandler(svc service.MonedaService) *MonedaHandler { return &MonedaHandler{svc: svc} }

func (h *MonedaHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MonedaHandler) Crear(c *gin.Context) {
	var req dto.MonedaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MonedaHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.MonedaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MonedaHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MonedaHandler) SetPredeterminada(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.SetPredeterminada(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Convertir godoc
// @Summary Convierte un monto entre monedas registradas
// @Tags monedas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ConvertirRequest true "Conversion"
// @Success 200 {object} dto.ConvertirResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/monedas/convertir [post]
func (h *MonedaHandler) Convertir(c *gin.Context) {
	var req dto.ConvertirRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Convertir(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefrescarTasas triggers an on-demand rate refresh from the provider.
func (h *MonedaHandler) RefrescarTasas(c *gin.Context) {
	if err := h.svc.RefrescarTasas(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
