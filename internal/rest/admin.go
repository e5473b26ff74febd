package rest

import (
	"marketReco/pkg/logger"
	"marketReco/pkg/vecmath"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type VectorMathCapability interface {
	Recheck() vecmath.State
	State() vecmath.State
	Err() error
}

type AdminHandler struct {
	capability VectorMathCapability
}

func NewAdminHandler(capability VectorMathCapability) *AdminHandler {
	return &AdminHandler{capability: capability}
}

type CapabilityStatus struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

func (h *AdminHandler) status() CapabilityStatus {
	st := CapabilityStatus{State: h.capability.State().String()}
	if err := h.capability.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// GET /api/v1/admin/vecmath
func (h *AdminHandler) GetVectorMath(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.status()))
}

// POST /api/v1/admin/vecmath/recheck
func (h *AdminHandler) RecheckVectorMath(c echo.Context) error {
	state := h.capability.Recheck()
	logger.Info("Vector math capability rechecked", "state", state.String())
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.status()))
}
