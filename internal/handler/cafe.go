package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/middleware"
	"github.com/iliyamo/bookclub-cafe/internal/model"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
)

// CafeHandler serves partner cafes.
type CafeHandler struct {
	Deps
}

// NewCafeHandler returns a CafeHandler.
func NewCafeHandler(d Deps) *CafeHandler {
	return &CafeHandler{Deps: d.withDefaults()}
}

// parseDistrict reads an optional district query parameter.  Zero means
// unset.
func parseDistrict(c echo.Context) (int, bool) {
	raw := strings.TrimSpace(c.QueryParam("district"))
	if raw == "" {
		return 0, true
	}
	d, err := strconv.Atoi(raw)
	if err != nil || !model.ValidDistrict(d) {
		return 0, false
	}
	return d, true
}

func badDistrict(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"message": msgInvalidInput,
		"errors":  []FieldError{{Field: "district", Message: msgInvalidDistrict}},
	})
}

// List returns every cafe, or those of one district.
func (h *CafeHandler) List(c echo.Context) error {
	district, ok := parseDistrict(c)
	if !ok {
		return badDistrict(c)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	cafes, err := h.Store.ListCafes(ctx, district)
	if err != nil {
		return serverError(c, err, msgListCafesFailed)
	}
	return c.JSON(http.StatusOK, cafes)
}

// Get returns one cafe.
func (h *CafeHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	cafe, err := h.Store.GetCafe(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrCafeNotFound) {
		return message(c, http.StatusNotFound, msgCafeNotFound)
	}
	if err != nil {
		return serverError(c, err, msgListCafesFailed)
	}
	return c.JSON(http.StatusOK, cafe)
}

type createCafeReq struct {
	Name        string  `json:"name" validate:"required,min=2" msg:"نام کافه باید حداقل ۲ کاراکتر باشد"`
	District    int     `json:"district" validate:"min=1,max=22" msg:"منطقه باید بین ۱ تا ۲۲ باشد"`
	Address     string  `json:"address" validate:"required,min=5" msg:"آدرس کافه را کامل وارد کنید"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
}

// Create registers a cafe owned by the caller.
func (h *CafeHandler) Create(c echo.Context) error {
	var req createCafeReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	owner := middleware.UserID(c)
	cafe := &model.Cafe{
		Name:        strings.TrimSpace(req.Name),
		District:    req.District,
		Address:     strings.TrimSpace(req.Address),
		Phone:       req.Phone,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		OwnerID:     &owner,
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.Store.CreateCafe(ctx, cafe); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return message(c, http.StatusUnauthorized, msgUserNotFound)
		}
		return serverError(c, err, msgCreateCafeFailed)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"message": msgCafeCreated, "cafe": cafe})
}
