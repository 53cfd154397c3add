package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emgimbal/shop/internal/models"
	"github.com/emgimbal/shop/internal/mykafka"
	"github.com/emgimbal/shop/internal/token"
)

type UserHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Tokens   *token.Service
}

func (h *UserHandler) publish(c echo.Context, key string, event map[string]any) {
	publishEvent(c, h.Producer, "user_events", key, event)
}

// UpsertUser writes the profile keyed on email and hands back a fresh token.
// The upsert never touches the role column, so an admin stays an admin when
// their profile is rewritten.
func (h *UserHandler) UpsertUser(c echo.Context) error {
	email := c.Param("email")

	var req struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	user := models.User{
		Email:   email,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "address"}),
	}).Create(&user).Error
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	signed, err := h.Tokens.Issue(email)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.publish(c, email, map[string]any{
		"type":  "user_upserted",
		"email": email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"result": user,
		"token":  signed,
	})
}

func (h *UserHandler) GrantAdmin(c echo.Context) error {
	email := c.Param("email")

	result := h.DB.Model(&models.User{}).Where("email = ?", email).Update("role", "admin")
	if result.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, result.Error)
	}

	h.publish(c, email, map[string]any{
		"type":  "role_granted",
		"email": email,
		"role":  "admin",
	})

	return c.JSON(http.StatusOK, echo.Map{
		"updated": result.RowsAffected,
	})
}

// CheckAdmin answers false for an unknown user instead of erroring. The
// admin gate in the auth middleware treats a missing record as Forbidden;
// this endpoint does not.
func (h *UserHandler) CheckAdmin(c echo.Context) error {
	email := c.Param("email")

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"admin": false})
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"admin": user.Role == "admin"})
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	users := make([]models.User, 0)
	if err := h.DB.Find(&users).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, users)
}
