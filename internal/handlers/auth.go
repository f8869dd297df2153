package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"techshop/internal/hash"
	"techshop/internal/models"
	"techshop/internal/mykafka"
)

// genericLoginFailure is returned for unknown users and wrong passwords
// alike, so the two cases are indistinguishable to the caller.
const genericLoginFailure = "Invalid username or password"

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *mykafka.Producer
}

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Username and password are required",
		})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Username and password are required",
		})
	}

	var auth models.Authenticator
	if err := h.DB.Where("UserName = ?", req.Username).First(&auth).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": genericLoginFailure,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Database error",
		})
	}

	if !hash.CheckPassword(auth.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": genericLoginFailure,
		})
	}

	var userType string
	var userID int
	switch {
	case auth.CustomerID != nil:
		userType = "customer"
		userID = *auth.CustomerID
	case auth.AdminID != nil:
		userType = "admin"
		userID = *auth.AdminID
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "User role unclear",
		})
	}

	accessExp := time.Now().Add(15 * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": userType,
		"exp":  accessExp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "could not create access token",
		})
	}
	c.SetCookie(CreateCookie("accessToken", signed, "/", accessExp))

	h.publish(c, map[string]any{
		"type":     "user_logged_in",
		"userID":   userID,
		"userType": userType,
		"username": auth.UserName,
	}, userID)

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Login successful",
		"user_type": userType,
		"user_id":   userID,
		"username":  auth.UserName,
	})
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any, userID int) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(userID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
