package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/webserver"
	"github.com/kundix7-sys/product-testing-app/pkg/common"
)

type tokenPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Level    string `json:"level"`
}

// registerAuthRoutes registers the unauthenticated token endpoint
func registerAuthRoutes() {
	webserver.PubPOST("/token", issueToken)
}

func issueToken(c echo.Context) error {
	var payload tokenPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var opr domain.SysOpr
	if err := GetDB(c).Where("username = ?", payload.Username).First(&opr).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}
	if !strings.EqualFold(opr.Status, common.ENABLED) {
		return fail(c, http.StatusUnauthorized, "ACCOUNT_DISABLED", "Account is disabled", nil)
	}
	if common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt()) != opr.Password {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	secret := GetAppContext(c).Config().Web.Secret
	claims := jwt.MapClaims{
		"uid": opr.ID,
		"usr": opr.Username,
		"lvl": opr.Level,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())
	GetAppContext(c).PublishOprLog(opr.Username, clientIP(c), "login", "token issued")

	return ok(c, tokenResult{Token: signed, Username: opr.Username, Level: opr.Level})
}
