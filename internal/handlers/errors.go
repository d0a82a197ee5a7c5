// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/utils"
)

// userFacing is implemented by service errors that carry their own message.
type userFacing interface {
	error
	UserMessage() i18n.Message
	ErrorKind() services.ErrorKind
}

// respondError writes err with the status its kind maps to. Errors without
// a user message are internal.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, services.ErrWorkspaceClosed) {
		utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthSessionExpired))
		return
	}

	var uf userFacing
	if !errors.As(err, &uf) {
		logrus.WithError(err).Error("Unhandled request error")
		utils.InternalErrorResponse(c, "")
		return
	}

	msg := uf.UserMessage()
	switch uf.ErrorKind() {
	case services.KindValidation:
		var fields []utils.ValidationError
		var uerr *services.UserError
		if errors.As(err, &uerr) {
			fields = uerr.Fields
		}
		utils.ValidationErrorResponse(c, msg, fields)
	case services.KindConflict:
		utils.ConflictResponse(c, msg)
	case services.KindNotFound:
		utils.MessageErrorResponse(c, http.StatusNotFound, "NOT_FOUND", msg, nil)
	case services.KindWallet:
		utils.MessageErrorResponse(c, http.StatusConflict, "WALLET_REFUSED", msg, nil)
	default:
		if errors.Is(err, api.ErrUnauthorized) {
			utils.MessageErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", msg, nil)
			return
		}
		utils.BadGatewayResponse(c, msg)
	}
}
