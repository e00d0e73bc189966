package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"supercollab/ledger"
	"supercollab/logutils"
)

// LedgerError is the data attached to an error response for a rejected operation.
type LedgerError struct {
	Name string `json:"name"`
	Code uint32 `json:"code"`
	Kind string `json:"kind"`
}

// Status maps an error kind to its HTTP status and response code.
func Status(kind ledger.Kind) (int, ErrorCode) {
	switch kind {
	case ledger.KindAuthorization:
		return http.StatusForbidden, ConstraintViolation
	case ledger.KindState:
		return http.StatusConflict, InvalidStateTransition
	case ledger.KindInitialization:
		return http.StatusConflict, AccountInUse
	case ledger.KindResource:
		return http.StatusUnprocessableEntity, InsufficientFunds
	case ledger.KindLedger:
		return http.StatusUnprocessableEntity, LedgerRejected
	case ledger.KindNotFound:
		return http.StatusNotFound, AccountNotFound
	default:
		return http.StatusInternalServerError, NotSpecified
	}
}

// FromError sends the error response for err returned by the program or ledger.
func FromError(c *gin.Context, err error) {
	var le *ledger.Error
	if !errors.As(err, &le) {
		logutils.Log.WithError(err).Error("unclassified error")
		HTTPError(c, http.StatusInternalServerError, err.Error(), NotSpecified)
		return
	}
	httpCode, code := Status(le.Kind)
	c.JSON(httpCode, Response[LedgerError]{
		Code: code,
		Data: LedgerError{Name: le.Name, Code: le.Code, Kind: le.Kind.String()},
		Msg:  err.Error(),
	})
}
