package httpkit

import (
	"net/http"

	"simplyskin/platform/apperr"
	"simplyskin/platform/validator"

	"github.com/gin-gonic/gin"
)

// ValidationError responds 400 for a failed struct validation. Missing
// required fields yield MISSING_FIELDS; any other rule yields INVALID_INPUT.
// The failing fields are listed in details.
func ValidationError(c *gin.Context, err error) {
	fields := validator.Fields(err)
	missing := make([]string, 0, len(fields))
	invalid := make([]string, 0, len(fields))
	for _, fe := range fields {
		if fe.Rule == "required" {
			missing = append(missing, fe.Field)
		} else {
			invalid = append(invalid, fe.Field)
		}
	}

	if len(missing) > 0 {
		Error(c, http.StatusBadRequest, apperr.CodeMissingFields, "missing required fields", gin.H{"fields": missing})
		return
	}
	if len(invalid) > 0 {
		Error(c, http.StatusBadRequest, apperr.CodeInvalidInput, "invalid field values", gin.H{"fields": invalid})
		return
	}
	Error(c, http.StatusBadRequest, apperr.CodeInvalidInput, "invalid request", nil)
}

// BindError responds 400 INVALID_INPUT for a body that could not be decoded.
func BindError(c *gin.Context) {
	Error(c, http.StatusBadRequest, apperr.CodeInvalidInput, "request body must be a JSON object", nil)
}
