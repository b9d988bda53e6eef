package util

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data"`
}

type APIErrorParams struct {
	Msg string
	Err error
}

type APISuccessParams struct {
	Msg  string
	Data interface{}
}

func respondError(c *gin.Context, status int, params APIErrorParams) {
	errMsg := ""
	if params.Err != nil {
		errMsg = params.Err.Error()
	}
	c.JSON(status, APIResponse{
		Success: false,
		Error:   errMsg,
		Msg:     params.Msg,
		Data:    map[string]interface{}{},
	})
}

// CallErrorNotFound returns a 404 envelope.
func CallErrorNotFound(c *gin.Context, params APIErrorParams) {
	respondError(c, http.StatusNotFound, params)
}

// CallUserError returns a 400 envelope for client-side mistakes.
func CallUserError(c *gin.Context, params APIErrorParams) {
	respondError(c, http.StatusBadRequest, params)
}

// CallServerError returns a 500 envelope.
func CallServerError(c *gin.Context, params APIErrorParams) {
	respondError(c, http.StatusInternalServerError, params)
}

// CallUserNotAuthorized returns a 401 envelope.
func CallUserNotAuthorized(c *gin.Context, params APIErrorParams) {
	respondError(c, http.StatusUnauthorized, params)
}

// CallSuccessOK returns a 200 envelope with the given message and data.
func CallSuccessOK(c *gin.Context, params APISuccessParams) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Error:   "",
		Msg:     params.Msg,
		Data:    params.Data,
	})
}

// Contains reports whether item is present in list.
func Contains(item string, list []string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

// NormalizeName trims surrounding whitespace and collapses internal runs of
// whitespace into single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(name)), " ")
}
