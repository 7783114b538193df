package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 16

type createSessionRequest struct {
	Token string `json:"token"`
}

type selectPlayerRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type scoreRunsRequest struct {
	Runs *int `json:"runs" validate:"required,oneof=0 1 2 3 4 6"`
}

type scoreExtraRequest struct {
	Type    string `json:"type" validate:"required,oneof=wide noball bye"`
	ByeRuns int    `json:"byeRuns" validate:"min=0,max=6"`
}

type playerOutRequest struct {
	ConfirmEnd bool `json:"confirmEnd"`
}

type endInningsRequest struct {
	Confirm bool `json:"confirm"`
}

// errBadRequest marks a body that could not be decoded or failed validation.
type errBadRequest struct {
	msg string
}

func (e *errBadRequest) Error() string {
	return e.msg
}

// decodeBody reads a JSON body into dest and validates it. An empty body decodes
// to the zero value so flag-only requests can omit it.
func (h *Handler) decodeBody(r *http.Request, dest any) error {
	if r.Body != nil {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
			return &errBadRequest{msg: "invalid request body"}
		}
	}
	if err := h.validate.Struct(dest); err != nil {
		return &errBadRequest{msg: validationMessage(err)}
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}
