package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gnat1923/ecommerce/internal/service"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator отдаёт в ошибках имена полей из json-тегов
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse - тело ответа с ошибкой для JSON-клиентов
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// wantsJSON: ?format=json, Accept: application/json или суффикс .json в пути
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	format, _ := r.Context().Value(middleware.URLFormatCtxKey).(string)
	return format == "json"
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Message}}<p>{{.Message}}</p>{{end}}
{{if .Body}}<pre>{{.Body}}</pre>{{end}}
</body>
</html>
`))

type pageData struct {
	Title   string
	Message string
	Body    string
}

func writeHTML(log *slog.Logger, w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		log.Error("failed to render page", slog.Any("error", err))
	}
}

// respond отдаёт payload как JSON или как минимальную HTML-страницу
func respond(log *slog.Logger, w http.ResponseWriter, r *http.Request, status int, title string, payload any) {
	if wantsJSON(r) {
		writeJSON(log, w, status, payload)
		return
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Error("failed to encode page body", slog.Any("error", err))
	}
	writeHTML(log, w, status, pageData{Title: title, Body: string(body)})
}

// respondMutation: JSON-клиент получает объект, браузер - 303 на location
func respondMutation(log *slog.Logger, w http.ResponseWriter, r *http.Request, status int, location string, payload any) {
	if wantsJSON(r) {
		writeJSON(log, w, status, payload)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyOrder):
		return http.StatusBadRequest, "empty_order"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, service.ErrTransaction):
		return http.StatusInternalServerError, "transaction"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, kind := errorStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.Any("error", err))
		message = http.StatusText(status)
	} else {
		log.Warn("request rejected", slog.String("kind", kind), slog.Any("error", err))
	}
	writeErrorBody(log, w, r, status, ErrorResponse{Error: kind, Message: message})
}

// respondBadRequest - ошибки разбора тела и валидации запроса
func respondBadRequest(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Error: "validation", Message: "invalid request"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Message = "validation error"
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Fields[fe.Field()] = fe.Tag()
		}
	}
	log.Warn("invalid request", slog.Any("error", err))
	writeErrorBody(log, w, r, http.StatusBadRequest, resp)
}

func writeErrorBody(log *slog.Logger, w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	if wantsJSON(r) {
		writeJSON(log, w, status, resp)
		return
	}
	writeHTML(log, w, status, pageData{Title: http.StatusText(status), Message: resp.Message})
}

// decodeAndValidate читает JSON-тело запроса и проверяет теги validate
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}
