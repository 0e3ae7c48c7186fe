package json

import "net/http"

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	_ = Write(w, status, errorResponse{OK: false, Error: message})
}

func WriteValidationError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusBadRequest, err.Error())
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal server error")
}
