// internal/controller/respond.go
package controller

import (
    "encoding/json"
    "log"
    "net/http"

    appErrors "github.com/unclebandit/zapblast-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
    writeJSON(w, status, map[string]interface{}{
        "success": false,
        "error":   message,
    })
}

// respondServiceError maps precondition and validation failures to 400 with
// their message verbatim; anything else is a 500 with a generic body and the
// detail kept in the server log.
func respondServiceError(w http.ResponseWriter, err error) {
    if appErrors.BadRequest(err) {
        writeError(w, http.StatusBadRequest, err.Error())
        return
    }
    log.Println("❌ internal error:", err)
    writeError(w, http.StatusInternalServerError, "erro interno do servidor")
}

// Recoverer turns handler panics into a JSON 500, keeping the detail in the
// server log only.
func Recoverer(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                log.Println("❌ panic in handler:", rec)
                writeError(w, http.StatusInternalServerError, "erro interno do servidor")
            }
        }()
        next.ServeHTTP(w, r)
    })
}
