// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "io"
    "net/http"
    "path/filepath"
    "runtime"
    "strings"
    "time"

    "github.com/unclebandit/zapblast-backend/internal/logring"
    "github.com/unclebandit/zapblast-backend/internal/service"
)

const (
    maxUploadBytes = 5 << 20
    statusLogCount = 10
    defaultDelayMs = 5000
    previewCount   = 5
)

// CampaignController holds the dependencies for the campaign HTTP handlers.
type CampaignController struct {
    Service   *service.CampaignService
    Log       *logring.Ring
    StartedAt time.Time
}

func (c *CampaignController) Health(w http.ResponseWriter, r *http.Request) {
    var m runtime.MemStats
    runtime.ReadMemStats(&m)

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "status": "ok",
        "uptime": time.Since(c.StartedAt).Seconds(),
        "memory": map[string]uint64{
            "alloc":       m.Alloc,
            "total_alloc": m.TotalAlloc,
            "sys":         m.Sys,
        },
    })
}

func (c *CampaignController) Connect(w http.ResponseWriter, r *http.Request) {
    message := c.Service.Connect()
    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success": true,
        "message": message,
    })
}

func (c *CampaignController) Status(w http.ResponseWriter, r *http.Request) {
    snap := c.Service.Status()
    writeJSON(w, http.StatusOK, map[string]interface{}{
        "isConnected": snap.IsConnected,
        "isSending":   snap.IsSending,
        "sendingData": map[string]interface{}{
            "current": snap.Current,
            "total":   snap.Total,
            "logs":    c.Log.RecentN(statusLogCount),
        },
    })
}

// UploadCSV accepts a multipart form with a single "file" field of up to 5MB
// and replaces the loaded contact list with its parsed rows.
func (c *CampaignController) UploadCSV(w http.ResponseWriter, r *http.Request) {
    r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

    file, header, err := r.FormFile("file")
    if err != nil {
        writeError(w, http.StatusBadRequest, "arquivo CSV ausente ou maior que 5MB")
        return
    }
    defer file.Close()

    if !isCSV(header.Filename, header.Header.Get("Content-Type")) {
        writeError(w, http.StatusBadRequest, "o arquivo enviado deve ser um CSV")
        return
    }

    raw, err := io.ReadAll(file)
    if err != nil {
        writeError(w, http.StatusBadRequest, "falha ao ler o arquivo enviado")
        return
    }

    contacts, err := service.ParseContacts(string(raw))
    if err != nil {
        writeError(w, http.StatusBadRequest, err.Error())
        return
    }

    if err := c.Service.LoadContacts(contacts); err != nil {
        writeError(w, http.StatusBadRequest, err.Error())
        return
    }

    preview := contacts
    if len(preview) > previewCount {
        preview = preview[:previewCount]
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success":  true,
        "contacts": preview,
        "total":    len(contacts),
    })
}

func (c *CampaignController) StartSending(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Delay         int    `json:"delay"`
        StartTime     string `json:"startTime"`
        CustomMessage string `json:"customMessage"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
        return
    }

    delay := time.Duration(body.Delay) * time.Millisecond
    if body.Delay <= 0 {
        delay = defaultDelayMs * time.Millisecond
    }

    if strings.TrimSpace(body.StartTime) != "" {
        at, err := c.Service.ScheduleStart(body.StartTime, delay, body.CustomMessage)
        if err != nil {
            respondServiceError(w, err)
            return
        }
        writeJSON(w, http.StatusOK, map[string]interface{}{
            "success": true,
            "message": "Envio agendado para " + at.Format("02/01/2006 15:04"),
        })
        return
    }

    if err := c.Service.Start(delay, body.CustomMessage); err != nil {
        respondServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success": true,
        "message": "Envio iniciado",
    })
}

// StopSending always succeeds: cancelling an idle campaign is a no-op.
func (c *CampaignController) StopSending(w http.ResponseWriter, r *http.Request) {
    message := c.Service.Cancel()
    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success": true,
        "message": message,
    })
}

func (c *CampaignController) Logs(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]interface{}{
        "logs":  c.Log.All(),
        "total": c.Log.Len(),
    })
}

func (c *CampaignController) NotFound(w http.ResponseWriter, r *http.Request) {
    writeError(w, http.StatusNotFound, "rota não encontrada")
}

func isCSV(filename, contentType string) bool {
    if strings.EqualFold(filepath.Ext(filename), ".csv") {
        return true
    }
    return strings.Contains(contentType, "csv")
}
