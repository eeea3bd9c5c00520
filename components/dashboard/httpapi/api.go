package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/goliatone/go-salesdash/components/dashboard"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handlers exposes the dashboard over net/http.
type Handlers struct {
	Controller    *dashboard.Controller
	ChartEndpoint string
}

// Query reads request parameters by name.
type Query func(key string) string

// ParseChartQuery builds a selection from the /charts query parameters.
func ParseChartQuery(get Query) (dashboard.Selection, error) {
	return dashboard.ParseSelection(get("tab"), get("option"), get("year"), get("start"), get("end"))
}

// ParsePageQuery is ParseChartQuery with the first tab selected when none is
// given.
func ParsePageQuery(get Query) (dashboard.Selection, error) {
	tab := get("tab")
	if strings.TrimSpace(tab) == "" {
		tab = dashboard.TabTotals.String()
	}
	return dashboard.ParseSelection(tab, get("option"), get("year"), get("start"), get("end"))
}

// StatusFor maps a render error onto an HTTP status.
func StatusFor(err error) int {
	if errors.Is(err, dashboard.ErrUnknownSelection) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// HandleChart serves GET /charts.
func (h *Handlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseChartQuery(r.URL.Query().Get)
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	result, err := h.Controller.Chart(r.Context(), sel)
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandlePage serves the HTML dashboard.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	sel, err := ParsePageQuery(r.URL.Query().Get)
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	var buf bytes.Buffer
	if err := h.Controller.RenderPage(r.Context(), sel, h.endpoint(), &buf); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Mount registers the handlers on mux under the default paths.
func (h *Handlers) Mount(mux *http.ServeMux) {
	mux.HandleFunc("GET /charts", h.HandleChart)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.HandleFunc("GET /{$}", h.HandlePage)
}

func (h *Handlers) endpoint() string {
	if h.ChartEndpoint != "" {
		return h.ChartEndpoint
	}
	return "/charts"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
