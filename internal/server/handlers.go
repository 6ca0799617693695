package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"scormbridge/internal/ingest"
	"scormbridge/internal/logging"
	"scormbridge/internal/services"
	"scormbridge/internal/store"
)

const (
	uploadFieldName  = "package"
	defaultPageLimit = 15
	maxPageLimit     = 100
)

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type uploadResponse struct {
	ID       int64  `json:"id"`
	GUID     string `json:"guid"`
	Title    string `json:"title"`
	MultiSCO bool   `json:"multisco"`
	Items    int    `json:"items"`
}

type packageView struct {
	ID        int64     `json:"id"`
	GUID      string    `json:"guid"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	MultiSCO  bool      `json:"multisco"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listResponse struct {
	Packages   []packageView `json:"packages"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

type resourceView struct {
	GUID       string   `json:"guid"`
	Identifier string   `json:"identifier"`
	Type       string   `json:"type"`
	ScormType  string   `json:"scorm_type"`
	Href       string   `json:"href"`
	Files      []string `json:"files"`
}

type itemView struct {
	GUID          string        `json:"guid"`
	Identifier    string        `json:"identifier"`
	IdentifierRef string        `json:"identifier_ref,omitempty"`
	Title         string        `json:"title"`
	MasteryScore  float64       `json:"mastery_score"`
	Resource      *resourceView `json:"resource,omitempty"`
}

type detailResponse struct {
	packageView
	Items []itemView `json:"items"`
}

type updateRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.Server.MaxUploadMiB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("multipart field %q required", uploadFieldName))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	mediaType := header.Header.Get("Content-Type")
	result, err := s.ingest.Ingest(r.Context(), ingest.Upload{
		Filename:  header.Filename,
		MediaType: mediaType,
		Data:      data,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, uploadResponse{
		ID:       result.StorageID,
		GUID:     result.GUID,
		Title:    result.Title,
		MultiSCO: result.MultiSCO,
		Items:    result.Items,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	packages, total, err := s.store.List(r.Context(), page-1, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	views := make([]packageView, 0, len(packages))
	for _, pkg := range packages {
		views = append(views, toPackageView(pkg))
	}
	totalPages := (total + limit - 1) / limit
	s.writeJSON(w, http.StatusOK, listResponse{
		Packages:   views,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.store.ResolveDetail(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toDetailResponse(detail))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	detail, err := s.store.ResolveDetail(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}

	name := detail.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			s.writeError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
	}
	active := detail.Active
	if req.Active != nil {
		active = *req.Active
	}

	if err := s.store.UpdateMetadata(r.Context(), detail.ID, name, active); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	updated, err := s.store.GetDetailByID(r.Context(), detail.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toDetailResponse(updated))
}

func (s *Server) handleConnector(w http.ResponseWriter, r *http.Request) {
	customer := r.URL.Query().Get("customer")
	conn, err := s.synth.Build(r.Context(), mux.Vars(r)["ref"], customer)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", conn.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(conn.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(conn.Data)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: true, Message: message})
}

// writeServiceError maps classified service errors onto HTTP statuses and logs
// server-side faults without leaking internals to the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log := logging.WithContext(r.Context(), s.logger)
		log.Error("request failed", logging.String("path", r.URL.Path), logging.Error(err))
		s.writeError(w, status, "internal error")
		return
	}
	s.writeError(w, status, err.Error())
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func toPackageView(pkg store.Package) packageView {
	return packageView{
		ID:        pkg.ID,
		GUID:      pkg.GUID,
		Name:      pkg.Name,
		Active:    pkg.Active,
		MultiSCO:  pkg.MultiSCO,
		CreatedAt: pkg.CreatedAt,
		UpdatedAt: pkg.UpdatedAt,
	}
}

func toDetailResponse(detail *store.PackageDetail) detailResponse {
	resp := detailResponse{packageView: toPackageView(detail.Package)}
	resp.Items = make([]itemView, 0, len(detail.Items))
	for _, item := range detail.Items {
		view := itemView{
			GUID:          item.GUID,
			Identifier:    item.Identifier,
			IdentifierRef: item.IdentifierRef,
			Title:         item.Title,
			MasteryScore:  item.MasteryScore,
		}
		if item.Resource != nil {
			view.Resource = &resourceView{
				GUID:       item.Resource.GUID,
				Identifier: item.Resource.Identifier,
				Type:       item.Resource.Type,
				ScormType:  item.Resource.ScormType,
				Href:       item.Resource.Href,
				Files:      item.Resource.Files,
			}
		}
		resp.Items = append(resp.Items, view)
	}
	return resp
}
