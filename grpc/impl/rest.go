package impl

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/pkg/common"
	appHttp "github.com/cardapio-project/cardapio/pkg/http"
)

// The web client checks for this literal value.
const statusSuccess = "sucesso"

type analyzeResponse struct {
	JobID      string                `json:"job_id"`
	TextBlocks []menu.AnalysisRecord `json:"text_blocks"`
}

type templateResponse struct {
	Status      string                `json:"status"`
	JobID       string                `json:"job_id"`
	TemplateURL string                `json:"template_url"`
	Metadata    menu.TemplateMetadata `json:"metadata"`
}

type renderResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	ResultURL string `json:"result_url"`
}

// RegisterRoutes mounts the REST endpoints on mux.
func (s *server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/menu/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/menu/template", s.handleTemplate)
	mux.HandleFunc("POST /api/menu/render", s.handleRender)
	mux.HandleFunc("GET /download/result/{job_id}", s.handleDownload(storage.KindResult))
	mux.HandleFunc("GET /download/template/{job_id}", s.handleDownload(storage.KindTemplate))
	mux.HandleFunc("GET /download/metadata/{job_id}", s.handleDownload(storage.KindTemplateMetadata, validateTemplateMetadata))
	mux.HandleFunc("GET /verversao", s.handleVersion)
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	data, err := formFile(r, "file")
	if err != nil {
		writeError(w, err, "", "Failed to read menu upload")
		return
	}
	img, err := decodeImage(data, "file")
	if err != nil {
		writeError(w, err, "", "Failed to decode menu image")
		return
	}

	jobID := uuid.NewString()
	analyzed, err := s.analyze(r.Context(), jobID, img)
	if err != nil {
		writeError(w, err, jobID, "Failed to analyze menu")
		return
	}

	appHttp.WriteJSON(w, http.StatusOK, analyzeResponse{JobID: jobID, TextBlocks: analyzed.records})
}

func (s *server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	data, err := formFile(r, "file")
	if err != nil {
		writeError(w, err, "", "Failed to read menu upload")
		return
	}
	jobID, err := jobIDOrNew(r.FormValue("job_id"))
	if err != nil {
		writeError(w, err, "", "Failed to accept template job id")
		return
	}
	img, err := decodeImage(data, "file")
	if err != nil {
		writeError(w, err, jobID, "Failed to decode menu image")
		return
	}

	extracted, err := s.extractTemplate(r.Context(), jobID, img)
	if err != nil {
		writeError(w, err, jobID, "Failed to extract template")
		return
	}

	appHttp.WriteJSON(w, http.StatusOK, templateResponse{
		Status:      statusSuccess,
		JobID:       jobID,
		TemplateURL: templateURL(jobID),
		Metadata:    extracted.metadata,
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Spreadsheet and reference image travel in the same form.
	r.Body = http.MaxBytesReader(w, r.Body, 2*MaxUploadBytes)

	spreadsheet, err := formFile(r, "excel")
	if err != nil {
		writeError(w, err, "", "Failed to read spreadsheet upload")
		return
	}
	original, err := formFile(r, "original_menu")
	if err != nil {
		writeError(w, err, "", "Failed to read reference menu upload")
		return
	}
	reference, err := decodeImage(original, "original_menu")
	if err != nil {
		writeError(w, err, "", "Failed to decode reference image")
		return
	}

	jobID := uuid.NewString()
	if err := s.renderMenu(r.Context(), jobID, spreadsheet, reference); err != nil {
		writeError(w, err, jobID, "Failed to render menu")
		return
	}

	appHttp.WriteJSON(w, http.StatusOK, renderResponse{
		Status:    statusSuccess,
		JobID:     jobID,
		ResultURL: resultURL(jobID),
	})
}

// handleDownload serves a stored artifact. Each validate func runs on the
// stored bytes before anything is written.
func (s *server) handleDownload(kind storage.Kind, validate ...func([]byte) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := r.PathValue("job_id")
		data, err := s.store.Get(r.Context(), jobID, kind)
		if err != nil {
			writeError(w, err, jobID, "Failed to read "+kind.Suffix)
			return
		}
		for _, check := range validate {
			if err := check(data); err != nil {
				writeError(w, err, jobID, "Stored "+kind.Suffix+" is corrupt")
				return
			}
		}

		w.Header().Set("Content-Type", kind.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(kind.Key(jobID))))
		if _, err := w.Write(data); err != nil {
			log.Error().Err(err).Str("job_id", jobID).Msg("Failed to write download")
		}
	}
}

func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.version)
}

// Template metadata may be edited by hand before a job is re-rendered.
func validateTemplateMetadata(data []byte) error {
	_, err := menu.ParseTemplateMetadata(data)
	return err
}

func formFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, common.InputErrorf("missing form file %q", field)
	}
	if err != nil {
		return nil, common.InputError("malformed multipart form", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, common.InputError("failed to read form file "+field, err)
	}
	return data, nil
}

func writeError(w http.ResponseWriter, err error, jobID string, message string) {
	event := log.Error()
	if common.KindOf(err).Surfaced() {
		event = log.Warn()
	}
	event.Err(err).Str("job_id", jobID).Msg(message)
	appHttp.WriteError(w, err)
}
