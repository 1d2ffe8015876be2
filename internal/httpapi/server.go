package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visiond/internal/vision"
	"visiond/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	EnsureSession(id string) string
	View(sessionID string) vision.View
	Ingest(sessionID, filename, contentType string, data []byte) (string, uint64)
	Classify(ctx context.Context, sessionID string, token uint64) ([]vision.Prediction, error)
	ClassifyImage(ctx context.Context, data []byte) ([]vision.Prediction, error)
	Status() types.StatusResponse
	Ready() bool
	ModelID() string
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer, metrics
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", pageHandler(svc))
	r.Post("/upload", uploadHandler(svc))

	r.Route("/api", func(api chi.Router) {
		if corsEnabled {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: corsAllowedOrigins,
				AllowedMethods: corsAllowedMethods,
				AllowedHeaders: corsAllowedHeaders,
			}))
		}
		api.Get("/status", statusHandler(svc))
		api.Get("/session", sessionHandler(svc))
		api.Post("/classify", classifyHandler(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// pageHandler renders the explorer page for the caller's session.
//
// @Summary  Explorer page
// @Produce  html
// @Success  200
// @Router   / [get]
func pageHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ensureSession(w, r, svc)
		if err := RenderPage(w, svc.View(id)); err != nil {
			http.Error(w, "failed to render page", http.StatusInternalServerError)
		}
	}
}

// uploadHandler ingests the uploaded image, classifies it and redirects back
// to the page. Classification failures are shown on the page, not here.
//
// @Summary  Upload an image from the page form
// @Accept   multipart/form-data
// @Param    image  formData  file  true  "Image file"
// @Success  303
// @Failure  400  {string}  string
// @Router   /upload [post]
func uploadHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data, filename, contentType, err := readUpload(w, r)
		if err != nil {
			logRequestEnd(r, "upload end", http.StatusBadRequest, start, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id, token := svc.Ingest(sessionFromRequest(r), filename, contentType, data)
		setSessionCookie(w, id)

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		_, err = svc.Classify(ctx, id, token)
		logRequestEnd(r, "upload end", http.StatusSeeOther, start, err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// statusHandler godoc
//
// @Summary  Model and server status
// @Produce  json
// @Success  200  {object}  types.StatusResponse
// @Router   /api/status [get]
func statusHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	}
}

// sessionHandler godoc
//
// @Summary  Current session view
// @Produce  json
// @Success  200  {object}  types.SessionResponse
// @Router   /api/session [get]
func sessionHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ensureSession(w, r, svc)
		v := svc.View(id)
		writeJSON(w, types.SessionResponse{
			ID:          id,
			HasImage:    v.HasImage(),
			Loading:     v.Loading,
			Predictions: vision.ToAPI(v.Predictions),
			Token:       v.Token,
			LastError:   v.LastError,
		})
	}
}

// classifyHandler godoc
//
// @Summary  Classify an image without a session
// @Accept   multipart/form-data
// @Produce  json
// @Param    image  formData  file  true  "Image file"
// @Success  200  {object}  types.ClassifyResponse
// @Failure  400  {object}  types.ErrorResponse
// @Failure  422  {object}  types.ErrorResponse
// @Failure  503  {object}  types.ErrorResponse
// @Router   /api/classify [post]
func classifyHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if !svc.Ready() {
			writeJSONError(w, http.StatusServiceUnavailable, vision.ErrModelNotReady.Error())
			logRequestEnd(r, "classify end", http.StatusServiceUnavailable, start, vision.ErrModelNotReady)
			return
		}
		data, _, _, err := readUpload(w, r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			logRequestEnd(r, "classify end", http.StatusBadRequest, start, err)
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		preds, err := svc.ClassifyImage(ctx, data)
		if err != nil {
			// If context was canceled (client disconnect or shutdown), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusFor(err)
			writeJSONError(w, status, err.Error())
			logRequestEnd(r, "classify end", status, start, err)
			return
		}
		writeJSON(w, types.ClassifyResponse{
			Predictions: vision.ToAPI(preds),
			Model:       svc.ModelID(),
			DurationMS:  time.Since(start).Milliseconds(),
		})
		logRequestEnd(r, "classify end", http.StatusOK, start, nil)
	}
}

var errNoImage = errors.New("no image file provided; use 'image' as the form field name")

// readUpload pulls the "image" file out of a multipart body capped at maxBodyBytes.
func readUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename, contentType string, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, "", "", errors.New("upload too large")
		}
		return nil, "", "", errors.New("failed to parse form")
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", "", errNoImage
	}
	defer file.Close()
	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", "", errors.New("failed to read upload")
	}
	return data, header.Filename, header.Header.Get("Content-Type"), nil
}
