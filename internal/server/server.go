package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/olehluchkiv/pets/internal/analyzer"
	"github.com/olehluchkiv/pets/internal/demo"
	"github.com/olehluchkiv/pets/internal/diagram"
	"github.com/olehluchkiv/pets/internal/pets"
)

// maxValidateBody caps POST /api/validate bodies.
const maxValidateBody = 1 << 20

// Page is what the server shows: a class model, its rendered diagram and
// where it came from.
type Page struct {
	Title   string
	Source  string
	Mermaid string
	Result  *analyzer.Result
	Options diagram.DiagramOptions
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type petJSON struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Says string `json:"says"`
}

type ownerJSON struct {
	Owner string    `json:"owner"`
	Pets  []petJSON `json:"pets"`
}

// NewHandler returns the HTTP routes for page.
func NewHandler(page Page, logger *slog.Logger) (http.Handler, error) {
	logger = logger.With("component", "server")

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML template: %w", err)
	}
	if page.Title == "" {
		page.Title = "pets: class diagram"
	}
	if page.Result == nil {
		page.Result = &analyzer.Result{}
	}

	var demoOut bytes.Buffer
	if err := demo.Run(&demoOut); err != nil {
		return nil, fmt.Errorf("running demo: %w", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request received", "method", r.Method, "path", r.URL.Path)
		data := struct {
			Page
			Demo    string
			Formats []diagram.FormatInfo
		}{Page: page, Demo: demoOut.String(), Formats: diagram.Formats()}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			logger.Error("failed to render template", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	})

	mux.HandleFunc("GET /mermaid.md", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request received", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, page.Mermaid)
	})

	mux.HandleFunc("GET /api/pets", func(w http.ResponseWriter, r *http.Request) {
		s := demo.Scenario()
		out := ownerJSON{Owner: s.Owner.Name(), Pets: []petJSON{}}
		for _, p := range s.Owner.Pets() {
			out.Pets = append(out.Pets, petJSON{Name: p.Name(), Kind: kindOf(p), Says: p.Speak()})
		}
		writeJSON(w, http.StatusOK, out, logger)
	})

	mux.HandleFunc("GET /api/diagram-types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, diagram.DiagramTypes(), logger)
	})

	mux.HandleFunc("GET /api/export/formats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, diagram.Formats(), logger)
	})

	mux.HandleFunc("GET /api/export", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("format")
		if name == "" {
			name = string(diagram.FormatMermaid)
		}
		format, err := diagram.ParseFormat(name)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "Unsupported format", Message: err.Error()}, logger)
			return
		}

		var buf bytes.Buffer
		if err := diagram.Export(&buf, page.Result, format, page.Options); err != nil {
			logger.Error("export failed", "format", format, "error", err)
			writeJSON(w, http.StatusInternalServerError, apiError{Error: "Export failed", Message: "Failed to export diagram"}, logger)
			return
		}

		info, _ := format.Info()
		w.Header().Set("Content-Type", info.MimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"diagram.%s\"", format.Extension()))
		logger.Info("diagram exported", "format", format, "bytes", buf.Len())
		_, _ = buf.WriteTo(w)
	})

	mux.HandleFunc("POST /api/validate", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxValidateBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, apiError{Error: "Request too large", Message: err.Error()}, logger)
				return
			}
			writeJSON(w, http.StatusBadRequest, apiError{Error: "Invalid request", Message: err.Error()}, logger)
			return
		}

		keyword, err := diagram.Validate(string(body))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "Invalid diagram", Message: err.Error()}, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": true, "type": keyword}, logger)
	})

	return mux, nil
}

// Serve starts the HTTP server for page.
// It blocks until the context is cancelled.
func Serve(ctx context.Context, page Page, port int, openBrowser bool, logger *slog.Logger) error {
	handler, err := NewHandler(page, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	logger.Info("starting HTTP server", "addr", url)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	if openBrowser {
		openInBrowser(url, logger)
	}

	// Block until the context is cancelled or the server fails.
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	}
}

func kindOf(a pets.Animal) string {
	switch a.(type) {
	case *pets.Dog:
		return "dog"
	case *pets.Cat:
		return "cat"
	default:
		return "animal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func openInBrowser(url string, logger *slog.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		logger.Warn("unsupported platform for opening browser", "os", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", "error", err)
	}
}
