package httpadapter

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/PabloGalante/bharat-yatra/internal/app/vision"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
	"github.com/PabloGalante/bharat-yatra/internal/observability"
)

func (s *Server) scanner(w http.ResponseWriter, r *http.Request) (*vision.Scanner, bool) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return nil, false
	}
	scan, err := ws.Scanner()
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return scan, true
}

// handleAnalyze accepts either a raw image body or a multipart form with an
// "image" file field.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	scan, ok := s.scanner(w, r)
	if !ok {
		return
	}

	img, err := s.readImage(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := scan.Analyze(r.Context(), img); err != nil {
		if errors.Is(err, vision.ErrInvalidImage) || errors.Is(err, vision.ErrBusy) || errors.Is(err, vision.ErrDiscarded) {
			writeError(w, r, err)
			return
		}
		// Gateway failure: the scanner is now in the failed phase.
		observability.LoggerFromContext(r.Context()).Warn("landmark analysis failed", "error", err)
		writeJSON(w, http.StatusBadGateway, toVisionResponse(scan.Snapshot()))
		return
	}
	writeJSON(w, http.StatusOK, toVisionResponse(scan.Snapshot()))
}

func (s *Server) readImage(w http.ResponseWriter, r *http.Request) (domain.Image, error) {
	// Allow some slack for multipart framing; the scanner enforces the exact cap.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxImage+64<<10)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, header, err := r.FormFile("image")
		if err != nil {
			return domain.Image{}, invalidUpload(err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return domain.Image{}, invalidUpload(err)
		}
		return domain.Image{Data: data, MIMEType: header.Header.Get("Content-Type")}, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return domain.Image{}, invalidUpload(err)
	}
	return domain.Image{Data: data, MIMEType: mediaType}, nil
}

func invalidUpload(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: upload too large", vision.ErrInvalidImage)
	}
	return fmt.Errorf("%w: %v", vision.ErrInvalidImage, err)
}

func (s *Server) handleGetVision(w http.ResponseWriter, r *http.Request) {
	scan, ok := s.scanner(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toVisionResponse(scan.Snapshot()))
}

func (s *Server) handleResetVision(w http.ResponseWriter, r *http.Request) {
	scan, ok := s.scanner(w, r)
	if !ok {
		return
	}
	scan.Reset()
	writeJSON(w, http.StatusOK, toVisionResponse(scan.Snapshot()))
}
