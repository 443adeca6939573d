package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"bundleScope/internal/bundle"
	"bundleScope/internal/dex"
	"bundleScope/internal/model"
)

// Archive receives every bundle the server decodes successfully.
type Archive interface {
	PutBundleBatch(bundles []model.DecodedBundle) error
}

type Params struct {
	Listen          string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	Decoder         *dex.Decoder
	Archive         Archive
	Logger          *zap.Logger
}

// Server exposes the bundle codec over HTTP.
type Server struct {
	p      Params
	logger *zap.Logger
}

func NewServer(p Params) (*Server, error) {
	if p.Decoder == nil {
		return nil, fmt.Errorf("decoder is nil")
	}
	if p.MaxBodyBytes <= 0 {
		p.MaxBodyBytes = 1 << 20
	}
	if p.ShutdownTimeout <= 0 {
		p.ShutdownTimeout = 10 * time.Second
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{p: p, logger: logger}, nil
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/decode", s.decodeHandler)
	mux.HandleFunc("/encode", s.encodeHandler)
	mux.HandleFunc("/healthz", s.healthHandler)
	return s.middleware(mux)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.p.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.p.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), s.p.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shCtx); err != nil {
			s.logger.Warn("shutdown", zap.Error(err))
		}
		<-errCh
		return nil

	case err := <-errCh:
		return err
	}
}

// decodeHandler accepts a hex payload, or a calldata record object, and
// answers with the bundle JSON or a JSON error string.
func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, err := s.readBody(w, r)
	if err != nil {
		writeError(w, bodyErrorStatus(err), err)
		return
	}

	record := model.CalldataRecord{Input: string(payload)}
	if bytes.HasPrefix(payload, []byte("{")) {
		if err := json.Unmarshal(payload, &record); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parse calldata record: %w", err))
			return
		}
	}

	b, err := s.p.Decoder.DecodeHex(record.Input)
	if err != nil {
		s.logger.Debug("decode rejected", zap.String("tx_hash", record.TxHash), zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if s.p.Archive != nil {
		archived := model.DecodedBundle{
			BlockNumber: record.BlockNumber,
			TxHash:      record.TxHash,
			Bundle:      *b,
			DecodedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := s.p.Archive.PutBundleBatch([]model.DecodedBundle{archived}); err != nil {
			s.logger.Warn("archive bundle", zap.String("tx_hash", record.TxHash), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, b)
}

type encodeResponse struct {
	Calldata string `json:"calldata,omitempty"`
	Body     string `json:"body,omitempty"`
}

// encodeHandler turns a bundle JSON document into calldata, or into the bare
// PADE body when body_only is set.
func (s *Server) encodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, err := s.readBody(w, r)
	if err != nil {
		writeError(w, bodyErrorStatus(err), err)
		return
	}

	var b bundle.AngstromBundle
	if err := json.Unmarshal(payload, &b); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse bundle: %w", err))
		return
	}

	if bodyOnly(r) {
		body, err := dex.EncodeBundle(&b)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, encodeResponse{Body: hexutil.Encode(body)})
		return
	}

	calldata, err := s.p.Decoder.EncodeCalldata(&b)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, encodeResponse{Calldata: hexutil.Encode(calldata)})
}

func bodyOnly(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("body_only")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Write([]byte("ok"))
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.p.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return bytes.TrimSpace(payload), nil
}

func bodyErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError answers with the error message as a JSON string.
func writeError(w http.ResponseWriter, status int, err error) {
	data, _ := json.Marshal(err.Error())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
