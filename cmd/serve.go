package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/district-analytics/parcelscope/internal/areas"
	"github.com/district-analytics/parcelscope/internal/export"
	"github.com/district-analytics/parcelscope/internal/geospatial"
	"github.com/district-analytics/parcelscope/internal/query"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interactive boundary queries over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ds, _, err := loadDataset(cfg.Data.ParcelsCSV, cfg.Data.CoordinatesPath)
		if err != nil {
			return err
		}
		areaList, err := areas.Load(cfg.Areas.File)
		if err != nil {
			return err
		}
		svc := query.NewService(query.NewEngine(ds, cfg.Batch.BufferSegments), cfg.Server.MaxResultsHeld)

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Timeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":  "ok",
				"parcels": ds.Len(),
			})
		})

		r.Get("/areas", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"areas": areaList})
		})

		r.Post("/query", func(w http.ResponseWriter, req *http.Request) {
			var qr query.Request
			if err := json.NewDecoder(req.Body).Decode(&qr); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			resp, err := svc.Query(qr)
			if err != nil {
				status := http.StatusInternalServerError
				if eris.Is(err, geospatial.ErrInvalidGeometry) || eris.Is(err, geospatial.ErrReprojection) {
					status = http.StatusBadRequest
				}
				writeJSON(w, status, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		r.Get("/export/{id}", func(w http.ResponseWriter, req *http.Request) {
			rows, err := svc.Export(chi.URLParam(req, "id"))
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="parcels_in_boundary.csv"`)
			if err := export.WriteDetail(w, export.FormatCSV, rows, false); err != nil {
				zap.L().Error("export write failed", zap.Error(err))
			}
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Int("parcels", ds.Len()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
