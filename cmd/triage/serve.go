package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/defect-triage/internal/cli"
	"github.com/Veraticus/defect-triage/internal/config"
	"github.com/Veraticus/defect-triage/internal/web"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload form and JSON API",
		Long: `Start the web front end. Upload a CSV or Excel file in the browser to see
the categorized rows, a category chart and the accuracy, then download the
result as xlsx, csv or json.

JSON endpoints:
  POST /api/categorize  {"text": "..."}
  POST /api/process     {"columns": [...], "records": [{...}]}
  GET  /health`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	categorizer, err := newCategorizer(cfg.Catalog)
	if err != nil {
		return err
	}

	srv, err := web.New(newPipeline(cfg.Catalog, categorizer), categorizer, web.Options{
		Logger:          slog.Default(),
		Version:         version,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes(),
		SessionCapacity: cfg.Server.SessionCapacity,
	})
	if err != nil {
		return err
	}

	slog.Info(cli.FormatInfo("Serving defect triage at http://" + cfg.Server.Addr))
	return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
}
