/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/welljustpia/proofread-api/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the proofreading HTTP API",
	Long: `Start the HTTP API.

Endpoints:
  GET /              greeting
  GET /health        liveness check
  GET /proof/{text}  proofread the URL-encoded text, returns {"before", "after"}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		handler := api.New(a.pipeline, log)

		srv := &http.Server{
			Addr:        cfg.Listen,
			Handler:     handler.Routes(),
			ReadTimeout: 30 * time.Second,
			// One request makes 1 + 2N sequential model calls.
			WriteTimeout: 10 * time.Minute,
			IdleTimeout:  120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			log.Info("shutting down")

			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutCtx); err != nil {
				log.Error("shutdown error", "err", err)
			}
		}()

		log.Info("starting proofread server",
			"addr", cfg.Listen,
			"provider", cfg.Provider,
			"concurrency", cfg.Concurrency,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", ":8000", "Listen address")
	bindFlag("listen", serveCmd.Flags().Lookup("listen"))
}
