package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/api"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Long:  "Serve notes, courses, chat and quizzes over a local JSON HTTP API until interrupted.",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: server.addr from config, 127.0.0.1:8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")

	a := openApp(cmd)
	defer a.Close()

	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	if a.cfg.Log.Mode == "production" || a.cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(&api.Handler{
		Store:   a.store,
		Notes:   a.notes,
		Courses: a.courses,
		Chat:    a.chat,
		Quiz:    a.quiz,
		Log:     a.log,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.Serve(ctx, addr, router, a.log); err != nil && err != context.Canceled {
		exitErr("serve", err)
	}
}
