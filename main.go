package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bitwise74/goals-api/app"
	"bitwise74/goals-api/config"
	"bitwise74/goals-api/db"
	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	log, err := config.MakeLogger(viper.GetString("app.log_level"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := db.New(ctx)
	if err != nil {
		zap.L().Fatal("Failed to open database", zap.Error(err))
	}

	d := &internal.Deps{
		Store:       s,
		Argon:       security.New(),
		Tokens:      security.NewTokenService(viper.GetString("jwt.secret")),
		AdminEmails: viper.GetStringSlice("auth.admin_emails"),
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(viper.GetInt("host.port")),
		Handler:           app.NewRouter(ctx, d, app.OptionsFromConfig()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Failed to shut down server", zap.Error(err))
	}

	if err := s.Close(); err != nil {
		zap.L().Error("Failed to close database", zap.Error(err))
	}
}
