package main

import (
	"os"

	"github.com/rkurane/collegebus/internal/pkg/logger"
	"github.com/rkurane/collegebus/internal/server"
)

// @title College Bus Transport API
// @version 1.0
// @description Backend for the college transport office: bus fleet, student
// @description records, fee tracking and password resets.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}
}
