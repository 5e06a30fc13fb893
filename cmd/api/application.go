package main

import (
	"log/slog"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/lib/decoder"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/services"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	services  *services.Services
	validator *govalidator.Validate
	decoder   *decoder.URLDecoder
}

func NewApplication(cfg *config.Config, log *slog.Logger, services *services.Services) *Application {
	return &Application{
		cfg:       cfg,
		log:       log,
		services:  services,
		validator: validator.New(),
		decoder:   decoder.New(),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
