package handlers

import (
	"context"

	"lingobridge/internal/config"
	"lingobridge/internal/jobs"
	"lingobridge/internal/pkg/logger"
	"lingobridge/internal/poller"
	"lingobridge/internal/ports"
	"lingobridge/internal/storage/urlsign"
	"lingobridge/internal/translator"
)

type Deps struct {
	Jobs       jobs.Store
	Blobs      ports.BlobStore
	Translator translator.Client
	Poller     *poller.Poller
	Signer     *urlsign.Signer
	Cfg        *config.Config
	Log        *logger.Logger

	// PollCtx outlives individual requests; polling loops started by
	// start-translation are bound to it instead of the request context.
	PollCtx context.Context
}

type Handler struct {
	jobs       jobs.Store
	blobs      ports.BlobStore
	translator translator.Client
	poller     *poller.Poller
	signer     *urlsign.Signer
	cfg        *config.Config
	log        *logger.Logger
	pollCtx    context.Context
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	pollCtx := d.PollCtx
	if pollCtx == nil {
		pollCtx = context.Background()
	}

	return &Handler{
		jobs:       d.Jobs,
		blobs:      d.Blobs,
		translator: d.Translator,
		poller:     d.Poller,
		signer:     d.Signer,
		cfg:        d.Cfg,
		log:        log,
		pollCtx:    pollCtx,
	}
}
