// Package server exposes parsekit sessions over HTTP using fiber.
//
// The default session is served under /v1. Only the endpoints whose models it
// has loaded at construction time are registered:
//
//	tagger     POST /v1/tag, /v1/tag-file
//	conparser  POST /v1/parse, /v1/parse-file, /v1/parse-tagged, /v1/parse-tagged-file
//	depparser  POST /v1/depparse, /v1/depparse-file, /v1/depparse-tagged, /v1/depparse-tagged-file
//
// Further sessions are created with POST /v1/sessions, listed with
// GET /v1/sessions and unloaded with DELETE /v1/sessions/{id}. Each owns its
// models and output slot; the same annotation endpoints exist under
// /v1/sessions/{id}/ and answer 409 for a model that session has not loaded.
//
// GET /v1/models, GET /health and POST /v1/stop are always available. A stop
// request shuts the listener down and unloads every session.
package server

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/logging"
	"github.com/hupe1980/parsekit/session"
)

// Options configures a Server.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// AppName is reported in the Server header.
	AppName string

	// BodyLimit caps request bodies in bytes. Defaults to fiber's limit.
	BodyLimit int

	// ReadTimeout and WriteTimeout bound a single request.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// LogRequests logs every handled request at info level.
	LogRequests bool

	// Sessions holds the sessions created over HTTP. Its defaults configure
	// them. A fresh registry is used when nil.
	Sessions *session.InMemoryRegistry

	// ModelDir is loaded by POST /v1/sessions when the request names none.
	ModelDir string
}

// Server serves a default session plus the sessions of its registry.
type Server struct {
	app      *fiber.App
	sess     *session.Session
	sessions *session.InMemoryRegistry
	modelDir string
	logger   logging.Logger
	addr     string

	stopOnce sync.Once
	stopErr  error
}

// New builds the HTTP application for sess. The session's loaded models
// decide which annotation routes exist.
func New(sess *session.Session, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}, AppName: "parsekit"}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryRegistry()
	}
	opts.Sessions.Add(sess)
	logger := opts.Logger
	if pk, ok := logger.(*logging.ParseKitLogger); ok {
		logger = pk.WithComponent("server")
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		BodyLimit:             opts.BodyLimit,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: true,
	})
	s := &Server{app: app, sess: sess, sessions: opts.Sessions, modelDir: opts.ModelDir, logger: logger}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.LogRequests {
		app.Use(s.logRequest)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	v1 := app.Group("/v1")
	v1.Get("/models", s.models)
	v1.Post("/stop", s.stop)

	for _, kind := range sess.Loaded() {
		s.annotationRoutes(v1, kind)
	}

	v1.Get("/sessions", s.listSessions)
	v1.Post("/sessions", s.createSession)
	v1.Delete("/sessions/:id", s.deleteSession)
	scoped := v1.Group("/sessions/:id")
	scoped.Get("/models", s.models)
	for _, kind := range core.Kinds {
		s.annotationRoutes(scoped, kind)
	}
	return s
}

func (s *Server) annotationRoutes(r fiber.Router, kind core.ModelKind) {
	switch kind {
	case core.KindTagger:
		r.Post("/tag", s.tag)
		r.Post("/tag-file", s.tagFile)
	case core.KindConParser:
		r.Post("/parse", s.parse)
		r.Post("/parse-file", s.parseFile)
		r.Post("/parse-tagged", s.parseTagged)
		r.Post("/parse-tagged-file", s.parseTaggedFile)
	case core.KindDepParser:
		r.Post("/depparse", s.depParse)
		r.Post("/depparse-file", s.depParseFile)
		r.Post("/depparse-tagged", s.depParseTagged)
		r.Post("/depparse-tagged-file", s.depParseTaggedFile)
	}
}

// target resolves the session a request addresses: the :id route parameter
// or the default session.
func (s *Server) target(c *fiber.Ctx) (*session.Session, error) {
	id := c.Params("id")
	if id == "" {
		return s.sess, nil
	}
	return s.sessions.Get(id)
}

// Sessions returns the registry holding every served session.
func (s *Server) Sessions() *session.InMemoryRegistry { return s.sessions }

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown or a stop request, then unloads the
// sessions.
func (s *Server) Listen(addr string) error {
	s.addr = addr
	s.logger.Info("Starting server", "addr", addr, "models", s.sess.Loaded())
	err := s.app.Listen(addr)
	return errors.Join(err, s.Shutdown())
}

// Shutdown stops the listener and unloads every session. Later calls return
// the first result.
func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() {
		s.stopErr = errors.Join(s.app.Shutdown(), s.sessions.Close())
		s.logger.Info("Server stopped", "addr", s.addr)
	})
	return s.stopErr
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Info("Request handled",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return err
}
