package server

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/format"
	"github.com/hupe1980/parsekit/internal/config"
	"github.com/hupe1980/parsekit/session"
)

// SentenceRequest is the body of the single-sentence endpoints.
type SentenceRequest struct {
	Sentence   string `json:"sentence"`
	Tokenize   *bool  `json:"tokenize,omitempty"` // Defaults to true
	Sep        string `json:"sep,omitempty"`      // Tagged endpoints only
	WithLemmas bool   `json:"with_lemmas,omitempty"`
}

// FileRequest is the body of the file endpoints. Paths are resolved on the
// server host.
type FileRequest struct {
	Input      string `json:"input"`
	Output     string `json:"output"`
	Tokenize   *bool  `json:"tokenize,omitempty"`
	Sep        string `json:"sep,omitempty"`
	WithLemmas bool   `json:"with_lemmas,omitempty"`
}

// ResultResponse carries a formatted annotation.
type ResultResponse struct {
	Result string `json:"result"`
}

// LineFailure is one failed input line of a file request.
type LineFailure struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// BatchResponse summarizes a file request.
type BatchResponse struct {
	Output    string        `json:"output"`
	Sentences int           `json:"sentences"`
	Skipped   int           `json:"skipped"`
	Failures  []LineFailure `json:"failures,omitempty"`
}

func tokenize(p *bool) bool { return p == nil || *p }

func depOpts(withLemmas bool) []func(o *session.DepParseOptions) {
	if withLemmas {
		return []func(o *session.DepParseOptions){session.WithLemmas}
	}
	return nil
}

// SessionRequest is the body of POST /v1/sessions. Both fields are optional:
// ModelDir defaults to the server's model directory and an empty Models
// loads every model.
type SessionRequest struct {
	ModelDir string   `json:"model_dir,omitempty"`
	Models   []string `json:"models,omitempty"` // tagger, parser, depparser
}

// SessionResponse describes one session.
type SessionResponse struct {
	Session string   `json:"session"`
	Models  []string `json:"models"`
}

func describe(sess *session.Session) SessionResponse {
	kinds := sess.Loaded()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return SessionResponse{Session: sess.ID(), Models: names}
}

func (s *Server) models(c *fiber.Ctx) error {
	sess, err := s.target(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(describe(sess))
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"default": s.sess.ID(), "sessions": s.sessions.IDs()})
}

func (s *Server) createSession(c *fiber.Ctx) error {
	var req SessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
	}
	dir := req.ModelDir
	if dir == "" {
		dir = s.modelDir
	}
	if dir == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "model_dir is required"})
	}
	kinds := make([]core.ModelKind, 0, len(req.Models))
	for _, name := range req.Models {
		kind, err := config.ParseKind(name)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		kinds = append(kinds, kind)
	}

	sess := s.sessions.Create()
	var err error
	if len(kinds) == 0 {
		err = sess.LoadModels(dir)
	} else {
		err = sess.Load(dir, kinds...)
	}
	if err != nil {
		_ = s.sessions.Remove(sess.ID())
		return s.fail(c, err)
	}
	s.logger.Info("Session created", "session_id", sess.ID(), "models", sess.Loaded())
	return c.Status(fiber.StatusCreated).JSON(describe(sess))
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == s.sess.ID() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "the default session is unloaded by /v1/stop"})
	}
	if err := s.sessions.Remove(id); err != nil {
		return s.fail(c, err)
	}
	s.logger.Info("Session removed", "session_id", id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) stop(c *fiber.Ctx) error {
	s.logger.Info("Stop requested", "request_id", c.GetRespHeader(fiber.HeaderXRequestID))
	go func() { _ = s.Shutdown() }()
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Server terminated on %s", s.addr)})
}

func (s *Server) sentence(c *fiber.Ctx, run func(sess *session.Session, req SentenceRequest) (string, error)) error {
	sess, err := s.target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req SentenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	out, err := run(sess, req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(ResultResponse{Result: out})
}

func (s *Server) file(c *fiber.Ctx, run func(sess *session.Session, req FileRequest) (*session.BatchReport, error)) error {
	sess, err := s.target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req FileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Input == "" || req.Output == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "input and output are required"})
	}
	report, err := run(sess, req)
	if err != nil {
		return s.fail(c, err)
	}
	resp := BatchResponse{Output: req.Output, Sentences: report.Sentences, Skipped: report.Skipped}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, LineFailure{Line: f.Line, Error: f.Err.Error()})
	}
	return c.JSON(resp)
}

func (s *Server) tag(c *fiber.Ctx) error {
	return s.sentence(c, func(sess *session.Session, req SentenceRequest) (string, error) {
		return sess.TagSentence(c.UserContext(), req.Sentence, tokenize(req.Tokenize))
	})
}

func (s *Server) parse(c *fiber.Ctx) error {
	return s.sentence(c, func(sess *session.Session, req SentenceRequest) (string, error) {
		return sess.ParseSentence(c.UserContext(), req.Sentence, tokenize(req.Tokenize))
	})
}

func (s *Server) depParse(c *fiber.Ctx) error {
	return s.sentence(c, func(sess *session.Session, req SentenceRequest) (string, error) {
		return sess.DepParseSentence(c.UserContext(), req.Sentence, tokenize(req.Tokenize), depOpts(req.WithLemmas)...)
	})
}

func (s *Server) parseTagged(c *fiber.Ctx) error {
	return s.sentence(c, func(sess *session.Session, req SentenceRequest) (string, error) {
		return sess.ParseTaggedSentence(c.UserContext(), req.Sentence, req.Sep)
	})
}

func (s *Server) depParseTagged(c *fiber.Ctx) error {
	return s.sentence(c, func(sess *session.Session, req SentenceRequest) (string, error) {
		return sess.DepParseTaggedSentence(c.UserContext(), req.Sentence, req.Sep, depOpts(req.WithLemmas)...)
	})
}

func (s *Server) tagFile(c *fiber.Ctx) error {
	return s.file(c, func(sess *session.Session, req FileRequest) (*session.BatchReport, error) {
		return sess.TagFile(c.UserContext(), req.Input, req.Output, tokenize(req.Tokenize))
	})
}

func (s *Server) parseFile(c *fiber.Ctx) error {
	return s.file(c, func(sess *session.Session, req FileRequest) (*session.BatchReport, error) {
		return sess.ParseFile(c.UserContext(), req.Input, req.Output, tokenize(req.Tokenize))
	})
}

func (s *Server) depParseFile(c *fiber.Ctx) error {
	return s.file(c, func(sess *session.Session, req FileRequest) (*session.BatchReport, error) {
		return sess.DepParseFile(c.UserContext(), req.Input, req.Output, tokenize(req.Tokenize), depOpts(req.WithLemmas)...)
	})
}

func (s *Server) parseTaggedFile(c *fiber.Ctx) error {
	return s.file(c, func(sess *session.Session, req FileRequest) (*session.BatchReport, error) {
		return sess.ParseTaggedFile(c.UserContext(), req.Input, req.Output, req.Sep)
	})
}

func (s *Server) depParseTaggedFile(c *fiber.Ctx) error {
	return s.file(c, func(sess *session.Session, req FileRequest) (*session.BatchReport, error) {
		return sess.DepParseTaggedFile(c.UserContext(), req.Input, req.Output, req.Sep, depOpts(req.WithLemmas)...)
	})
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, format.ErrMalformed):
		return fiber.StatusBadRequest
	case errors.Is(err, core.ErrSentenceTooLong):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInputUnavailable), errors.Is(err, core.ErrModelFileNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, core.ErrUnknownBackend), errors.Is(err, core.ErrInvalidModel):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, core.ErrModelNotLoaded):
		return fiber.StatusConflict
	case errors.Is(err, core.ErrSessionClosed):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) fail(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed", "path", c.Path(), "error", err.Error(), "request_id", c.GetRespHeader(fiber.HeaderXRequestID))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
