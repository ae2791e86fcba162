// Package uploadserver is a development stand-in for the image upload
// endpoint. It accepts the same multipart request as the upload client and
// answers with {url} or {error}.
package uploadserver

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/rgonek/richedit/upload"
	"go.uber.org/zap"
)

// multipartOverhead is the request body allowance beyond the file size.
const multipartOverhead = 1 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Server is the upload endpoint.
type Server struct {
	app     *fiber.App
	config  Config
	storage Storage
	logger  *zap.Logger
}

// New creates the server. A nil logger disables logging.
func New(cfg Config, storage Storage, logger *zap.Logger) (*Server, error) {
	resolved := cfg.applyDefaults()
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, errors.New("storage is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{config: resolved, storage: storage, logger: logger}
	s.app = fiber.New(fiber.Config{
		BodyLimit:             int(resolved.Validator.MaxSize) + multipartOverhead,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: resolved.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	if local, ok := storage.(*LocalStorage); ok {
		s.app.Static(local.Prefix(), local.Dir())
	}
	s.app.Post(resolved.Path, s.handleUpload)

	return s, nil
}

// App exposes the fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured address until Shutdown.
func (s *Server) Listen() error {
	s.logger.Info("upload server listening", zap.String("addr", s.config.Addr), zap.String("path", s.config.Path))
	return s.app.Listen(s.config.Addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	header, err := c.FormFile(s.config.FieldName)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, upload.Response{Error: "image file is required"})
	}
	if header.Size > s.config.Validator.MaxSize {
		return reply(c, fiber.StatusRequestEntityTooLarge, upload.Response{Error: upload.ErrTooLarge.Error()})
	}

	src, err := header.Open()
	if err != nil {
		return reply(c, fiber.StatusBadRequest, upload.Response{Error: "cannot read file"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, s.config.Validator.MaxSize+1))
	if err != nil {
		return reply(c, fiber.StatusBadRequest, upload.Response{Error: "cannot read file"})
	}

	file := upload.File{Name: header.Filename, ContentType: header.Header.Get("Content-Type"), Data: data}
	contentType, err := s.config.Validator.Check(file)
	if err != nil {
		s.logger.Info("upload rejected", zap.String("file", file.Name), zap.Error(err))
		return reply(c, statusFor(err), upload.Response{Error: err.Error()})
	}

	name := uuid.NewString() + extensions[contentType]
	url, err := s.storage.Save(c.UserContext(), name, contentType, data)
	if err != nil {
		s.logger.Error("store upload", zap.String("file", file.Name), zap.Error(err))
		return reply(c, fiber.StatusInternalServerError, upload.Response{Error: "failed to store file"})
	}

	s.logger.Info("upload stored",
		zap.String("file", file.Name),
		zap.String("type", contentType),
		zap.Int64("size", file.Size()),
		zap.String("url", url),
	)
	return reply(c, fiber.StatusOK, upload.Response{URL: url})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrUnsupportedType):
		return fiber.StatusUnsupportedMediaType
	}
	return fiber.StatusBadRequest
}

func reply(c *fiber.Ctx, status int, body upload.Response) error {
	return c.Status(status).JSON(body)
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return reply(c, status, upload.Response{Error: strings.ToLower(err.Error())})
}
