package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pdf-chat/internal/middleware"
	"github.com/iliyamo/pdf-chat/internal/rag"
)

// ChatHandler bundles the model collaborators for the document endpoints.
// The embedder and chat model are interfaces so tests can run without a
// provider.
type ChatHandler struct {
	Embedder rag.Embedder
	LLM      rag.ChatModel
}

func NewChatHandler(embedder rag.Embedder, llm rag.ChatModel) *ChatHandler {
	return &ChatHandler{Embedder: embedder, LLM: llm}
}

type askReq struct {
	Question string `json:"question"`
}

// Upload accepts one or more PDF files in a multipart form under the
// "files" field and appends their extracted pages to the session's
// collection.  Uploads are cumulative; nothing is deduplicated and the
// index is not rebuilt here.
func (h *ChatHandler) Upload(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no session"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart form required"})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no files uploaded"})
	}

	added := 0
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "read upload failed: " + fh.Filename})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "read upload failed: " + fh.Filename})
		}

		fragments, err := rag.ExtractPDF(data, fh.Filename)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		sess.AddFragments(fragments)
		added += len(fragments)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"added_fragments": added,
		"total_fragments": sess.FragmentCount(),
	})
}

// Reindex rebuilds the answering pipeline from the full accumulated
// collection, threading the session's conversation memory through so
// history survives.  The previous pipeline is replaced wholesale.
func (h *ChatHandler) Reindex(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no session"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	pipeline, err := rag.Build(ctx, sess.Fragments(), sess.Memory(), h.Embedder, h.LLM)
	if err != nil {
		if err == rag.ErrEmptyCollection {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no documents uploaded"})
		}
		c.Logger().Errorf("index build failed: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "index build failed"})
	}
	sess.SetPipeline(pipeline)

	return c.JSON(http.StatusOK, echo.Map{
		"status":          "ready",
		"total_fragments": sess.FragmentCount(),
	})
}

// Ask answers a question against the built pipeline.  Asking before any
// build, with or without uploaded documents, is rejected with a
// conflict; only Reindex reports an empty collection.
func (h *ChatHandler) Ask(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no session"})
	}

	var req askReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "question required"})
	}

	pipeline := sess.Pipeline()
	if pipeline == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no pipeline built yet"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	answer, err := pipeline.Ask(ctx, strings.TrimSpace(req.Question))
	if err != nil {
		c.Logger().Errorf("answer failed: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "answer failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"answer": answer})
}

// History returns the session's conversation memory in order.
func (h *ChatHandler) History(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"turns": sess.Memory().Turns()})
}
