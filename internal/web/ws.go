package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bjtuwh/campus-assistant-go/internal/genai"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
)

const (
	// wsWriteTimeout bounds a single frame write.
	wsWriteTimeout = 10 * time.Second
	// wsMaxMessageSize bounds an incoming question message.
	wsMaxMessageSize = 4096
	// wsCloseRateLimited is the policy-violation close code sent to
	// rate-limited clients.
	wsCloseRateLimited = websocket.ClosePolicyViolation
)

const msgRateLimited = "访问频率过高，请稍后再试"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from arbitrary deployments of the web UI.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsQuestion is the single inbound frame type.
type wsQuestion struct {
	Question string `json:"question"`
}

// Outbound frame shapes mirror the streaming protocol the web UI
// consumes: start, skill_info, sources, chunk, end, error.
type wsFrame struct {
	Type             string            `json:"type"`
	Question         string            `json:"question,omitempty"`
	Content          any               `json:"content,omitempty"`
	SkillUsed        string            `json:"skill_used,omitempty"`
	IntentConfidence float64           `json:"intent_confidence,omitempty"`
	Entities         map[string]string `json:"entities,omitempty"`
	Confidence       float64           `json:"confidence,omitempty"`
}

// HandleWS upgrades the connection and answers questions as streamed
// frames until the client disconnects.
func (h *Handler) HandleWS(c *gin.Context) {
	clientIP := c.ClientIP()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).WithField("ip", clientIP).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if h.ipLimiter != nil && !h.ipLimiter.Allow(clientIP) {
		msg := websocket.FormatCloseMessage(wsCloseRateLimited, msgRateLimited)
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteTimeout))
		return
	}

	h.met.WSSessionOpened()
	defer h.met.WSSessionClosed()
	conn.SetReadLimit(wsMaxMessageSize)

	for {
		var req wsQuestion
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).WithField("ip", clientIP).Debug("websocket read failed")
			}
			return
		}
		h.met.RecordWSMessage("in")

		if err := h.answerOverWS(c, conn, req.Question); err != nil {
			h.log.WithError(err).WithField("ip", clientIP).Debug("websocket write failed")
			return
		}
	}
}

// answerOverWS runs the answer pipeline for one question and streams
// the result. A non-nil return means the connection is unusable.
func (h *Handler) answerOverWS(c *gin.Context, conn *websocket.Conn, raw string) error {
	question, rejection := validateQuestion(raw)
	if rejection != "" {
		return h.writeFrame(conn, wsFrame{Type: "error", Content: rejection})
	}

	if err := h.writeFrame(conn, wsFrame{Type: "start", Question: question}); err != nil {
		return err
	}

	answer, results := h.service.Answer(question)

	if err := h.writeFrame(conn, wsFrame{
		Type:             "skill_info",
		SkillUsed:        answer.SkillUsed,
		IntentConfidence: answer.IntentConfidence,
		Entities:         answer.Entities,
	}); err != nil {
		return err
	}
	if err := h.writeFrame(conn, wsFrame{Type: "sources", Content: answer.Sources}); err != nil {
		return err
	}

	if err := h.streamContent(c, conn, question, answer, results); err != nil {
		return err
	}

	h.recordVisit(c, "/ws", answer.SkillUsed, answer.IntentConfidence)
	return h.writeFrame(conn, wsFrame{Type: "end", Confidence: answer.Confidence})
}

// streamContent delivers the answer body as chunk frames: LLM chunks
// when a generator is configured, the paced template answer otherwise.
func (h *Handler) streamContent(c *gin.Context, conn *websocket.Conn, question string, answer Answer, results []search.ScoredEntry) error {
	ctx := c.Request.Context()
	onChunk := func(chunk string) error {
		return h.writeFrame(conn, wsFrame{Type: "chunk", Content: chunk})
	}

	if h.service.Generator() != nil {
		delivered := false
		err := h.service.StreamAnswer(ctx, question, results, func(chunk string) error {
			delivered = true
			return onChunk(chunk)
		})
		if err == nil {
			return nil
		}
		if delivered {
			// Cannot restart a half-delivered answer.
			return h.writeFrame(conn, wsFrame{Type: "error", Content: "回答生成中断，请重试"})
		}
		if !errors.Is(err, genai.ErrGenerationDisabled) {
			h.log.WithError(err).Warn("llm stream failed, using template answer")
		}
	}

	return genai.StreamText(ctx, answer.Content, h.chunkSize, h.chunkDelay, onChunk)
}

// writeFrame sends one JSON frame with a write deadline.
func (h *Handler) writeFrame(conn *websocket.Conn, frame wsFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	if err := conn.WriteJSON(frame); err != nil {
		return err
	}
	h.met.RecordWSMessage("out")
	return nil
}
