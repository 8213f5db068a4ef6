package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/viennagloria/boss-task-tracker/internal/config"
	"github.com/viennagloria/boss-task-tracker/internal/crash"
	"github.com/viennagloria/boss-task-tracker/internal/handler"
	"github.com/viennagloria/boss-task-tracker/internal/logger"
)

// Server is the HTTP surface of the bot: the Slack events and slash
// command endpoints plus a liveness check.
type Server struct {
	srv           *http.Server
	handler       *handler.Handler
	signingSecret string
}

// NewServer builds the gin engine and routes.
func NewServer(cfg *config.Config, h *handler.Handler) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.LoggerWithWriter(logger.GetRotatingLogWriter(cfg, "http")))
	engine.Use(gin.Recovery())

	s := &Server{
		handler:       h,
		signingSecret: cfg.Slack.SigningSecret,
	}

	engine.GET("/health", s.handleHealth)
	engine.POST("/slack/events", s.handleEvents)
	engine.POST("/slack/commands", s.handleCommand)

	s.srv = &http.Server{
		Addr:    "0.0.0.0:" + cfg.Server.ListenPort,
		Handler: engine,
	}

	return s
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	logger.Infof("Starting HTTP server on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// verifiedBody reads the request body, checks the Slack request signature
// and restores the body so later form parsing still works.
func (s *Server) verifiedBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return nil, false
	}

	verifier, err := slack.NewSecretsVerifier(c.Request.Header, s.signingSecret)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return nil, false
	}
	if _, err := verifier.Write(body); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return nil, false
	}
	if err := verifier.Ensure(); err != nil {
		logger.Warningf("Rejected request with bad Slack signature: %v", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return nil, false
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body, true
}

func (s *Server) handleEvents(c *gin.Context) {
	body, ok := s.verifiedBody(c)
	if !ok {
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logger.Errorf("Error parsing Slack event: %v", err)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, challenge.Challenge)
	case slackevents.CallbackEvent:
		// Ack first; Slack retries events that are not answered quickly.
		c.Status(http.StatusOK)
		if ev, ok := event.InnerEvent.Data.(*slackevents.ReactionAddedEvent); ok {
			crash.SafeGoroutine("reaction", func() {
				s.handler.HandleReactionAdded(context.Background(), ev)
			})
		}
	default:
		c.Status(http.StatusOK)
	}
}

func (s *Server) handleCommand(c *gin.Context) {
	if _, ok := s.verifiedBody(c); !ok {
		return
	}

	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		logger.Errorf("Error parsing slash command: %v", err)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	// Ack within Slack's response window before touching the store, then
	// deliver the real response through the command's response_url.
	c.String(http.StatusOK, "")

	crash.SafeGoroutine("command", func() {
		msg := s.handler.HandleCommand(context.Background(), cmd.UserID, cmd.Text)
		if err := slack.PostWebhook(cmd.ResponseURL, msg); err != nil {
			logger.Errorf("Error posting command response: %v", err)
		}
	})
}
