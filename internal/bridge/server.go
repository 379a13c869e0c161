package bridge

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the signal endpoint the terminal polls, plus health and
// metrics endpoints. The terminal's ServerURL must point at this address.
type Server struct {
	addr      string
	evaluator *Evaluator
	router    *gin.Engine
	started   time.Time
}

// NewServer builds the bridge HTTP server around an evaluator.
func NewServer(addr string, evaluator *Evaluator) *Server {
	if addr == "" {
		addr = ":3000"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		addr:      addr,
		evaluator: evaluator,
		router:    router,
		started:   time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.POST("/signal", s.handleSignal)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Run blocks serving requests until the listener fails.
func (s *Server) Run() error {
	log.Printf("🟢 Bridge server listening on %s, terminal polls POST /signal", s.addr)
	return s.router.Run(s.addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleSignal accepts a terminal snapshot as form data or JSON and
// responds with a trading decision. Malformed or incomplete snapshots get
// action NONE with a 400; they are the terminal's problem to fix, not a
// server failure.
func (s *Server) handleSignal(c *gin.Context) {
	var snap Snapshot
	if err := c.ShouldBind(&snap); err != nil {
		observeRequest("malformed")
		c.JSON(http.StatusBadRequest, Decision{Action: ActionNone, Comment: "Empty or malformed payload"})
		return
	}

	observeQuote(snap.Symbol, snap.Bid, snap.Ask)

	if !snap.Valid() {
		log.Printf("⚠️  Incomplete payload: symbol=%q ask=%.5f bid=%.5f", snap.Symbol, snap.Ask, snap.Bid)
		observeRequest("incomplete")
		c.JSON(http.StatusBadRequest, Decision{Action: ActionNone, Comment: "Incomplete payload"})
		return
	}

	decision, err := s.evaluator.Evaluate(&snap)
	if err != nil {
		log.Printf("❌ Signal evaluation failed: %v", err)
		observeRequest("error")
		c.JSON(http.StatusInternalServerError, Decision{
			Action:  ActionNone,
			Comment: fmt.Sprintf("Server error: %v", err),
		})
		return
	}

	if decision.Action == ActionDeal {
		log.Printf("🎯 TRADE SIGNAL -> %s %s vol=%.2f sl=%.4f tp=%.4f",
			snap.Symbol, decision.Type, decision.Volume, decision.SL, decision.TP)
		observeDeal(decision.Type)
	}
	observeRequest("ok")

	c.JSON(http.StatusOK, decision)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(s.started).String(),
	})
}
